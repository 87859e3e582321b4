package domain

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

// FriendRequest is a directed proposal from Sender to Recipient. The ledger
// row is the sole authority for request state; the friendships projection is
// derived from it on acceptance.
type FriendRequest struct {
	ID          string              `json:"id"`
	SenderID    string              `json:"sender_id"`
	RecipientID string              `json:"recipient_id"`
	Status      FriendRequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Populated on list endpoints for rendering; nil elsewhere.
	Sender    *PublicProfile `json:"sender,omitempty"`
	Recipient *PublicProfile `json:"recipient,omitempty"`
}
