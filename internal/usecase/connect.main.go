package usecase

import (
	"context"

	"connect-service/internal/domain"
	"connect-service/internal/events"
)

// UserDirectory is the profile store plus the derived friends projection.
type UserDirectory interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error

	AddFriendship(ctx context.Context, a, b string) error
	AreFriends(ctx context.Context, a, b string) (bool, error)
	ListFriends(ctx context.Context, userID string) ([]domain.PublicProfile, error)
	RecommendUsers(ctx context.Context, userID string) ([]domain.PublicProfile, error)
}

// FriendRequestLedger owns request state; nothing else mutates it.
type FriendRequestLedger interface {
	Create(ctx context.Context, fr *domain.FriendRequest) error
	GetByID(ctx context.Context, id string) (*domain.FriendRequest, error)
	ExistsBetween(ctx context.Context, a, b string) (bool, error)
	MarkAccepted(ctx context.Context, id string) error
	ListIncoming(ctx context.Context, userID string) ([]*domain.FriendRequest, error)
	ListOutgoingPending(ctx context.Context, userID string) ([]*domain.FriendRequest, error)
	ListAcceptedSent(ctx context.Context, userID string) ([]*domain.FriendRequest, error)
}

type GroupRegistry interface {
	Create(ctx context.Context, g *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	List(ctx context.Context) ([]*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	Update(ctx context.Context, g *domain.Group) error
	Delete(ctx context.Context, id string) error
}

// ProviderSync mirrors profile changes to the chat provider. Failures are
// reported but never fail the mutation that triggered them.
type ProviderSync interface {
	UpsertUser(ctx context.Context, p domain.PublicProfile) error
}

type EventSink interface {
	PublishFriendRequestSent(ctx context.Context, event *events.FriendRequestEvent) error
	PublishFriendRequestAccepted(ctx context.Context, event *events.FriendRequestEvent) error
	PublishGroupEvent(ctx context.Context, event *events.GroupEvent) error
}

type IDGenerator interface {
	Generate(prefix string) string
}
