package repository

import (
	"context"
	"errors"

	"connect-service/internal/domain"
	xerrors "connect-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FriendRequestRepository struct {
	db *pgxpool.Pool
}

func NewFriendRequestRepository(db *pgxpool.Pool) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

func scanFriendRequest(row pgx.Row) (*domain.FriendRequest, error) {
	var fr domain.FriendRequest
	err := row.Scan(
		&fr.ID,
		&fr.SenderID,
		&fr.RecipientID,
		&fr.Status,
		&fr.CreatedAt,
		&fr.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// Create inserts a pending request. The pair unique index rejects a second
// request between the same two users regardless of direction or status, so
// two concurrent sends cannot both land.
func (r *FriendRequestRepository) Create(ctx context.Context, fr *domain.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (id, sender_id, recipient_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		fr.ID, fr.SenderID, fr.RecipientID, fr.Status,
	).Scan(&fr.CreatedAt, &fr.UpdatedAt)
	if err != nil {
		if xerrors.IsUniqueViolation(err, "friend_requests_pair_key") {
			return xerrors.ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (r *FriendRequestRepository) GetByID(ctx context.Context, id string) (*domain.FriendRequest, error) {
	query := `
		SELECT id, sender_id, recipient_id, status, created_at, updated_at
		FROM friend_requests
		WHERE id = $1
	`
	return scanFriendRequest(r.db.QueryRow(ctx, query, id))
}

// ExistsBetween reports whether any request links the pair, in either
// direction and whatever its status.
func (r *FriendRequestRepository) ExistsBetween(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE (sender_id = $1 AND recipient_id = $2)
			   OR (sender_id = $2 AND recipient_id = $1)
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, a, b).Scan(&exists)
	return exists, err
}

// MarkAccepted flips a pending request to accepted. Returns
// ErrAlreadyAccepted when the transition has already happened, so a replayed
// accept surfaces as a conflict rather than a second state change.
func (r *FriendRequestRepository) MarkAccepted(ctx context.Context, id string) error {
	query := `
		UPDATE friend_requests
		SET status = 'accepted', updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrAlreadyAccepted
	}
	return nil
}

const senderJoin = `
	SELECT fr.id, fr.sender_id, fr.recipient_id, fr.status, fr.created_at, fr.updated_at,
	       u.id, u.full_name, u.profile_picture, u.native_language,
	       u.learning_language, u.location, u.bio
	FROM friend_requests fr
	JOIN users u ON u.id = fr.sender_id
`

const recipientJoin = `
	SELECT fr.id, fr.sender_id, fr.recipient_id, fr.status, fr.created_at, fr.updated_at,
	       u.id, u.full_name, u.profile_picture, u.native_language,
	       u.learning_language, u.location, u.bio
	FROM friend_requests fr
	JOIN users u ON u.id = fr.recipient_id
`

func (r *FriendRequestRepository) listEnriched(ctx context.Context, query string, withSender bool, arg string) ([]*domain.FriendRequest, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*domain.FriendRequest{}
	for rows.Next() {
		var fr domain.FriendRequest
		var p domain.PublicProfile
		err := rows.Scan(
			&fr.ID, &fr.SenderID, &fr.RecipientID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
			&p.ID, &p.FullName, &p.ProfilePicture, &p.NativeLanguage,
			&p.LearningLanguage, &p.Location, &p.Bio,
		)
		if err != nil {
			return nil, err
		}
		if withSender {
			fr.Sender = &p
		} else {
			fr.Recipient = &p
		}
		requests = append(requests, &fr)
	}
	return requests, rows.Err()
}

// ListIncoming returns pending requests addressed to the user, with the
// sender's public profile attached.
func (r *FriendRequestRepository) ListIncoming(ctx context.Context, userID string) ([]*domain.FriendRequest, error) {
	query := senderJoin + `
		WHERE fr.recipient_id = $1 AND fr.status = 'pending'
		ORDER BY fr.created_at DESC
	`
	return r.listEnriched(ctx, query, true, userID)
}

// ListOutgoingPending returns pending requests the user has sent, with the
// recipient's public profile attached.
func (r *FriendRequestRepository) ListOutgoingPending(ctx context.Context, userID string) ([]*domain.FriendRequest, error) {
	query := recipientJoin + `
		WHERE fr.sender_id = $1 AND fr.status = 'pending'
		ORDER BY fr.created_at DESC
	`
	return r.listEnriched(ctx, query, false, userID)
}

// ListAcceptedSent returns requests the user sent that were accepted, the
// "recently connected" view.
func (r *FriendRequestRepository) ListAcceptedSent(ctx context.Context, userID string) ([]*domain.FriendRequest, error) {
	query := recipientJoin + `
		WHERE fr.sender_id = $1 AND fr.status = 'accepted'
		ORDER BY fr.updated_at DESC
	`
	return r.listEnriched(ctx, query, false, userID)
}
