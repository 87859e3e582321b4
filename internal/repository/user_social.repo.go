package repository

import (
	"context"

	"connect-service/internal/domain"
)

const publicColumns = `id, full_name, profile_picture, native_language,
	learning_language, location, bio`

// AddFriendship writes the symmetric projection for an accepted request.
// Both directions go in one statement and conflicts are ignored, so a retry
// after a partial failure converges on the same state.
func (r *UserRepository) AddFriendship(ctx context.Context, a, b string) error {
	query := `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, a, b)
	return err
}

func (r *UserRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, a, b).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ListFriends(ctx context.Context, userID string) ([]domain.PublicProfile, error) {
	query := `
		SELECT ` + publicColumns + `
		FROM users u
		JOIN friendships f ON f.friend_id = u.id
		WHERE f.user_id = $1
		ORDER BY u.id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []domain.PublicProfile{}
	for rows.Next() {
		p, err := scanPublicProfile(rows)
		if err != nil {
			return nil, err
		}
		friends = append(friends, *p)
	}
	return friends, rows.Err()
}

// RecommendUsers returns onboarded users not connected to userID: not the
// user, not a friend, and not party to any pending request with the user in
// either direction. Ordered by id so output is stable for a given state.
func (r *UserRepository) RecommendUsers(ctx context.Context, userID string) ([]domain.PublicProfile, error) {
	query := `
		SELECT ` + publicColumns + `
		FROM users u
		WHERE u.id <> $1
		  AND u.is_onboarded
		  AND NOT EXISTS (
			SELECT 1 FROM friendships f
			WHERE f.user_id = $1 AND f.friend_id = u.id
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM friend_requests fr
			WHERE fr.status = 'pending'
			  AND ((fr.sender_id = $1 AND fr.recipient_id = u.id)
			    OR (fr.sender_id = u.id AND fr.recipient_id = $1))
		  )
		ORDER BY u.id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recommended := []domain.PublicProfile{}
	for rows.Next() {
		p, err := scanPublicProfile(rows)
		if err != nil {
			return nil, err
		}
		recommended = append(recommended, *p)
	}
	return recommended, rows.Err()
}
