package repository

import (
	"context"
	"errors"

	"connect-service/internal/domain"
	xerrors "connect-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupRepository struct {
	db *pgxpool.Pool
}

func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts the group and its creator's admin membership in one
// transaction, so a group can never exist without its first admin.
func (r *GroupRepository) Create(ctx context.Context, g *domain.Group) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO groups (id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, g.ID, g.Name, g.Description, g.CreatedBy).
		Scan(&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if xerrors.IsUniqueViolation(err, "groups_name_key") {
			return xerrors.ErrGroupNameTaken
		}
		return err
	}

	memberQuery := `
		INSERT INTO group_members (group_id, user_id, is_admin)
		VALUES ($1, $2, TRUE)
	`
	if _, err := tx.Exec(ctx, memberQuery, g.ID, g.CreatedBy); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM groups
		WHERE id = $1
	`
	var g domain.Group
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadMembers(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM groups
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []*domain.Group{}
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		if err := r.loadMembers(ctx, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (r *GroupRepository) loadMembers(ctx context.Context, g *domain.Group) error {
	query := `
		SELECT gm.user_id, gm.is_admin, gm.joined_at,
		       u.id, u.full_name, u.profile_picture, u.native_language,
		       u.learning_language, u.location, u.bio
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at
	`
	rows, err := r.db.Query(ctx, query, g.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	g.Members = []domain.GroupMember{}
	for rows.Next() {
		var m domain.GroupMember
		err := rows.Scan(
			&m.UserID, &m.IsAdmin, &m.JoinedAt,
			&m.Profile.ID, &m.Profile.FullName, &m.Profile.ProfilePicture,
			&m.Profile.NativeLanguage, &m.Profile.LearningLanguage,
			&m.Profile.Location, &m.Profile.Bio,
		)
		if err != nil {
			return err
		}
		g.Members = append(g.Members, m)
	}
	return rows.Err()
}

// AddMember inserts a membership row. The composite primary key turns a
// concurrent double-join into ErrAlreadyMember instead of a duplicate.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
	`
	_, err := r.db.Exec(ctx, query, groupID, userID)
	if err != nil {
		if xerrors.IsUniqueViolation(err, "") {
			return xerrors.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// RemoveMember deletes a membership row; admin status goes with it.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, groupID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotAMember
	}
	return nil
}

func (r *GroupRepository) Update(ctx context.Context, g *domain.Group) error {
	query := `
		UPDATE groups
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, g.ID, g.Name, g.Description).Scan(&g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrGroupNotFound
	}
	if err != nil && xerrors.IsUniqueViolation(err, "groups_name_key") {
		return xerrors.ErrGroupNameTaken
	}
	return err
}

// Delete removes the group; membership rows cascade with it.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrGroupNotFound
	}
	return nil
}
