package repository

import (
	"context"
	"errors"

	"connect-service/internal/domain"
	xerrors "connect-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, bio, profile_picture,
	native_language, learning_language, location, is_onboarded, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PasswordHash,
		&u.Bio,
		&u.ProfilePicture,
		&u.NativeLanguage,
		&u.LearningLanguage,
		&u.Location,
		&u.IsOnboarded,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanPublicProfile(row pgx.Row) (*domain.PublicProfile, error) {
	var p domain.PublicProfile
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.ProfilePicture,
		&p.NativeLanguage,
		&p.LearningLanguage,
		&p.Location,
		&p.Bio,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, full_name, email, password_hash, profile_picture)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.ProfilePicture,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if xerrors.IsUniqueViolation(err, "users_email_key") {
			return xerrors.ErrEmailAlreadyInUse
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// UpdateProfile overwrites the onboarding profile fields and flips
// is_onboarded on.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET full_name = $2,
		    bio = $3,
		    native_language = $4,
		    learning_language = $5,
		    location = $6,
		    is_onboarded = TRUE,
		    updated_at = now()
		WHERE id = $1
		RETURNING is_onboarded, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		u.ID, u.FullName, u.Bio, u.NativeLanguage, u.LearningLanguage, u.Location,
	).Scan(&u.IsOnboarded, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrUserNotFound
	}
	return err
}
