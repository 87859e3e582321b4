package xerrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
)

// Accounts
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
)

// Friend requests
var (
	ErrSelfRequest       = errors.New("cannot send a friend request to yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrAlreadyFriends    = errors.New("recipient is already in your friends list")
	ErrDuplicateRequest  = errors.New("friend request already sent")
	ErrRequestNotFound   = errors.New("friend request not found")
	ErrNotRecipient      = errors.New("you are not the recipient of this request")
	ErrAlreadyAccepted   = errors.New("friend request already accepted")
)

// Groups
var (
	ErrGroupNotFound           = errors.New("group not found")
	ErrGroupNameTaken          = errors.New("group name already taken")
	ErrGroupNameTooLong        = errors.New("group name must not exceed 100 characters")
	ErrGroupDescriptionTooLong = errors.New("group description must not exceed 500 characters")
	ErrAlreadyMember           = errors.New("already a member")
	ErrNotAMember              = errors.New("not a member")
	ErrNotGroupAdmin           = errors.New("not an admin")
	ErrSelfRemoval             = errors.New("admin cannot remove themselves")
)

// ValidationError reports which required fields were missing, so the
// client can render them the way the onboarding form expects.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.MissingFields, ", ")
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{MissingFields: fields}
}

func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// IsUniqueViolation reports whether err is a Postgres unique_violation,
// optionally on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
