package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"connect-service/pkg/middleware"
	"connect-service/pkg/response"
	xerrors "connect-service/pkg/xerrors"

	"go.uber.org/zap"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return xerrors.ErrInvalidRequest
	}
	return nil
}

// callerID pulls the authenticated user from the request context. The auth
// middleware guarantees it is present on protected routes.
func callerID(r *http.Request) (string, bool) {
	return middleware.GetUserID(r.Context())
}

// writeError maps a domain error to its HTTP status. Unexpected errors are
// logged with detail but surfaced as a bare 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var vErr *xerrors.ValidationError
	if errors.As(err, &vErr) {
		response.Error(w, http.StatusBadRequest, vErr.Error())
		return
	}

	switch {
	case errors.Is(err, xerrors.ErrInvalidRequest),
		errors.Is(err, xerrors.ErrSelfRequest),
		errors.Is(err, xerrors.ErrPasswordTooShort),
		errors.Is(err, xerrors.ErrInvalidEmailFormat),
		errors.Is(err, xerrors.ErrInvalidCredentials),
		errors.Is(err, xerrors.ErrGroupNameTooLong),
		errors.Is(err, xerrors.ErrGroupDescriptionTooLong),
		errors.Is(err, xerrors.ErrNotAMember):
		response.Error(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, xerrors.ErrForbidden),
		errors.Is(err, xerrors.ErrNotRecipient),
		errors.Is(err, xerrors.ErrNotGroupAdmin),
		errors.Is(err, xerrors.ErrSelfRemoval):
		response.Error(w, http.StatusForbidden, err.Error())

	case errors.Is(err, xerrors.ErrNotFound),
		errors.Is(err, xerrors.ErrUserNotFound),
		errors.Is(err, xerrors.ErrRecipientNotFound),
		errors.Is(err, xerrors.ErrRequestNotFound),
		errors.Is(err, xerrors.ErrGroupNotFound):
		response.Error(w, http.StatusNotFound, err.Error())

	case errors.Is(err, xerrors.ErrDuplicateRequest),
		errors.Is(err, xerrors.ErrAlreadyFriends),
		errors.Is(err, xerrors.ErrAlreadyAccepted),
		errors.Is(err, xerrors.ErrAlreadyMember),
		errors.Is(err, xerrors.ErrEmailAlreadyInUse),
		errors.Is(err, xerrors.ErrGroupNameTaken):
		response.Error(w, http.StatusConflict, err.Error())

	default:
		logger.Error("unexpected error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
