package handler

import (
	"net/http"

	"connect-service/internal/usecase"
	"connect-service/pkg/response"
	xerrors "connect-service/pkg/xerrors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FriendHandler struct {
	uc     *usecase.FriendUsecase
	logger *zap.Logger
}

func NewFriendHandler(uc *usecase.FriendUsecase, logger *zap.Logger) *FriendHandler {
	return &FriendHandler{uc: uc, logger: logger}
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}
	recipientID := chi.URLParam(r, "id")

	fr, err := h.uc.SendRequest(r.Context(), uid, recipientID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]interface{}{"friend_request": fr})
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}
	requestID := chi.URLParam(r, "id")

	fr, err := h.uc.AcceptRequest(r.Context(), uid, requestID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"friend_request": fr})
}

// ListRequests returns pending incoming requests together with the caller's
// accepted-sent history, mirroring what the requests page renders.
func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	incoming, err := h.uc.ListIncoming(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	accepted, err := h.uc.ListAcceptedSent(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"incoming_requests": incoming,
		"accepted_requests": accepted,
	})
}

func (h *FriendHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	outgoing, err := h.uc.ListOutgoing(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"outgoing_requests": outgoing})
}

func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	friends, err := h.uc.ListFriends(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"friends": friends})
}

func (h *FriendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	recommended, err := h.uc.Recommend(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"recommended_users": recommended})
}
