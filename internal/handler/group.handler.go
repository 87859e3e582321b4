package handler

import (
	"net/http"

	"connect-service/internal/usecase"
	"connect-service/pkg/response"
	xerrors "connect-service/pkg/xerrors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type GroupHandler struct {
	uc     *usecase.GroupUsecase
	logger *zap.Logger
}

func NewGroupHandler(uc *usecase.GroupUsecase, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{uc: uc, logger: logger}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	g, err := h.uc.Create(r.Context(), uid, req.Name, req.Description)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]interface{}{"group": g})
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	groups, err := h.uc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"groups":  groups,
		"user_id": uid,
	})
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(r); !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	g, err := h.uc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"group": g})
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	g, err := h.uc.Join(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"group": g})
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	g, err := h.uc.Leave(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"group": g})
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	var req updateGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	g, err := h.uc.Update(r.Context(), uid, chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"group": g})
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	if err := h.uc.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": "group deleted"})
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	g, err := h.uc.RemoveMember(r.Context(), uid, chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"group": g})
}
