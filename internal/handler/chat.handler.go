package handler

import (
	"net/http"

	"connect-service/internal/service/stream"
	"connect-service/pkg/response"
	xerrors "connect-service/pkg/xerrors"

	"go.uber.org/zap"
)

type ChatHandler struct {
	stream *stream.Client
	logger *zap.Logger
}

func NewChatHandler(streamClient *stream.Client, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{stream: streamClient, logger: logger}
}

// StreamToken hands the frontend its provider token for chat and calls.
func (h *ChatHandler) StreamToken(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	token, err := h.stream.CreateToken(uid)
	if err != nil {
		h.logger.Error("failed to create provider token",
			zap.String("user_id", uid),
			zap.Error(err))
		writeError(w, h.logger, xerrors.ErrInternalServer)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}
