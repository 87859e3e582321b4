package handler

import (
	"net/http"
	"time"

	"connect-service/internal/domain"
	"connect-service/internal/usecase"
	"connect-service/pkg/jwtutil"
	"connect-service/pkg/response"
	xerrors "connect-service/pkg/xerrors"

	"go.uber.org/zap"
)

type AuthHandler struct {
	uc         *usecase.AuthUsecase
	jwtSecret  string
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewAuthHandler(uc *usecase.AuthUsecase, jwtSecret string, sessionTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:         uc,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userView strips password material from auth responses.
type userView struct {
	ID               string    `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Bio              string    `json:"bio"`
	ProfilePicture   string    `json:"profile_picture"`
	NativeLanguage   string    `json:"native_language"`
	LearningLanguage string    `json:"learning_language"`
	Location         string    `json:"location"`
	IsOnboarded      bool      `json:"is_onboarded"`
	CreatedAt        time.Time `json:"created_at"`
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:               u.ID,
		FullName:         u.FullName,
		Email:            u.Email,
		Bio:              u.Bio,
		ProfilePicture:   u.ProfilePicture,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		Location:         u.Location,
		IsOnboarded:      u.IsOnboarded,
		CreatedAt:        u.CreatedAt,
	}
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) (string, error) {
	token, err := jwtutil.Sign(h.jwtSecret, userID, h.sessionTTL)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.uc.Signup(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.issueSession(w, user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"user":  toUserView(user),
		"token": token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.issueSession(w, user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"user":  toUserView(user),
		"token": token,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	response.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	var in usecase.OnboardInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.uc.Onboard(r.Context(), uid, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"user": toUserView(user)})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerID(r)
	if !ok {
		writeError(w, h.logger, xerrors.ErrUnauthorized)
		return
	}

	user, err := h.uc.Me(r.Context(), uid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"user": toUserView(user)})
}

func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"service": "connect-service"})
}
