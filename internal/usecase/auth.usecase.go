package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"

	"connect-service/internal/domain"
	xerrors "connect-service/pkg/xerrors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthUsecase struct {
	users    UserDirectory
	provider ProviderSync
	idGen    IDGenerator
	logger   *zap.Logger
}

func NewAuthUsecase(users UserDirectory, provider ProviderSync, idGen IDGenerator, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		provider: provider,
		idGen:    idGen,
		logger:   logger,
	}
}

func (uc *AuthUsecase) Signup(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	var missing []string
	if fullName == "" {
		missing = append(missing, "fullName")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, xerrors.NewValidationError(missing...)
	}
	if len(password) < 8 {
		return nil, xerrors.ErrPasswordTooShort
	}
	if !emailRegex.MatchString(email) {
		return nil, xerrors.ErrInvalidEmailFormat
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Map new users to one of the 100 stock avatars.
	avatar := fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", rand.Intn(100)+1)

	user := &domain.User{
		ID:             uc.idGen.Generate("usr"),
		FullName:       fullName,
		Email:          email,
		PasswordHash:   string(hash),
		ProfilePicture: avatar,
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.syncProvider(ctx, user)

	uc.logger.Info("user signed up", zap.String("user_id", user.ID))
	return user, nil
}

func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, xerrors.NewValidationError("email", "password")
	}

	user, err := uc.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			return nil, xerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, xerrors.ErrInvalidCredentials
	}
	return user, nil
}

type OnboardInput struct {
	FullName         string `json:"full_name"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"native_language"`
	LearningLanguage string `json:"learning_language"`
	Location         string `json:"location"`
}

// Onboard completes the profile and marks the user eligible for
// recommendations. All fields are required; missing ones are reported
// together so the form can highlight them in one round trip.
func (uc *AuthUsecase) Onboard(ctx context.Context, callerID string, in OnboardInput) (*domain.User, error) {
	var missing []string
	if in.FullName == "" {
		missing = append(missing, "fullName")
	}
	if in.Bio == "" {
		missing = append(missing, "bio")
	}
	if in.NativeLanguage == "" {
		missing = append(missing, "nativeLanguage")
	}
	if in.LearningLanguage == "" {
		missing = append(missing, "learningLanguage")
	}
	if in.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, xerrors.NewValidationError(missing...)
	}

	user, err := uc.users.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	user.FullName = in.FullName
	user.Bio = in.Bio
	user.NativeLanguage = in.NativeLanguage
	user.LearningLanguage = in.LearningLanguage
	user.Location = in.Location

	if err := uc.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	uc.syncProvider(ctx, user)

	uc.logger.Info("user onboarded", zap.String("user_id", user.ID))
	return user, nil
}

func (uc *AuthUsecase) Me(ctx context.Context, callerID string) (*domain.User, error) {
	return uc.users.GetUserByID(ctx, callerID)
}

// syncProvider pushes the profile to the chat provider. The local write has
// already committed; a provider outage must not undo or block it.
func (uc *AuthUsecase) syncProvider(ctx context.Context, user *domain.User) {
	if uc.provider == nil {
		return
	}
	if err := uc.provider.UpsertUser(ctx, user.Public()); err != nil {
		uc.logger.Warn("provider profile sync failed",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}
}
