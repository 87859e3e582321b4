package usecase

import (
	"context"
	"errors"
	"testing"

	xerrors "connect-service/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuthUsecase(t *testing.T, provider *flakyProvider) (*AuthUsecase, *memStore) {
	t.Helper()
	store := newMemStore()
	uc := NewAuthUsecase(store, provider, &seqIDGen{}, zap.NewNop())
	return uc, store
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		uc, store := newAuthUsecase(t, &flakyProvider{})

		user, err := uc.Signup(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.False(t, user.IsOnboarded)
		assert.NotEmpty(t, user.ProfilePicture)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

		stored, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("reports all missing fields", func(t *testing.T) {
		uc, _ := newAuthUsecase(t, &flakyProvider{})

		_, err := uc.Signup(ctx, "", "", "")
		var vErr *xerrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.ElementsMatch(t, []string{"fullName", "email", "password"}, vErr.MissingFields)
	})

	t.Run("rejects short password and bad email", func(t *testing.T) {
		uc, _ := newAuthUsecase(t, &flakyProvider{})

		_, err := uc.Signup(ctx, "Alice", "alice@example.com", "short")
		assert.ErrorIs(t, err, xerrors.ErrPasswordTooShort)

		_, err = uc.Signup(ctx, "Alice", "not-an-email", "password123")
		assert.ErrorIs(t, err, xerrors.ErrInvalidEmailFormat)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		uc, _ := newAuthUsecase(t, &flakyProvider{})

		_, err := uc.Signup(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		_, err = uc.Signup(ctx, "Alice Two", "alice@example.com", "password456")
		assert.ErrorIs(t, err, xerrors.ErrEmailAlreadyInUse)
	})

	t.Run("provider outage does not fail signup", func(t *testing.T) {
		provider := &flakyProvider{err: errors.New("provider down")}
		uc, _ := newAuthUsecase(t, provider)

		user, err := uc.Signup(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, 1, provider.calls)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		uc, _ := newAuthUsecase(t, &flakyProvider{})
		created, err := uc.Signup(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)

		user, err := uc.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		uc, _ := newAuthUsecase(t, &flakyProvider{})
		_, err := uc.Signup(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)

		_, err = uc.Login(ctx, "alice@example.com", "wrongpass")
		assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)

		_, err = uc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
	})
}

func TestOnboard(t *testing.T) {
	ctx := context.Background()

	complete := OnboardInput{
		FullName:         "Alice",
		Bio:              "Learning Spanish",
		NativeLanguage:   "English",
		LearningLanguage: "Spanish",
		Location:         "Berlin",
	}

	t.Run("completes profile and flips onboarded", func(t *testing.T) {
		provider := &flakyProvider{}
		uc, store := newAuthUsecase(t, provider)
		created, err := uc.Signup(ctx, "A", "alice@example.com", "password123")
		require.NoError(t, err)
		require.False(t, created.IsOnboarded)

		user, err := uc.Onboard(ctx, created.ID, complete)
		require.NoError(t, err)
		assert.True(t, user.IsOnboarded)
		assert.Equal(t, "Spanish", user.LearningLanguage)

		stored, err := store.GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsOnboarded)
		assert.Equal(t, 2, provider.calls, "signup and onboarding both sync the provider")
	})

	t.Run("reports every missing field", func(t *testing.T) {
		uc, _ := newAuthUsecase(t, &flakyProvider{})

		_, err := uc.Onboard(ctx, "usr_x", OnboardInput{FullName: "Alice", Location: "Berlin"})
		var vErr *xerrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.ElementsMatch(t, []string{"bio", "nativeLanguage", "learningLanguage"}, vErr.MissingFields)
	})

	t.Run("unknown caller", func(t *testing.T) {
		uc, _ := newAuthUsecase(t, &flakyProvider{})
		_, err := uc.Onboard(ctx, "usr_ghost", complete)
		assert.ErrorIs(t, err, xerrors.ErrUserNotFound)
	})
}
