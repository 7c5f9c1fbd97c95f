package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"
	"github.com/Jairamjavv/quizda-v2-sub000/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	args := m.Called(ctx, googleID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) BumpTokenVersion(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateTokens(user models.User) (models.TokenPair, error) {
	args := m.Called(user)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

var (
	testCtx  = context.Background()
	testLog  = slog.New(slog.NewTextHandler(io.Discard, nil))
	testPair = models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
)

func TestRegister_Success(t *testing.T) {
	repo := new(MockUserRepository)
	issuer := new(MockTokenIssuer)
	svc := NewAuthService(testLog, repo, issuer)

	repo.On("SaveUser", testCtx, mock.MatchedBy(func(u models.User) bool {
		if u.Email != "a@x.com" || u.Username != "alice" || u.Role != models.RoleContributor {
			return false
		}
		return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("Abcd1234")) == nil
	})).Return(int64(7), nil)
	issuer.On("GenerateTokens", mock.Anything).Return(testPair, nil)

	user, pair, err := svc.Register(testCtx, "a@x.com", "alice", models.RoleContributor, "Abcd1234", "")

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, testPair, pair)
	repo.AssertExpectations(t)
	issuer.AssertExpectations(t)
}

func TestRegister_ExternalIdentityWithoutPassword(t *testing.T) {
	repo := new(MockUserRepository)
	issuer := new(MockTokenIssuer)
	svc := NewAuthService(testLog, repo, issuer)

	repo.On("SaveUser", testCtx, mock.MatchedBy(func(u models.User) bool {
		return u.GoogleID == "google-sub" && len(u.PasswordHash) == 0
	})).Return(int64(8), nil)
	issuer.On("GenerateTokens", mock.Anything).Return(testPair, nil)

	user, _, err := svc.Register(testCtx, "b@x.com", "bob", models.RoleAttempter, "", "google-sub")

	require.NoError(t, err)
	assert.Equal(t, int64(8), user.ID)
	repo.AssertExpectations(t)
}

func TestRegister_NoCredentialsAtAll(t *testing.T) {
	svc := NewAuthService(testLog, new(MockUserRepository), new(MockTokenIssuer))

	_, _, err := svc.Register(testCtx, "c@x.com", "carol", models.RoleAttempter, "", "")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_Duplicate(t *testing.T) {
	repo := new(MockUserRepository)
	issuer := new(MockTokenIssuer)
	svc := NewAuthService(testLog, repo, issuer)

	repo.On("SaveUser", testCtx, mock.Anything).Return(int64(0), storage.ErrUserExists)

	_, _, err := svc.Register(testCtx, "a@x.com", "alice", models.RoleContributor, "Abcd1234", "")

	assert.ErrorIs(t, err, ErrUserExist)
	issuer.AssertNotCalled(t, "GenerateTokens", mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockUserRepository)
	issuer := new(MockTokenIssuer)
	svc := NewAuthService(testLog, repo, issuer)

	passHash, err := bcrypt.GenerateFromPassword([]byte("Abcd1234"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := models.User{ID: 7, Email: "a@x.com", Role: models.RoleContributor, PasswordHash: passHash}

	repo.On("UserByEmail", testCtx, "a@x.com").Return(stored, nil)
	issuer.On("GenerateTokens", stored).Return(testPair, nil)

	user, pair, err := svc.Login(testCtx, "a@x.com", "Abcd1234", "")

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, testPair, pair)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	issuer := new(MockTokenIssuer)
	svc := NewAuthService(testLog, repo, issuer)

	passHash, err := bcrypt.GenerateFromPassword([]byte("Abcd1234"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo.On("UserByEmail", testCtx, "a@x.com").
		Return(models.User{ID: 7, Email: "a@x.com", PasswordHash: passHash}, nil)

	_, _, err = svc.Login(testCtx, "a@x.com", "wrong-password", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	issuer.AssertNotCalled(t, "GenerateTokens", mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(testLog, repo, new(MockTokenIssuer))

	repo.On("UserByEmail", testCtx, "nobody@x.com").
		Return(models.User{}, storage.ErrUserNotFound)

	_, _, err := svc.Login(testCtx, "nobody@x.com", "Abcd1234", "")

	// unknown users and wrong passwords are indistinguishable to the caller
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NoLocalPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(testLog, repo, new(MockTokenIssuer))

	repo.On("UserByEmail", testCtx, "b@x.com").
		Return(models.User{ID: 8, Email: "b@x.com", GoogleID: "google-sub"}, nil)

	_, _, err := svc.Login(testCtx, "b@x.com", "Abcd1234", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ExternalIdentityRef(t *testing.T) {
	repo := new(MockUserRepository)
	issuer := new(MockTokenIssuer)
	svc := NewAuthService(testLog, repo, issuer)

	stored := models.User{ID: 8, Email: "b@x.com", GoogleID: "google-sub", Role: models.RoleAttempter}

	repo.On("UserByGoogleID", testCtx, "google-sub").Return(stored, nil)
	issuer.On("GenerateTokens", stored).Return(testPair, nil)

	user, _, err := svc.Login(testCtx, "", "", "google-sub")

	require.NoError(t, err)
	assert.Equal(t, int64(8), user.ID)
	// the external ref path never consults the password
	repo.AssertNotCalled(t, "UserByEmail", mock.Anything, mock.Anything)
}

func TestLogin_UnknownExternalRef(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(testLog, repo, new(MockTokenIssuer))

	repo.On("UserByGoogleID", testCtx, "missing-sub").
		Return(models.User{}, storage.ErrUserNotFound)

	_, _, err := svc.Login(testCtx, "", "", "missing-sub")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_MissingCredentials(t *testing.T) {
	svc := NewAuthService(testLog, new(MockUserRepository), new(MockTokenIssuer))

	_, _, err := svc.Login(testCtx, "a@x.com", "", "")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserByID(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAuthService(testLog, repo, new(MockTokenIssuer))

	repo.On("UserByID", testCtx, int64(7)).Return(models.User{ID: 7}, nil)
	repo.On("UserByID", testCtx, int64(9)).Return(models.User{}, storage.ErrUserNotFound)

	user, err := svc.UserByID(testCtx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	_, err = svc.UserByID(testCtx, 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
