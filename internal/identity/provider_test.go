package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mangashelf/internal/config"
	"mangashelf/internal/session"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret-test-secret-test-secret",
		AccessTokenTTL: 15 * time.Minute,
	}
}

func TestSignUp_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())

	mockRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	ident, token, err := provider.SignUp(context.Background(), "new@example.com", "password123")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "new@example.com", ident.Email)

	// Signing up signs the user in
	current := sess.Current()
	require.NotNil(t, current)
	assert.Equal(t, ident.ID, current.ID)
	mockRepo.AssertExpectations(t)
}

func TestSignUp_LookupFailureDoesNotRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())

	// A failed uniqueness check is not a free email
	mockRepo.On("FindByEmail", mock.Anything, "new@example.com").
		Return(nil, errors.New("connection refused"))

	_, _, err := provider.SignUp(context.Background(), "new@example.com", "password123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailInUse)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Nil(t, sess.Current())
}

func TestSignUp_EmailInUse(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())

	mockRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&User{ID: "u1"}, nil)

	_, _, err := provider.SignUp(context.Background(), "taken@example.com", "password123")

	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Nil(t, sess.Current())
}

func TestSignIn_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	mockRepo.On("FindByEmail", mock.Anything, "user@example.com").
		Return(&User{ID: "user-1", Email: "user@example.com", Password: hashed}, nil)

	ident, token, err := provider.SignIn(context.Background(), " user@example.com ", "password123")

	require.NoError(t, err)
	assert.Equal(t, "user-1", ident.ID)
	assert.NotEmpty(t, token)
	require.NotNil(t, sess.Current())
	assert.Equal(t, "user-1", sess.Current().ID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	mockRepo.On("FindByEmail", mock.Anything, "user@example.com").
		Return(&User{ID: "user-1", Email: "user@example.com", Password: hashed}, nil)

	_, _, err = provider.SignIn(context.Background(), "user@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, sess.Current())
}

func TestSignIn_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())

	mockRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := provider.SignIn(context.Background(), "ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutClearsSession(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())
	sess.Set(&session.Identity{ID: "user-1"})

	provider.SignOut()

	assert.Nil(t, provider.CurrentIdentity())
}

func TestValidateToken_Roundtrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sess := session.NewState()
	provider := NewProvider(mockRepo, sess, testConfig())

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	mockRepo.On("FindByEmail", mock.Anything, "user@example.com").
		Return(&User{ID: "user-1", Email: "user@example.com", Password: hashed}, nil)

	_, token, err := provider.SignIn(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	ident, err := provider.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", ident.ID)
	assert.Equal(t, "user@example.com", ident.Email)
}

func TestValidateToken_Garbage(t *testing.T) {
	provider := NewProvider(new(MockUserRepository), session.NewState(), testConfig())

	_, err := provider.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
