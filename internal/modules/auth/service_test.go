package auth

import (
	"context"
	"testing"

	"github.com/Alejandro-Trvn/reservas-universidad-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJWT struct {
	mock.Mock
}

func (m *MockJWT) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestService_Login_Success(t *testing.T) {
	users := new(MockUserRepo)
	jwt := new(MockJWT)
	service := NewService(users, jwt)

	users.On("GetByEmail", mock.Anything, "ana@uni.edu").Return(&domain.User{
		ID:           7,
		Email:        "ana@uni.edu",
		PasswordHash: hashed(t, "secret123"),
		Role:         domain.RoleUsuario,
		Active:       true,
	}, nil)
	jwt.On("GenerateToken", int64(7), "usuario").Return("token-abc", nil)

	result, err := service.Login(context.Background(), LoginRequest{Email: "Ana@Uni.edu ", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, "token-abc", result.Token)
	assert.Equal(t, int64(7), result.User.ID)
	users.AssertExpectations(t)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(MockUserRepo)
	service := NewService(users, new(MockJWT))

	users.On("GetByEmail", mock.Anything, "ana@uni.edu").Return(&domain.User{
		ID:           7,
		PasswordHash: hashed(t, "secret123"),
		Active:       true,
	}, nil)

	_, err := service.Login(context.Background(), LoginRequest{Email: "ana@uni.edu", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	users := new(MockUserRepo)
	service := NewService(users, new(MockJWT))

	users.On("GetByEmail", mock.Anything, "ghost@uni.edu").Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Login(context.Background(), LoginRequest{Email: "ghost@uni.edu", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_InactiveUser(t *testing.T) {
	users := new(MockUserRepo)
	service := NewService(users, new(MockJWT))

	users.On("GetByEmail", mock.Anything, "ana@uni.edu").Return(&domain.User{
		ID:           7,
		PasswordHash: hashed(t, "secret123"),
		Active:       false,
	}, nil)

	_, err := service.Login(context.Background(), LoginRequest{Email: "ana@uni.edu", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserInactive)
}
