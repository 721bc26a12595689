package user

import (
	"context"
	"errors"
	"testing"

	"storefront-be/internal/apperr"
	"storefront-be/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ListCustomers(ctx context.Context, filter ListFilter) ([]*User, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*User), args.Int(1), args.Error(2)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Generate(userID uint, email string, role auth.Role) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

// --- Tests ---

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	valid := RegisterInput{Name: "Ana", Email: " Ana@Example.com ", Password: "password123"}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenIssuer)
		svc := NewService(repo, tokens)

		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Email == "ana@example.com" && u.Role == auth.RoleUser &&
				CheckPasswordHash("password123", u.PasswordHash)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*User).ID = 9
		}).Return(nil)
		tokens.On("Generate", uint(9), "ana@example.com", auth.RoleUser).Return("jwt", nil)

		res, err := svc.Register(ctx, valid)
		require.NoError(t, err)
		assert.Equal(t, "jwt", res.Token)
		assert.Equal(t, uint(9), res.User.ID)
		repo.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockTokenIssuer))

		_, err := svc.Register(ctx, RegisterInput{Email: "bad", Password: "short"})
		fields := apperr.Fields(err)
		assert.Equal(t, "is required", fields["name"])
		assert.Equal(t, "must be a valid email address", fields["email"])
		assert.Equal(t, "must be at least 8 characters", fields["password"])
	})

	t.Run("Email exists", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockTokenIssuer))
		repo.On("Create", ctx, mock.Anything).Return(ErrEmailExists)

		_, err := svc.Register(ctx, valid)
		assert.True(t, apperr.Is(err, apperr.ECONFLICT))
	})

	t.Run("Token failure", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenIssuer)
		svc := NewService(repo, tokens)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		tokens.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", auth.ErrMissingSecret)

		_, err := svc.Register(ctx, valid)
		assert.True(t, apperr.Is(err, apperr.EINTERNAL))
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	stored := &User{ID: 4, Email: "ana@example.com", PasswordHash: hash, Role: auth.RoleAdmin}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenIssuer)
		svc := NewService(repo, tokens)
		repo.On("FindByEmail", ctx, "ana@example.com").Return(stored, nil)
		tokens.On("Generate", uint(4), "ana@example.com", auth.RoleAdmin).Return("jwt", nil)

		res, err := svc.Login(ctx, LoginInput{Email: "ANA@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "jwt", res.Token)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockTokenIssuer))
		repo.On("FindByEmail", ctx, "ana@example.com").Return(stored, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "nope"})
		assert.True(t, apperr.Is(err, apperr.EUNAUTHORIZED))
	})

	t.Run("Unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockTokenIssuer))
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "password123"})
		assert.True(t, apperr.Is(err, apperr.EUNAUTHORIZED))
		assert.Equal(t, "invalid email or password", apperr.Message(err))
	})

	t.Run("DB error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockTokenIssuer))
		repo.On("FindByEmail", ctx, "ana@example.com").Return(nil, errors.New("db down"))

		_, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "x"})
		assert.True(t, apperr.Is(err, apperr.EINTERNAL))
	})
}

func TestService_ListCustomers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockTokenIssuer))
	repo.On("ListCustomers", ctx, ListFilter{Search: "ana", Page: 1, Limit: 10}).
		Return([]*User{{ID: 1}}, 1, nil)

	users, total, err := svc.ListCustomers(ctx, ListFilter{Search: " ana ", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
}

func TestService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates when missing", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockTokenIssuer))
		repo.On("FindByEmail", ctx, "admin@example.com").Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Role == auth.RoleAdmin && u.Email == "admin@example.com"
		})).Return(nil)

		assert.NoError(t, svc.EnsureAdmin(ctx, "Admin@example.com", "supersecret"))
		repo.AssertExpectations(t)
	})

	t.Run("Existing account untouched", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockTokenIssuer))
		repo.On("FindByEmail", ctx, "admin@example.com").Return(&User{ID: 1}, nil)

		assert.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "supersecret"))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
