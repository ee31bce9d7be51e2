package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartbuy/auth/pkg/auth"
	"github.com/smartbuy/auth/pkg/password"
)

func TestResolverResolveOrCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns existing user unchanged", func(t *testing.T) {
		t.Parallel()

		existing := &auth.User{ID: 7, Email: "jane@example.com", Username: "old-name", Verified: false}
		storage := new(MockStorage)
		storage.On("GetUserByEmail", ctx, "jane@example.com").Return(existing, nil)

		resolver := auth.NewResolver(storage, nil)
		user, err := resolver.ResolveOrCreate(ctx, "Jane@Example.COM", "Jane Doe", true)
		require.NoError(t, err)
		assert.Equal(t, existing, user)
		assert.Equal(t, "old-name", user.Username, "existing profile must not be overwritten")
		storage.AssertExpectations(t)
	})

	t.Run("provisions new user with placeholder credential", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetUserByEmail", ctx, "new@example.com").Return(nil, auth.ErrUserNotFound)
		storage.On("CreateUser", ctx, mock.MatchedBy(func(u *auth.User) bool {
			return u.Email == "new@example.com" &&
				u.Username == "New User" &&
				u.Verified &&
				len(u.PasswordHash) > 0
		})).Return(&auth.User{ID: 42, Email: "new@example.com", Username: "New User", Verified: true}, nil)

		resolver := auth.NewResolver(storage, nil)
		user, err := resolver.ResolveOrCreate(ctx, "new@example.com", "New User", true)
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		storage.AssertExpectations(t)
	})

	t.Run("placeholder credential never verifies", func(t *testing.T) {
		t.Parallel()

		var captured *auth.User
		storage := new(MockStorage)
		storage.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, auth.ErrUserNotFound)
		storage.On("CreateUser", ctx, mock.Anything).Run(func(args mock.Arguments) {
			captured = args.Get(1).(*auth.User)
		}).Return(&auth.User{ID: 1, Email: "ghost@example.com"}, nil)

		resolver := auth.NewResolver(storage, nil)
		_, err := resolver.ResolveOrCreate(ctx, "ghost@example.com", "", false)
		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.False(t, password.Verify("", captured.PasswordHash))
		assert.False(t, password.Verify("password", captured.PasswordHash))
	})

	t.Run("username falls back to email local part", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetUserByEmail", ctx, "solo@example.com").Return(nil, auth.ErrUserNotFound)
		storage.On("CreateUser", ctx, mock.MatchedBy(func(u *auth.User) bool {
			return u.Username == "solo"
		})).Return(&auth.User{ID: 3, Email: "solo@example.com", Username: "solo"}, nil)

		resolver := auth.NewResolver(storage, nil)
		user, err := resolver.ResolveOrCreate(ctx, "solo@example.com", "   ", false)
		require.NoError(t, err)
		assert.Equal(t, "solo", user.Username)
		storage.AssertExpectations(t)
	})

	t.Run("race loser re-reads the winner's record", func(t *testing.T) {
		t.Parallel()

		winner := &auth.User{ID: 9, Email: "race@example.com", Username: "race"}
		storage := new(MockStorage)
		storage.On("GetUserByEmail", ctx, "race@example.com").Return(nil, auth.ErrUserNotFound).Once()
		storage.On("CreateUser", ctx, mock.Anything).Return(nil, auth.ErrEmailTaken).Once()
		storage.On("GetUserByEmail", ctx, "race@example.com").Return(winner, nil).Once()

		resolver := auth.NewResolver(storage, nil)
		user, err := resolver.ResolveOrCreate(ctx, "race@example.com", "", false)
		require.NoError(t, err)
		assert.Equal(t, winner, user)
		storage.AssertExpectations(t)
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		t.Parallel()

		storage := new(MockStorage)
		storage.On("GetUserByEmail", ctx, "down@example.com").Return(nil, errors.New("connection refused"))

		resolver := auth.NewResolver(storage, nil)
		_, err := resolver.ResolveOrCreate(ctx, "down@example.com", "", false)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUserNotFound)
	})
}

// fakeStorage is an in-memory Storage with real uniqueness semantics for
// exercising concurrent resolution.
type fakeStorage struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*auth.User
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{byMail: make(map[string]*auth.User)}
}

func (f *fakeStorage) GetUserByEmail(_ context.Context, emailAddr string) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byMail[emailAddr]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, auth.ErrUserNotFound
}

func (f *fakeStorage) CreateUser(_ context.Context, user *auth.User) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byMail[user.Email]; ok {
		return nil, auth.ErrEmailTaken
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	f.byMail[user.Email] = &stored
	clone := stored
	return &clone, nil
}

func (f *fakeStorage) SetUserVerified(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byMail {
		if u.ID == userID {
			u.Verified = true
			return nil
		}
	}
	return auth.ErrUserNotFound
}

func (f *fakeStorage) ListUsers(_ context.Context) ([]auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]auth.User, 0, len(f.byMail))
	for _, u := range f.byMail {
		users = append(users, *u)
	}
	return users, nil
}

func TestResolverConcurrentFirstLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := newFakeStorage()
	resolver := auth.NewResolver(storage, nil)

	const goroutines = 8
	results := make([]*auth.User, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = resolver.ResolveOrCreate(ctx, "shared@example.com", "shared", true)
		}()
	}
	wg.Wait()

	for i := range goroutines {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, results[0].ID, results[i].ID, "all callers must observe the same user")
	}

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
