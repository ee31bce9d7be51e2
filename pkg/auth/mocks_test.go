package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smartbuy/auth/pkg/auth"
	"github.com/smartbuy/auth/pkg/email"
	"github.com/smartbuy/auth/pkg/magiclink"
	"github.com/smartbuy/auth/pkg/oauth"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, emailAddr string) (*auth.User, error) {
	args := m.Called(ctx, emailAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockStorage) CreateUser(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockStorage) SetUserVerified(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStorage) ListUsers(ctx context.Context) ([]auth.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]auth.User), args.Error(1)
}

type MockMagicLinks struct {
	mock.Mock
}

func (m *MockMagicLinks) Request(ctx context.Context, emailAddr string) (*magiclink.LinkRequest, error) {
	args := m.Called(ctx, emailAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*magiclink.LinkRequest), args.Error(1)
}

func (m *MockMagicLinks) Redeem(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type MockCodeExchanger struct {
	mock.Mock
}

func (m *MockCodeExchanger) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockCodeExchanger) Exchange(ctx context.Context, code string) (oauth.Identity, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(oauth.Identity), args.Error(1)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
