package magiclink_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smartbuy/auth/pkg/email"
	"github.com/smartbuy/auth/pkg/magiclink"
)

// MockEmailSender is a mock implementation of email.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// MockStore is a mock implementation of magiclink.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, link magiclink.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockStore) Consume(ctx context.Context, token string) (magiclink.Link, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(magiclink.Link), args.Error(1)
}
