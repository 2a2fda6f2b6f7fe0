package mocks

import (
	"context"

	"questpath/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) FirebaseLogin(ctx context.Context, idToken string) (*model.LoginResult, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) VerifyToken(ctx context.Context, token string) (*model.LoginResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResult), args.Error(1)
}

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) error {
	args := m.Called(ctx, idToken)
	return args.Error(0)
}

type MockCompletionReporter struct {
	mock.Mock
}

func (m *MockCompletionReporter) ReportCompletion(ctx context.Context, userID, questID string) error {
	args := m.Called(ctx, userID, questID)
	return args.Error(0)
}

type MockQuestCatalog struct {
	mock.Mock
}

func (m *MockQuestCatalog) ListQuests(ctx context.Context) ([]*model.Quest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Quest), args.Error(1)
}

type MockWorkflowSource struct {
	mock.Mock
}

func (m *MockWorkflowSource) FetchWorkflowState(ctx context.Context, userID string) (*model.WorkflowSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowSnapshot), args.Error(1)
}
