package mocks

import (
	"context"

	"questpath/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, creds model.Credentials) (model.UserProgress, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(model.UserProgress), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSessionService) CurrentUser() *model.UserProgress {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.UserProgress)
}

func (m *MockSessionService) Token() string {
	args := m.Called()
	return args.String(0)
}

type MockQuestService struct {
	mock.Mock
}

func (m *MockQuestService) ListQuests(ctx context.Context, userID string) ([]model.QuestStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuestStatus), args.Error(1)
}

func (m *MockQuestService) CompleteQuest(ctx context.Context, userID, questID string) (model.CompletionResult, error) {
	args := m.Called(ctx, userID, questID)
	return args.Get(0).(model.CompletionResult), args.Error(1)
}

func (m *MockQuestService) Completions(userID string) []model.CompletionRecord {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.CompletionRecord)
}

type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) Current(ctx context.Context, userID string) (model.WorkflowState, model.WorkflowClassification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.WorkflowState), args.Get(1).(model.WorkflowClassification), args.Error(2)
}
