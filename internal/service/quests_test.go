package service

import (
	"context"
	"errors"
	"testing"

	"questpath/internal/model"
	"questpath/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuestService_CompleteQuest(t *testing.T) {
	catalog := &mocks.MockQuestCatalog{}
	ledger := NewQuestLedger(nil)
	svc := NewQuestService(catalog, ledger)
	ctx := context.Background()

	catalog.On("ListQuests", mock.Anything).
		Return([]*model.Quest{quest("git-basics", 50), quest("first-pr", 200)}, nil)

	tests := []struct {
		name        string
		questID     string
		expectedXP  int
		expectedErr error
	}{
		{name: "known quest", questID: "first-pr", expectedXP: 200},
		{name: "repeat", questID: "first-pr", expectedXP: 0},
		{name: "unknown quest", questID: "missing", expectedErr: ErrQuestNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.CompleteQuest(ctx, "u1", tt.questID)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedXP, res.XPAwarded)
		})
	}
}

func TestQuestService_ListQuests(t *testing.T) {
	catalog := &mocks.MockQuestCatalog{}
	ledger := NewQuestLedger(nil)
	ledger.Seed(model.UserProgress{ID: "u1"}, []string{"seeded"})
	svc := NewQuestService(catalog, ledger)
	ctx := context.Background()

	catalog.On("ListQuests", mock.Anything).
		Return([]*model.Quest{quest("seeded", 50), quest("fresh", 50), quest("done", 50)}, nil)

	_, err := svc.CompleteQuest(ctx, "u1", "done")
	require.NoError(t, err)

	statuses, err := svc.ListQuests(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].Completed)
	assert.Nil(t, statuses[0].CompletedAt)
	assert.False(t, statuses[1].Completed)
	assert.True(t, statuses[2].Completed)
	assert.NotNil(t, statuses[2].CompletedAt)
}

func TestQuestService_CatalogFailure(t *testing.T) {
	catalog := &mocks.MockQuestCatalog{}
	svc := NewQuestService(catalog, NewQuestLedger(nil))

	catalog.On("ListQuests", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := svc.ListQuests(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNetwork)

	_, err = svc.CompleteQuest(context.Background(), "u1", "q")
	assert.ErrorIs(t, err, ErrNetwork)
}
