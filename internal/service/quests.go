package service

import (
	"context"
	"time"

	"questpath/internal/model"
)

type QuestService struct {
	catalog QuestCatalog
	ledger  *QuestLedger
}

func NewQuestService(catalog QuestCatalog, ledger *QuestLedger) *QuestService {
	return &QuestService{
		catalog: catalog,
		ledger:  ledger,
	}
}

func (s *QuestService) ListQuests(ctx context.Context, userID string) ([]model.QuestStatus, error) {
	quests, err := s.catalog.ListQuests(ctx)
	if err != nil {
		return nil, asNetworkError("list quests", err)
	}

	completedAt := make(map[string]time.Time)
	for _, rec := range s.ledger.Completions(userID) {
		completedAt[rec.QuestID] = rec.CompletedAt
	}

	statuses := make([]model.QuestStatus, 0, len(quests))
	for _, q := range quests {
		if q == nil {
			continue
		}
		status := model.QuestStatus{Quest: *q}
		if at, ok := completedAt[q.ID]; ok {
			status.Completed = true
			if !at.IsZero() {
				t := at
				status.CompletedAt = &t
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// CompleteQuest resolves questID against the catalog and hands it to the ledger.
func (s *QuestService) CompleteQuest(ctx context.Context, userID, questID string) (model.CompletionResult, error) {
	quests, err := s.catalog.ListQuests(ctx)
	if err != nil {
		return model.CompletionResult{}, asNetworkError("list quests", err)
	}

	for _, q := range quests {
		if q != nil && q.ID == questID {
			return s.ledger.Complete(ctx, userID, q)
		}
	}
	return model.CompletionResult{}, ErrQuestNotFound
}

func (s *QuestService) Completions(userID string) []model.CompletionRecord {
	return s.ledger.Completions(userID)
}
