package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"questpath/internal/metrics"
	"questpath/internal/model"
	"questpath/internal/progression"
	"questpath/pkg/logger"

	"go.uber.org/zap"
)

const MaxStreak = 365

type userLedger struct {
	progress  model.UserProgress
	completed map[string]time.Time
	pending   map[string]struct{}
}

func newUserLedger(userID string) *userLedger {
	return &userLedger{
		progress: model.UserProgress{
			ID:    userID,
			Level: progression.LevelForXP(0),
		},
		completed: make(map[string]time.Time),
		pending:   make(map[string]struct{}),
	}
}

// QuestLedger is the only place XP is awarded. A quest is awarded at most
// once per user: the membership check and the reservation that follows it
// share one critical section, and no collaborator is called while the lock
// is held.
type QuestLedger struct {
	mu        sync.Mutex
	users     map[string]*userLedger
	reporter  CompletionReporter
	listeners []CompletionListener
	now       func() time.Time
}

// NewQuestLedger builds a ledger. reporter may be nil, in which case
// completions are recorded locally only.
func NewQuestLedger(reporter CompletionReporter) *QuestLedger {
	return &QuestLedger{
		users:    make(map[string]*userLedger),
		reporter: reporter,
		now:      time.Now,
	}
}

func (l *QuestLedger) AddListener(listener CompletionListener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

// Seed installs the state of a freshly authenticated user, replacing
// whatever the ledger held for that ID.
func (l *QuestLedger) Seed(progress model.UserProgress, completed []string) {
	u := newUserLedger(progress.ID)
	u.progress = progress.Clone()

	if u.progress.TotalXP < 0 {
		u.progress.TotalXP = 0
	}
	if u.progress.CurrentStreak < 0 {
		u.progress.CurrentStreak = 0
	}
	if u.progress.CurrentStreak > MaxStreak {
		u.progress.CurrentStreak = MaxStreak
	}
	if u.progress.LongestStreak < u.progress.CurrentStreak {
		u.progress.LongestStreak = u.progress.CurrentStreak
	}
	u.progress.Level = progression.LevelForXP(u.progress.TotalXP)

	for _, questID := range completed {
		if questID != "" {
			u.completed[questID] = time.Time{}
		}
	}
	if u.progress.QuestsCompleted < len(u.completed) {
		u.progress.QuestsCompleted = len(u.completed)
	}

	l.mu.Lock()
	l.users[progress.ID] = u
	l.mu.Unlock()
}

func validateQuest(quest *model.Quest) error {
	if quest == nil {
		return &InvalidQuestError{Reason: "quest is nil"}
	}
	if quest.ID == "" {
		return &InvalidQuestError{Reason: "quest has no id"}
	}
	if quest.XPReward <= 0 {
		return &InvalidQuestError{QuestID: quest.ID, Reason: "xp reward must be positive"}
	}
	return nil
}

// Complete awards quest to userID. Completing an already completed quest, or
// one whose completion is still being reported, is a no-op with zero XP.
func (l *QuestLedger) Complete(ctx context.Context, userID string, quest *model.Quest) (model.CompletionResult, error) {
	log := logger.Logger()

	if err := validateQuest(quest); err != nil {
		return model.CompletionResult{}, err
	}

	l.mu.Lock()
	u, ok := l.users[userID]
	if !ok {
		u = newUserLedger(userID)
		l.users[userID] = u
	}

	if l.isTakenLocked(u, quest.ID) {
		res := unchangedResult(u, quest.ID)
		l.mu.Unlock()

		metrics.DuplicateCompletions.Inc()
		log.Debug("quest already completed",
			zap.String("user_id", userID),
			zap.String("quest_id", quest.ID))
		return res, nil
	}

	if l.reporter == nil {
		res := l.applyLocked(u, quest)
		listeners := l.listeners
		l.mu.Unlock()

		l.notify(listeners, userID, res)
		return res, nil
	}

	u.pending[quest.ID] = struct{}{}
	l.mu.Unlock()

	reportErr := l.reporter.ReportCompletion(ctx, userID, quest.ID)

	l.mu.Lock()
	delete(u.pending, quest.ID)
	if reportErr != nil {
		l.mu.Unlock()
		log.Error("failed to report quest completion",
			zap.String("user_id", userID),
			zap.String("quest_id", quest.ID),
			zap.Error(reportErr))
		return model.CompletionResult{}, asNetworkError("report completion", reportErr)
	}
	if l.users[userID] != u {
		l.mu.Unlock()
		return model.CompletionResult{}, ErrLedgerReset
	}

	res := l.applyLocked(u, quest)
	listeners := l.listeners
	l.mu.Unlock()

	l.notify(listeners, userID, res)
	return res, nil
}

func (l *QuestLedger) isTakenLocked(u *userLedger, questID string) bool {
	if _, done := u.completed[questID]; done {
		return true
	}
	_, inFlight := u.pending[questID]
	return inFlight
}

func unchangedResult(u *userLedger, questID string) model.CompletionResult {
	return model.CompletionResult{
		QuestID:       questID,
		NewLevel:      progression.LevelForXP(u.progress.TotalXP),
		TotalXP:       u.progress.TotalXP,
		CurrentStreak: u.progress.CurrentStreak,
		LongestStreak: u.progress.LongestStreak,
	}
}

func (l *QuestLedger) applyLocked(u *userLedger, quest *model.Quest) model.CompletionResult {
	now := l.now()
	p := &u.progress

	oldXP := p.TotalXP
	p.TotalXP += quest.XPReward
	p.Level = progression.LevelForXP(p.TotalXP)
	p.QuestsCompleted++

	p.CurrentStreak++
	if p.CurrentStreak > MaxStreak {
		p.CurrentStreak = MaxStreak
	}
	if p.LongestStreak < p.CurrentStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastActive = &now

	fresh := NewBadges(*p)
	p.Badges = append(p.Badges, fresh...)

	u.completed[quest.ID] = now

	res := model.CompletionResult{
		QuestID:       quest.ID,
		XPAwarded:     quest.XPReward,
		LeveledUp:     progression.LeveledUp(oldXP, p.TotalXP),
		NewLevel:      p.Level,
		TotalXP:       p.TotalXP,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		NewBadges:     fresh,
	}

	metrics.QuestsCompleted.Inc()
	metrics.XPAwarded.Add(float64(quest.XPReward))
	if res.LeveledUp {
		metrics.LevelUps.Inc()
	}

	return res
}

func (l *QuestLedger) notify(listeners []CompletionListener, userID string, res model.CompletionResult) {
	logger.Logger().Info("quest completed",
		zap.String("user_id", userID),
		zap.String("quest_id", res.QuestID),
		zap.Int("xp_awarded", res.XPAwarded),
		zap.Int("total_xp", res.TotalXP),
		zap.Bool("leveled_up", res.LeveledUp))

	for _, listener := range listeners {
		listener.OnCompletion(userID, res)
	}
}

func (l *QuestLedger) IsCompleted(userID, questID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return false
	}
	_, done := u.completed[questID]
	return done
}

// Reset forgets everything the ledger holds for userID.
func (l *QuestLedger) Reset(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.users, userID)
}

func (l *QuestLedger) Progress(userID string) (model.UserProgress, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return model.UserProgress{}, false
	}
	return u.progress.Clone(), true
}

// Completions lists userID's completed quests, most recent first. Quests
// seeded from the backend carry a zero CompletedAt and sort last.
func (l *QuestLedger) Completions(userID string) []model.CompletionRecord {
	l.mu.Lock()
	u, ok := l.users[userID]
	if !ok {
		l.mu.Unlock()
		return nil
	}
	records := make([]model.CompletionRecord, 0, len(u.completed))
	for questID, at := range u.completed {
		records = append(records, model.CompletionRecord{
			UserID:      userID,
			QuestID:     questID,
			CompletedAt: at,
		})
	}
	l.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CompletedAt.Equal(records[j].CompletedAt) {
			return records[i].CompletedAt.After(records[j].CompletedAt)
		}
		return records[i].QuestID < records[j].QuestID
	})
	return records
}
