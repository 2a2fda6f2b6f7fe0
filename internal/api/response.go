package api

import (
	"time"

	"questpath/internal/model"
	"questpath/internal/progression"
)

type UserResponse struct {
	ID              string     `json:"id"`
	Username        string     `json:"username,omitempty"`
	Email           string     `json:"email,omitempty"`
	TotalXP         int        `json:"total_xp"`
	Level           int        `json:"level"`
	ProgressPercent int        `json:"progress_percent"`
	XPToNextLevel   int        `json:"xp_to_next_level"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	QuestsCompleted int        `json:"quests_completed"`
	Badges          []string   `json:"badges"`
	LastActive      *time.Time `json:"last_active,omitempty"`
}

func newUserResponse(u model.UserProgress) UserResponse {
	snap := progression.Snapshot(u.TotalXP)
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		TotalXP:         u.TotalXP,
		Level:           snap.Level,
		ProgressPercent: snap.Percent,
		XPToNextLevel:   snap.XPToNext,
		CurrentStreak:   u.CurrentStreak,
		LongestStreak:   u.LongestStreak,
		QuestsCompleted: u.QuestsCompleted,
		Badges:          badges,
		LastActive:      u.LastActive,
	}
}

type QuestResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Difficulty  string     `json:"difficulty"`
	XPReward    int        `json:"xp_reward"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newQuestResponse(s model.QuestStatus) QuestResponse {
	return QuestResponse{
		ID:          s.Quest.ID,
		Title:       s.Quest.Title,
		Description: s.Quest.Description,
		Difficulty:  string(s.Quest.Difficulty),
		XPReward:    s.Quest.XPReward,
		Completed:   s.Completed,
		CompletedAt: s.CompletedAt,
	}
}

type CompletionResponse struct {
	QuestID       string   `json:"quest_id"`
	XPAwarded     int      `json:"xp_awarded"`
	LeveledUp     bool     `json:"leveled_up"`
	NewLevel      int      `json:"new_level"`
	TotalXP       int      `json:"total_xp"`
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	NewBadges     []string `json:"new_badges"`
}

func newCompletionResponse(r model.CompletionResult) CompletionResponse {
	badges := r.NewBadges
	if badges == nil {
		badges = []string{}
	}
	return CompletionResponse{
		QuestID:       r.QuestID,
		XPAwarded:     r.XPAwarded,
		LeveledUp:     r.LeveledUp,
		NewLevel:      r.NewLevel,
		TotalXP:       r.TotalXP,
		CurrentStreak: r.CurrentStreak,
		LongestStreak: r.LongestStreak,
		NewBadges:     badges,
	}
}

type StepResponse struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	State string `json:"state"`
}

func newStepResponse(s model.WorkflowStep) StepResponse {
	return StepResponse{Name: s.Name, Icon: s.Icon, State: string(s.State)}
}

func newStepResponses(steps []model.WorkflowStep) []StepResponse {
	out := make([]StepResponse, 0, len(steps))
	for _, s := range steps {
		out = append(out, newStepResponse(s))
	}
	return out
}
