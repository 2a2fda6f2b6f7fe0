package model

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var defaultRewards = map[Difficulty]int{
	DifficultyBeginner:     50,
	DifficultyIntermediate: 100,
	DifficultyAdvanced:     200,
}

func (d Difficulty) Valid() bool {
	_, ok := defaultRewards[d]
	return ok
}

// DefaultReward is the XP granted for a quest of this difficulty when the
// quest data carries no explicit reward. Unknown difficulties count as beginner.
func (d Difficulty) DefaultReward() int {
	if r, ok := defaultRewards[d]; ok {
		return r
	}
	return defaultRewards[DifficultyBeginner]
}

type Quest struct {
	ID          string
	Title       string
	Description string
	Difficulty  Difficulty
	XPReward    int
}

type CompletionRecord struct {
	UserID      string
	QuestID     string
	CompletedAt time.Time
}

type CompletionResult struct {
	QuestID       string
	XPAwarded     int
	LeveledUp     bool
	NewLevel      int
	TotalXP       int
	CurrentStreak int
	LongestStreak int
	NewBadges     []string
}

type QuestStatus struct {
	Quest       Quest
	Completed   bool
	CompletedAt *time.Time
}
