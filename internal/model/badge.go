package model

type BadgeCriteria string

const (
	CriteriaQuestCount BadgeCriteria = "quest_count"
	CriteriaStreakDays BadgeCriteria = "streak_days"
	CriteriaTotalXP    BadgeCriteria = "total_xp"
	CriteriaLevel      BadgeCriteria = "level"
)

type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    string
	Criteria    BadgeCriteria
	Threshold   int
	Rare        bool
}
