package service

import (
	"questpath/internal/model"
	"questpath/internal/progression"
)

var Badges = []model.Badge{
	{ID: "first-steps", Name: "First Steps", Description: "Complete your first quest", Icon: "🎯", Category: "beginner", Criteria: model.CriteriaQuestCount, Threshold: 1},
	{ID: "quest-completer", Name: "Quest Completer", Description: "Complete 5 quests", Icon: "⭐", Category: "quests", Criteria: model.CriteriaQuestCount, Threshold: 5},
	{ID: "quest-master", Name: "Quest Master", Description: "Complete 25 quests", Icon: "👑", Category: "quests", Criteria: model.CriteriaQuestCount, Threshold: 25, Rare: true},
	{ID: "week-warrior", Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "🔥", Category: "streak", Criteria: model.CriteriaStreakDays, Threshold: 7},
	{ID: "month-master", Name: "Month Master", Description: "Maintain a 30-day streak", Icon: "🌟", Category: "streak", Criteria: model.CriteriaStreakDays, Threshold: 30, Rare: true},
	{ID: "century-club", Name: "Century Club", Description: "Reach 1000 XP", Icon: "💯", Category: "xp", Criteria: model.CriteriaTotalXP, Threshold: 1000},
	{ID: "millionaire", Name: "Millionaire", Description: "Reach 1,000,000 XP", Icon: "💰", Category: "xp", Criteria: model.CriteriaTotalXP, Threshold: 1000000, Rare: true},
	{ID: "level-five", Name: "Level 5 Achiever", Description: "Reach Level 5", Icon: "📈", Category: "level", Criteria: model.CriteriaLevel, Threshold: 5},
	{ID: "level-ten", Name: "Level 10 Legend", Description: "Reach Level 10", Icon: "🏆", Category: "level", Criteria: model.CriteriaLevel, Threshold: 10, Rare: true},
	{ID: "level-twenty", Name: "Level 20 Master", Description: "Reach Level 20", Icon: "👸", Category: "level", Criteria: model.CriteriaLevel, Threshold: 20, Rare: true},
}

func badgeEarned(b model.Badge, p model.UserProgress) bool {
	switch b.Criteria {
	case model.CriteriaQuestCount:
		return p.QuestsCompleted >= b.Threshold
	case model.CriteriaStreakDays:
		return p.CurrentStreak >= b.Threshold
	case model.CriteriaTotalXP:
		return p.TotalXP >= b.Threshold
	case model.CriteriaLevel:
		return progression.LevelForXP(p.TotalXP) >= b.Threshold
	}
	return false
}

// EarnedBadges lists every badge whose criteria p currently meets, in catalog order.
func EarnedBadges(p model.UserProgress) []string {
	var earned []string
	for _, b := range Badges {
		if badgeEarned(b, p) {
			earned = append(earned, b.ID)
		}
	}
	return earned
}

// NewBadges lists badges p meets but does not hold yet.
func NewBadges(p model.UserProgress) []string {
	var fresh []string
	for _, id := range EarnedBadges(p) {
		if !p.HasBadge(id) {
			fresh = append(fresh, id)
		}
	}
	return fresh
}
