package model

import "time"

type UserProgress struct {
	ID              string
	Username        string
	Email           string
	TotalXP         int
	Level           int
	CurrentStreak   int
	LongestStreak   int
	QuestsCompleted int
	Badges          []string
	LastActive      *time.Time
}

// Clone returns a copy that shares no slices with p.
func (p UserProgress) Clone() UserProgress {
	out := p
	if p.Badges != nil {
		out.Badges = append([]string(nil), p.Badges...)
	}
	if p.LastActive != nil {
		t := *p.LastActive
		out.LastActive = &t
	}
	return out
}

func (p UserProgress) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}
