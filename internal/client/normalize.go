package client

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"questpath/internal/model"
	"questpath/internal/progression"

	"github.com/goccy/go-json"
)

var errNoUser = errors.New("response carries no user")

// flexString accepts a JSON string, a number or an extended-JSON {"$oid": ...} object.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if data[0] == '{' {
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(data, &oid); err != nil {
			return err
		}
		*f = flexString(oid.OID)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}

// flexInt accepts integers, floats and numeric strings. Non-numeric values
// read as zero; numbers outside the int range are an error.
// float64(math.MaxInt) rounds up to 2^63, so it is an exclusive bound.
const (
	maxIntFloat = float64(math.MaxInt)
	minIntFloat = float64(math.MinInt)
)

type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if v >= maxIntFloat || v < minIntFloat {
		return fmt.Errorf("number %s out of range", raw)
	}
	f.value = int(v)
	f.set = true
	return nil
}

func (f flexInt) Int() int {
	return f.value
}

type userPayload struct {
	ID              flexString      `json:"id"`
	MongoID         flexString      `json:"_id"`
	FirebaseUID     flexString      `json:"firebase_uid"`
	Username        string          `json:"username"`
	DisplayName     string          `json:"display_name"`
	Email           string          `json:"email"`
	TotalXP         flexInt         `json:"total_xp"`
	XP              flexInt         `json:"xp"`
	CurrentStreak   flexInt         `json:"current_streak"`
	StreakCount     flexInt         `json:"streak_count"`
	LongestStreak   flexInt         `json:"longest_streak"`
	QuestsCompleted flexInt         `json:"quests_completed"`
	CompletedQuests []flexString    `json:"completed_quests"`
	Badges          json.RawMessage `json:"badges"`
}

type badgeObject struct {
	ID      flexString `json:"id"`
	BadgeID flexString `json:"badge_id"`
	Name    string     `json:"name"`
}

// NormalizeUser reads a backend user in any of the shapes the platform
// returns: wrapped in {"user": ...} or bare, with total_xp or xp, and with
// id, _id or firebase_uid. The level is always recomputed from XP and
// negative counters are clamped to zero. It also returns the completed
// quest IDs.
func NormalizeUser(data []byte) (model.UserProgress, []string, error) {
	raw, err := unwrapUser(data)
	if err != nil {
		return model.UserProgress{}, nil, err
	}

	var p userPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.UserProgress{}, nil, err
	}

	id := firstNonEmpty(p.ID.String(), p.MongoID.String(), p.FirebaseUID.String())

	xp := p.TotalXP
	if !xp.set {
		xp = p.XP
	}
	streak := p.CurrentStreak
	if !streak.set {
		streak = p.StreakCount
	}

	progress := model.UserProgress{
		ID:              id,
		Username:        firstNonEmpty(p.Username, p.DisplayName),
		Email:           p.Email,
		TotalXP:         clamp(xp.Int()),
		CurrentStreak:   clamp(streak.Int()),
		LongestStreak:   clamp(p.LongestStreak.Int()),
		QuestsCompleted: clamp(p.QuestsCompleted.Int()),
		Badges:          parseBadges(p.Badges),
	}
	progress.Level = progression.LevelForXP(progress.TotalXP)
	if progress.LongestStreak < progress.CurrentStreak {
		progress.LongestStreak = progress.CurrentStreak
	}

	var completed []string
	for _, q := range p.CompletedQuests {
		if id := q.String(); id != "" {
			completed = append(completed, id)
		}
	}
	if progress.QuestsCompleted < len(completed) {
		progress.QuestsCompleted = len(completed)
	}

	return progress, completed, nil
}

func unwrapUser(data []byte) (json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	if envelope == nil {
		return nil, errNoUser
	}
	if user, ok := envelope["user"]; ok {
		trimmed := bytes.TrimSpace(user)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, errNoUser
		}
		return user, nil
	}
	return data, nil
}

func parseBadges(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	var badges []string
	for _, item := range items {
		var s flexString
		if err := json.Unmarshal(item, &s); err == nil && s.String() != "" {
			badges = append(badges, s.String())
			continue
		}
		var obj badgeObject
		if err := json.Unmarshal(item, &obj); err == nil {
			if id := firstNonEmpty(obj.ID.String(), obj.BadgeID.String(), obj.Name); id != "" {
				badges = append(badges, id)
			}
		}
	}
	return badges
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
