package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{1, 1},
		{999, 1},
		{1000, 2},
		{1999, 2},
		{2500, 3},
		{10000, 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestProgressPercentWithinLevel(t *testing.T) {
	tests := []struct {
		name    string
		xp      int
		percent int
	}{
		{"Zero", 0, 0},
		{"Boundary", 1000, 0},
		{"Quarter", 250, 25},
		{"Half into level 3", 2500, 50},
		{"Rounds down", 994, 99},
		{"Rounds half up", 995, 100},
		{"Just below half percent", 4, 0},
		{"Half percent", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.percent, ProgressPercentWithinLevel(tt.xp))
		})
	}
}

func TestProgressPercentWithinLevel_Bounds(t *testing.T) {
	for xp := 0; xp <= 5000; xp++ {
		p := ProgressPercentWithinLevel(xp)
		if p < 0 || p > 100 {
			t.Fatalf("percent %d out of range for xp=%d", p, xp)
		}
	}
}

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, 1000, XPToNextLevel(0))
	assert.Equal(t, 1000, XPToNextLevel(1000))
	assert.Equal(t, 1000, XPToNextLevel(3000))
	assert.Equal(t, 1, XPToNextLevel(999))
	assert.Equal(t, 500, XPToNextLevel(2500))

	for xp := 0; xp <= 5000; xp++ {
		next := XPToNextLevel(xp)
		assert.GreaterOrEqual(t, next, 1)
		assert.LessOrEqual(t, next, 1000)
		if xp%1000 != 0 {
			assert.Equal(t, 1000, next+xp%1000, "xp=%d", xp)
		}
	}
}

func TestSnapshot(t *testing.T) {
	assert.Equal(t, Progress{Level: 2, XPIntoLevel: 100, Percent: 10, XPToNext: 900}, Snapshot(1100))
	assert.Equal(t, Progress{Level: 1, XPIntoLevel: 0, Percent: 0, XPToNext: 1000}, Snapshot(0))
}

func TestLeveledUp(t *testing.T) {
	assert.True(t, LeveledUp(950, 1050))
	assert.True(t, LeveledUp(500, 2500))
	assert.False(t, LeveledUp(100, 999))
	assert.False(t, LeveledUp(1000, 1000))
}
