// Package progression converts accumulated experience points into the level
// and progress figures shown to the player. Every function is pure.
//
// Inputs are expected to be non-negative; callers clamp upstream.
package progression

const XPPerLevel = 1000

type Progress struct {
	Level       int
	XPIntoLevel int
	Percent     int
	XPToNext    int
}

func LevelForXP(xp int) int {
	return xp/XPPerLevel + 1
}

// ProgressPercentWithinLevel rounds half up, so 995 XP into a level reads 100.
func ProgressPercentWithinLevel(xp int) int {
	into := xp % XPPerLevel
	return (into*100 + XPPerLevel/2) / XPPerLevel
}

// XPToNextLevel is always in [1, XPPerLevel]; a player sitting exactly on a
// level boundary (including 0 XP) needs a full level.
func XPToNextLevel(xp int) int {
	return XPPerLevel - xp%XPPerLevel
}

func Snapshot(xp int) Progress {
	return Progress{
		Level:       LevelForXP(xp),
		XPIntoLevel: xp % XPPerLevel,
		Percent:     ProgressPercentWithinLevel(xp),
		XPToNext:    XPToNextLevel(xp),
	}
}

// LeveledUp reports whether moving from oldXP to newXP crosses a level boundary.
func LeveledUp(oldXP, newXP int) bool {
	return LevelForXP(newXP) > LevelForXP(oldXP)
}
