package level

import "fmt"

// GameMode selects the game style a level is played in
type GameMode uint8

// Game modes in the order they are numbered by the image codec
const (
	GameModeSMB1 GameMode = iota
	GameModeSMB3
	GameModeSMW
	GameModeNSMBU
	numGameModes
)

var gameModeCodes = [numGameModes]string{"M1", "M3", "MW", "WU"}

// CourseTheme selects the tileset and background of a level
type CourseTheme uint8

// Course themes
const (
	CourseThemeGround CourseTheme = iota
	CourseThemeUnderground
	CourseThemeCastle
	CourseThemeAirship
	CourseThemeWater
	CourseThemeGhostHouse
	numCourseThemes
)

var courseThemeNames = [numCourseThemes]string{"ground", "underground", "castle", "airship", "water", "ghost house"}

// AutoScroll is the automatic scrolling speed of a level
type AutoScroll uint8

// Auto scroll speeds
const (
	AutoScrollNone AutoScroll = iota
	AutoScrollSlow
	AutoScrollMedium
	AutoScrollFast
	numAutoScrolls
)

var autoScrollNames = [numAutoScrolls]string{"none", "slow", "medium", "fast"}

// fromCode converts a stored numeric code into an enumerated value. Codes at
// or beyond n resolve to the zero value, which is the default variant of
// every enumeration in this package.
func fromCode[T ~uint8](code uint8, n T) T {
	if code >= uint8(n) {
		return 0
	}
	return T(code)
}

// GameModeFromCode returns the game mode for c, or GameModeSMB1 if c is out
// of range
func GameModeFromCode(c uint8) GameMode {
	return fromCode(c, numGameModes)
}

// CourseThemeFromCode returns the course theme for c, or CourseThemeGround
// if c is out of range
func CourseThemeFromCode(c uint8) CourseTheme {
	return fromCode(c, numCourseThemes)
}

// AutoScrollFromCode returns the auto scroll speed for c, or AutoScrollNone
// if c is out of range
func AutoScrollFromCode(c uint8) AutoScroll {
	return fromCode(c, numAutoScrolls)
}

// ParseGameMode converts the two character code stored in course data
func ParseGameMode(s string) (GameMode, error) {
	for i, c := range gameModeCodes {
		if c == s {
			return GameMode(i), nil
		}
	}
	return GameModeSMB1, fmt.Errorf("level: unknown game mode %q", s)
}

func (g GameMode) String() string {
	if g >= numGameModes {
		return fmt.Sprintf("GameMode(%d)", uint8(g))
	}
	return gameModeCodes[g]
}

func (t CourseTheme) String() string {
	if t >= numCourseThemes {
		return fmt.Sprintf("CourseTheme(%d)", uint8(t))
	}
	return courseThemeNames[t]
}

func (a AutoScroll) String() string {
	if a >= numAutoScrolls {
		return fmt.Sprintf("AutoScroll(%d)", uint8(a))
	}
	return autoScrollNames[a]
}
