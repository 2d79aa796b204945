package gamification

import (
	"errors"
	"fmt"
)

var ErrInvalidLevelTable = errors.New("invalid level table")

type Level struct {
	Level          int    `json:"level"`
	Title          string `json:"title"`
	PointsRequired int    `json:"pointsRequired"`
	Icon           string `json:"icon"`
	Color          string `json:"color"`
}

// LevelTable maps cumulative points to a level. Thresholds and level numbers
// are strictly ascending and the first threshold is 0, so For is monotonic.
type LevelTable struct {
	levels []Level
}

func NewLevelTable(levels ...Level) (LevelTable, error) {
	if len(levels) == 0 {
		return LevelTable{}, fmt.Errorf("%w: no levels", ErrInvalidLevelTable)
	}
	if levels[0].PointsRequired != 0 {
		return LevelTable{}, fmt.Errorf("%w: first level must require 0 points", ErrInvalidLevelTable)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].PointsRequired <= levels[i-1].PointsRequired {
			return LevelTable{}, fmt.Errorf("%w: threshold of level %d is not above level %d", ErrInvalidLevelTable, levels[i].Level, levels[i-1].Level)
		}
		if levels[i].Level <= levels[i-1].Level {
			return LevelTable{}, fmt.Errorf("%w: level numbers must ascend", ErrInvalidLevelTable)
		}
	}
	cp := make([]Level, len(levels))
	copy(cp, levels)
	return LevelTable{levels: cp}, nil
}

func DefaultLevelTable() LevelTable {
	t, err := NewLevelTable(
		Level{Level: 1, Title: "Novice", PointsRequired: 0, Icon: "zap", Color: "text-blue-500"},
		Level{Level: 2, Title: "Apprentice", PointsRequired: 100, Icon: "star", Color: "text-green-500"},
		Level{Level: 3, Title: "Specialist", PointsRequired: 300, Icon: "award", Color: "text-yellow-500"},
		Level{Level: 4, Title: "Expert", PointsRequired: 700, Icon: "trophy", Color: "text-purple-500"},
		Level{Level: 5, Title: "Master", PointsRequired: 1500, Icon: "trophy", Color: "text-red-500"},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// For returns the highest level whose threshold is <= points.
func (t LevelTable) For(points int) Level {
	for i := len(t.levels) - 1; i >= 0; i-- {
		if points >= t.levels[i].PointsRequired {
			return t.levels[i]
		}
	}
	return t.levels[0]
}

// Next returns the level after current, if any.
func (t LevelTable) Next(current Level) (Level, bool) {
	for _, l := range t.levels {
		if l.Level > current.Level {
			return l, true
		}
	}
	return Level{}, false
}

func (t LevelTable) Levels() []Level {
	cp := make([]Level, len(t.levels))
	copy(cp, t.levels)
	return cp
}
