package gamification

import "time"

type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Points      int        `json:"points"`
	Unlocked    bool       `json:"unlocked"`
	Progress    *int       `json:"progress,omitempty"`
	MaxProgress *int       `json:"maxProgress,omitempty"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

func (a Achievement) hasMaxProgress() bool {
	return a.MaxProgress != nil && *a.MaxProgress > 0
}

func intPtr(v int) *int { return &v }

// DefaultAchievements is the catalog every user starts with.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			ID:          "profile_complete",
			Title:       "Profile Perfectionist",
			Description: "Complete your profile with all details",
			Icon:        "award",
			Points:      50,
			Progress:    intPtr(0),
			MaxProgress: intPtr(5),
		},
		{
			ID:          "first_submission",
			Title:       "First Steps",
			Description: "Submit your first contest entry",
			Icon:        "zap",
			Points:      30,
		},
		{
			ID:          "contest_winner",
			Title:       "Winner's Circle",
			Description: "Win your first contest",
			Icon:        "trophy",
			Points:      100,
		},
		{
			ID:          "submission_streak",
			Title:       "Consistency Champion",
			Description: "Submit entries for 5 days in a row",
			Icon:        "zap",
			Points:      75,
			Progress:    intPtr(0),
			MaxProgress: intPtr(5),
		},
	}
}

type NotificationKind string

const (
	NotifyPoints      NotificationKind = "points"
	NotifyLevelUp     NotificationKind = "level_up"
	NotifyAchievement NotificationKind = "achievement"
)

type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	At          time.Time        `json:"at"`
}

// Celebration is the level-up banner. It is visible until ExpiresAt or
// until dismissed, whichever comes first.
type Celebration struct {
	Level     Level     `json:"level"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type State struct {
	Points        int            `json:"points"`
	Level         Level          `json:"level"`
	Achievements  []Achievement  `json:"achievements"`
	Notifications []Notification `json:"notifications"`
	LevelUp       *Celebration   `json:"levelUp,omitempty"`
}

func (s State) Achievement(id string) (Achievement, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Achievements[i], true
	}
	return Achievement{}, false
}

// Celebrating reports whether the level-up banner should show at now.
func (s State) Celebrating(now time.Time) bool {
	return s.LevelUp != nil && now.Before(s.LevelUp.ExpiresAt)
}

func (s State) indexOf(id string) int {
	for i := range s.Achievements {
		if s.Achievements[i].ID == id {
			return i
		}
	}
	return -1
}

// clone deep-copies everything the reducer mutates.
func (s State) clone() State {
	cp := s
	cp.Achievements = make([]Achievement, len(s.Achievements))
	for i, a := range s.Achievements {
		if a.Progress != nil {
			a.Progress = intPtr(*a.Progress)
		}
		if a.MaxProgress != nil {
			a.MaxProgress = intPtr(*a.MaxProgress)
		}
		if a.UnlockedAt != nil {
			t := *a.UnlockedAt
			a.UnlockedAt = &t
		}
		cp.Achievements[i] = a
	}
	cp.Notifications = append([]Notification(nil), s.Notifications...)
	if s.LevelUp != nil {
		c := *s.LevelUp
		cp.LevelUp = &c
	}
	return cp
}
