// Package gamification holds the points, level and achievement state
// container. Every change goes through Engine.Apply, which takes a state and
// an action and returns the next state without touching the input.
package gamification

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrUnknownAction      = errors.New("unknown gamification action")
)

// MaxNotifications bounds the pending notification queue; oldest drop first.
const MaxNotifications = 20

const defaultPointsReason = "Keep up the good work!"

// Action is one of the types below.
type Action interface {
	isAction()
}

type AddPoints struct {
	Amount int
	Reason string
}

type UnlockAchievement struct {
	ID string
}

type UpdateAchievementProgress struct {
	ID       string
	Progress int
}

type DismissLevelUp struct{}

type AcknowledgeNotifications struct{}

func (AddPoints) isAction()                 {}
func (UnlockAchievement) isAction()         {}
func (UpdateAchievementProgress) isAction() {}
func (DismissLevelUp) isAction()            {}
func (AcknowledgeNotifications) isAction()  {}

type EngineConfig struct {
	Levels         LevelTable
	Catalog        []Achievement
	CelebrationTTL time.Duration
	Now            func() time.Time
}

type Engine struct {
	levels         LevelTable
	catalog        []Achievement
	celebrationTTL time.Duration
	now            func() time.Time
}

func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		levels:         cfg.Levels,
		catalog:        cfg.Catalog,
		celebrationTTL: cfg.CelebrationTTL,
		now:            cfg.Now,
	}
	if len(e.levels.levels) == 0 {
		e.levels = DefaultLevelTable()
	}
	if e.catalog == nil {
		e.catalog = DefaultAchievements()
	}
	if e.celebrationTTL <= 0 {
		e.celebrationTTL = 3 * time.Second
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

func (e *Engine) Levels() LevelTable {
	return e.levels
}

func (e *Engine) Now() time.Time {
	return e.now()
}

// NewState starts a user at the given points with the full catalog locked.
func (e *Engine) NewState(points int) State {
	if points < 0 {
		points = 0
	}
	s := State{
		Points:       points,
		Level:        e.levels.For(points),
		Achievements: make([]Achievement, 0, len(e.catalog)),
	}
	s.Achievements = append(s.Achievements, e.catalog...)
	return s.clone()
}

// Restore brings a stored state in line with the current level table and
// catalog: the level is recomputed silently and new catalog entries are
// appended locked. Stored unlocks and progress are kept.
func (e *Engine) Restore(s State) State {
	next := s.clone()
	if next.Points < 0 {
		next.Points = 0
	}
	next.Level = e.levels.For(next.Points)
	for _, a := range e.catalog {
		if next.indexOf(a.ID) < 0 {
			next.Achievements = append(next.Achievements, a)
		}
	}
	next.pruneCelebration(e.now())
	return next.clone()
}

func (e *Engine) Apply(s State, action Action) (State, error) {
	next := s.clone()
	next.pruneCelebration(e.now())

	var err error
	switch a := action.(type) {
	case AddPoints:
		e.addPoints(&next, a.Amount, a.Reason)
	case UnlockAchievement:
		err = e.unlock(&next, a.ID)
	case UpdateAchievementProgress:
		err = e.updateProgress(&next, a.ID, a.Progress)
	case DismissLevelUp:
		next.LevelUp = nil
	case AcknowledgeNotifications:
		next.Notifications = nil
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
	if err != nil {
		return s, err
	}
	return next, nil
}

func (e *Engine) addPoints(s *State, amount int, reason string) {
	previous := s.Level
	s.Points += amount
	if s.Points < 0 {
		s.Points = 0
	}
	if amount > 0 {
		if reason == "" {
			reason = defaultPointsReason
		}
		e.notify(s, NotifyPoints, fmt.Sprintf("+%d points earned!", amount), reason)
	}

	current := e.levels.For(s.Points)
	s.Level = current
	if current.Level > previous.Level {
		s.LevelUp = &Celebration{Level: current, ExpiresAt: e.now().Add(e.celebrationTTL)}
		e.notify(s, NotifyLevelUp, "Level Up!", fmt.Sprintf("Congratulations! You've reached %s level!", current.Title))
	}
}

// unlock is a no-op for an already unlocked achievement, so its points are
// awarded at most once.
func (e *Engine) unlock(s *State, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
	}
	if s.Achievements[i].Unlocked {
		return nil
	}
	now := e.now()
	s.Achievements[i].Unlocked = true
	s.Achievements[i].UnlockedAt = &now
	a := s.Achievements[i]

	e.addPoints(s, a.Points, "Achievement unlocked: "+a.Title)
	e.notify(s, NotifyAchievement, "Achievement Unlocked!", a.Title)
	return nil
}

// updateProgress clamps to [0, maxProgress] and unlocks on reaching the max.
// Progress is frozen once unlocked.
func (e *Engine) updateProgress(s *State, id string, progress int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAchievement, id)
	}
	a := s.Achievements[i]
	if a.Unlocked {
		return nil
	}
	if progress < 0 {
		progress = 0
	}
	if a.hasMaxProgress() && progress > *a.MaxProgress {
		progress = *a.MaxProgress
	}
	s.Achievements[i].Progress = intPtr(progress)

	if a.hasMaxProgress() && progress >= *a.MaxProgress {
		return e.unlock(s, id)
	}
	return nil
}

func (e *Engine) notify(s *State, kind NotificationKind, title, description string) {
	s.Notifications = append(s.Notifications, Notification{
		Kind:        kind,
		Title:       title,
		Description: description,
		At:          e.now(),
	})
	if over := len(s.Notifications) - MaxNotifications; over > 0 {
		s.Notifications = append([]Notification(nil), s.Notifications[over:]...)
	}
}

func (s *State) pruneCelebration(now time.Time) {
	if s.LevelUp != nil && !now.Before(s.LevelUp.ExpiresAt) {
		s.LevelUp = nil
	}
}

// Snapshot is the read model handed to clients.
type Snapshot struct {
	State
	ShowLevelUpAnimation bool   `json:"showLevelUpAnimation"`
	NextLevel            *Level `json:"nextLevel,omitempty"`
	PointsToNextLevel    int    `json:"pointsToNextLevel"`
	UnlockedCount        int    `json:"unlockedCount"`
}

func (e *Engine) Snapshot(s State) Snapshot {
	snap := Snapshot{State: s.clone(), ShowLevelUpAnimation: s.Celebrating(e.now())}
	if !snap.ShowLevelUpAnimation {
		snap.LevelUp = nil
	}
	if next, ok := e.levels.Next(s.Level); ok {
		snap.NextLevel = &next
		snap.PointsToNextLevel = next.PointsRequired - s.Points
	}
	for _, a := range s.Achievements {
		if a.Unlocked {
			snap.UnlockedCount++
		}
	}
	return snap
}
