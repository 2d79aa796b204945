package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/domain/gamification"
	"skillarena/internal/domain/repository"
)

// GamificationService owns each user's engine state. Points live in the
// store; profile xp and level are written through after every change.
type GamificationService struct {
	store       repository.GamificationStore
	profileRepo repository.ProfileRepository
	engine      *gamification.Engine
	lockTTL     time.Duration
	logger      *slog.Logger
}

func NewGamificationService(
	store repository.GamificationStore,
	profileRepo repository.ProfileRepository,
	engine *gamification.Engine,
	lockTTL time.Duration,
	logger *slog.Logger,
) *GamificationService {
	if lockTTL <= 0 {
		lockTTL = 5 * time.Second
	}
	return &GamificationService{
		store:       store,
		profileRepo: profileRepo,
		engine:      engine,
		lockTTL:     lockTTL,
		logger:      logger,
	}
}

func (s *GamificationService) Get(ctx context.Context, userID string) (gamification.Snapshot, error) {
	st, err := s.load(ctx, userID)
	if err != nil {
		return gamification.Snapshot{}, err
	}
	return s.engine.Snapshot(st), nil
}

// Apply runs one action under the per-user lock. A concurrent writer makes
// it fail fast with common.ErrStateBusy.
func (s *GamificationService) Apply(ctx context.Context, userID string, action gamification.Action) (gamification.Snapshot, error) {
	release, err := s.store.Lock(ctx, userID, s.lockTTL)
	if err != nil {
		return gamification.Snapshot{}, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release gamification lock", "user_id", userID, "error", err)
		}
	}()

	current, err := s.load(ctx, userID)
	if err != nil {
		return gamification.Snapshot{}, err
	}

	next, err := s.engine.Apply(current, action)
	if err != nil {
		if errors.Is(err, gamification.ErrUnknownAchievement) {
			return gamification.Snapshot{}, fmt.Errorf("%v: %w", err, common.ErrNotFound)
		}
		return gamification.Snapshot{}, fmt.Errorf("%v: %w", err, common.ErrBadRequest)
	}

	if err := s.store.Save(ctx, userID, next); err != nil {
		return gamification.Snapshot{}, err
	}

	if next.Points != current.Points || next.Level.Level != current.Level.Level {
		if err := s.profileRepo.UpdateXPLevel(ctx, userID, next.Points, next.Level.Level); err != nil {
			s.logger.Error("failed to project xp onto profile", "user_id", userID, "error", err)
		}
	}
	if next.Level.Level > current.Level.Level {
		s.logger.Info("user levelled up", "user_id", userID, "level", next.Level.Level, "title", next.Level.Title)
	}
	return s.engine.Snapshot(next), nil
}

// load returns the stored state, or seeds a fresh one from profile.xp.
func (s *GamificationService) load(ctx context.Context, userID string) (gamification.State, error) {
	stored, err := s.store.Load(ctx, userID)
	if err == nil {
		return s.engine.Restore(*stored), nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return gamification.State{}, err
	}

	points := 0
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		points = profile.XP
	case !errors.Is(err, common.ErrNotFound):
		return gamification.State{}, fmt.Errorf("failed to seed gamification state: %v: %w", err, common.ErrUpstream)
	}
	return s.engine.NewState(points), nil
}
