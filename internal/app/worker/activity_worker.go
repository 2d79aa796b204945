package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skillarena/internal/app/service"
	"skillarena/internal/common"
	"skillarena/internal/domain/gamification"
	"skillarena/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	ProfileUpdatePoints = 25
	profileUpdateReason = "Profile updated"
	StreakBonusPoints   = 15
	streakBonusReason   = "Daily login streak bonus"

	popTimeout    = 5 * time.Second
	busyRetries   = 3
	busyBackoff   = 150 * time.Millisecond
	errorCooldown = 5 * time.Second
)

type GamificationApplier interface {
	Apply(ctx context.Context, userID string, action gamification.Action) (gamification.Snapshot, error)
}

type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	UpdateStreak(ctx context.Context, userID string, streak int, lastActiveOn time.Time) error
}

// ActivityWorker turns queued user activity into points, achievement
// progress and streak bookkeeping.
type ActivityWorker struct {
	rdb          *redis.Client
	queue        string
	gamification GamificationApplier
	profiles     ProfileStore
	logger       *slog.Logger
}

func NewActivityWorker(rdb *redis.Client, queue string, g GamificationApplier, profiles ProfileStore, logger *slog.Logger) *ActivityWorker {
	return &ActivityWorker{
		rdb:          rdb,
		queue:        queue,
		gamification: g,
		profiles:     profiles,
		logger:       logger,
	}
}

// Start blocks until ctx is cancelled.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.logger.Info("activity worker started", "queue", w.queue)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("activity worker stopping")
			return
		default:
		}

		res, err := w.rdb.BRPop(ctx, popTimeout, w.queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error("failed to pop activity queue", "queue", w.queue, "error", err)
			sleep(ctx, errorCooldown)
			continue
		}

		// res is [queueName, value]
		if len(res) < 2 || res[1] == "" {
			w.logger.Warn("empty activity event popped", "queue", w.queue)
			continue
		}

		ev, err := service.DecodeActivityEvent(res[1])
		if err != nil {
			w.logger.Warn("dropping malformed activity event", "error", err)
			continue
		}
		if err := w.HandleEvent(ctx, ev); err != nil {
			w.logger.Error("activity event failed", "type", ev.Type, "user_id", ev.UserID, "error", err)
		}
	}
}

func (w *ActivityWorker) HandleEvent(ctx context.Context, ev service.ActivityEvent) error {
	switch ev.Type {
	case service.ActivityProfileUpdated:
		return w.handleProfileUpdated(ctx, ev)
	case service.ActivityLogin:
		return w.handleLogin(ctx, ev)
	default:
		w.logger.Warn("unknown activity event type", "type", ev.Type)
		return nil
	}
}

func (w *ActivityWorker) handleProfileUpdated(ctx context.Context, ev service.ActivityEvent) error {
	if err := w.apply(ctx, ev.UserID, gamification.AddPoints{Amount: ProfileUpdatePoints, Reason: profileUpdateReason}); err != nil {
		return err
	}

	profile, err := w.profiles.FindByUserID(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load profile: %w", err)
	}
	return w.apply(ctx, ev.UserID, gamification.UpdateAchievementProgress{
		ID:       "profile_complete",
		Progress: profile.CompletedFacets(),
	})
}

// handleLogin keeps a consecutive-day streak: same day keeps it, the next
// day extends it, any gap restarts it at 1. A growing streak earns a bonus.
func (w *ActivityWorker) handleLogin(ctx context.Context, ev service.ActivityEvent) error {
	day := dateOf(ev.At)

	streak, previous := 1, 0
	profile, err := w.profiles.FindByUserID(ctx, ev.UserID)
	switch {
	case errors.Is(err, common.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load profile: %w", err)
	default:
		previous = profile.Streak
		streak = NextStreak(profile.Streak, profile.LastActiveOn, day)
		if profile.LastActiveOn != nil && !dateOf(*profile.LastActiveOn).Before(day) {
			return nil
		}
	}

	if err := w.profiles.UpdateStreak(ctx, ev.UserID, streak, day); err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	w.logger.Debug("streak updated", "user_id", ev.UserID, "streak", streak)

	if streak <= previous {
		return nil
	}
	return w.apply(ctx, ev.UserID, gamification.AddPoints{Amount: StreakBonusPoints, Reason: streakBonusReason})
}

// NextStreak computes the streak after activity on day.
func NextStreak(current int, lastActive *time.Time, day time.Time) int {
	if lastActive == nil {
		return 1
	}
	last := dateOf(*lastActive)
	switch {
	case !last.Before(day):
		if current < 1 {
			return 1
		}
		return current
	case last.AddDate(0, 0, 1).Equal(day):
		return current + 1
	default:
		return 1
	}
}

func (w *ActivityWorker) apply(ctx context.Context, userID string, action gamification.Action) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		_, err = w.gamification.Apply(ctx, userID, action)
		if !errors.Is(err, common.ErrStateBusy) {
			return err
		}
		sleep(ctx, busyBackoff*time.Duration(attempt+1))
	}
	return err
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
