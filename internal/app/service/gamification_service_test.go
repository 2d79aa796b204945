package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/domain/gamification"
	"skillarena/internal/domain/model"
	"skillarena/internal/platform/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGamificationFixture(t *testing.T) (*GamificationService, *fakeStore, *fakeProfileRepo) {
	t.Helper()
	store := newFakeStore()
	profiles := newFakeProfileRepo()
	engine := gamification.NewEngine(gamification.EngineConfig{
		Now: func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) },
	})
	return NewGamificationService(store, profiles, engine, time.Second, logging.Discard()), store, profiles
}

func TestGamificationGet_SeedsFromProfileXP(t *testing.T) {
	svc, store, profiles := newGamificationFixture(t)
	p := model.NewProfile("p-1", "u-1")
	p.XP = 320
	profiles.byUser["u-1"] = p

	snap, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 320, snap.Points)
	assert.Equal(t, "Specialist", snap.Level.Title)
	assert.False(t, snap.ShowLevelUpAnimation)
	assert.Empty(t, store.states, "reads do not persist a seed")
}

func TestGamificationGet_NoProfileStartsAtZero(t *testing.T) {
	svc, _, _ := newGamificationFixture(t)
	snap, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Points)
	assert.Equal(t, 1, snap.Level.Level)
	assert.Len(t, snap.Achievements, len(gamification.DefaultAchievements()))
}

func TestGamificationApply_PersistsAndProjects(t *testing.T) {
	svc, store, profiles := newGamificationFixture(t)

	snap, err := svc.Apply(context.Background(), "u-1", gamification.AddPoints{Amount: 120, Reason: "Test"})
	require.NoError(t, err)
	assert.Equal(t, 120, snap.Points)
	assert.True(t, snap.ShowLevelUpAnimation)

	assert.Equal(t, 120, store.states["u-1"].Points)
	require.Len(t, profiles.xpWrites, 1)
	assert.Equal(t, xpWrite{UserID: "u-1", XP: 120, Level: 2}, profiles.xpWrites[0])
	assert.Empty(t, store.locked, "lock released")
}

func TestGamificationApply_UnlockTwiceAwardsOnce(t *testing.T) {
	svc, store, profiles := newGamificationFixture(t)

	_, err := svc.Apply(context.Background(), "u-1", gamification.UnlockAchievement{ID: "first_submission"})
	require.NoError(t, err)
	snap, err := svc.Apply(context.Background(), "u-1", gamification.UnlockAchievement{ID: "first_submission"})
	require.NoError(t, err)

	assert.Equal(t, 30, snap.Points)
	assert.Equal(t, 30, store.states["u-1"].Points)
	assert.Len(t, profiles.xpWrites, 1, "no projection when nothing changed")
}

func TestGamificationApply_Busy(t *testing.T) {
	svc, store, _ := newGamificationFixture(t)
	store.locked["u-1"] = true

	_, err := svc.Apply(context.Background(), "u-1", gamification.AddPoints{Amount: 5})
	assert.True(t, errors.Is(err, common.ErrStateBusy))
	assert.Empty(t, store.states)
}

func TestGamificationApply_UnknownAchievementIsNotFound(t *testing.T) {
	svc, store, _ := newGamificationFixture(t)

	_, err := svc.Apply(context.Background(), "u-1", gamification.UnlockAchievement{ID: "nope"})
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Empty(t, store.states)
	assert.Empty(t, store.locked)
}

func TestGamificationApply_StoreFailure(t *testing.T) {
	svc, store, _ := newGamificationFixture(t)
	store.loadErr = common.Errorf("redis: %w", common.ErrUpstream)

	_, err := svc.Apply(context.Background(), "u-1", gamification.AddPoints{Amount: 5})
	assert.True(t, errors.Is(err, common.ErrUpstream))
}
