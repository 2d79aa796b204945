package api

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"skillarena/internal/app/service"
	"skillarena/internal/common"
	"skillarena/internal/domain/gamification"
	"skillarena/internal/domain/model"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func (m *memUsers) Create(_ context.Context, _ *sql.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return common.ErrConflict
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) UpdateIdentity(_ context.Context, _ *sql.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[u.ID]
	if !ok {
		return common.ErrNotFound
	}
	existing.Name, existing.Avatar = u.Name, u.Avatar
	m.byID[u.ID] = existing
	return nil
}

type memProfiles struct {
	mu     sync.Mutex
	byUser map[string]model.Profile
}

func (m *memProfiles) FindByUserID(_ context.Context, userID string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byUser[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) Upsert(_ context.Context, _ *sql.Tx, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byUser[p.UserID]; ok {
		p.ID, p.XP, p.Level = existing.ID, existing.XP, existing.Level
	} else if p.ID == "" {
		p.ID = "profile-" + p.UserID
	}
	m.byUser[p.UserID] = *p
	return nil
}

func (m *memProfiles) ReplaceAchievements(_ context.Context, _ *sql.Tx, profileID string, items []model.ProfileAchievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, p := range m.byUser {
		if p.ID == profileID {
			p.Achievements = items
			m.byUser[uid] = p
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *memProfiles) UpdateXPLevel(_ context.Context, userID string, xp, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.byUser[userID]
	p.UserID, p.XP, p.Level = userID, xp, level
	m.byUser[userID] = p
	return nil
}

func (m *memProfiles) UpdateStreak(_ context.Context, userID string, streak int, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.byUser[userID]
	p.UserID, p.Streak, p.LastActiveOn = userID, streak, &day
	m.byUser[userID] = p
	return nil
}

type memStates struct {
	mu     sync.Mutex
	states map[string]gamification.State
}

func (m *memStates) Load(_ context.Context, userID string) (*gamification.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &st, nil
}

func (m *memStates) Save(_ context.Context, userID string, st gamification.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = st
	return nil
}

func (m *memStates) Lock(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []service.ActivityEvent
}

func (r *recordedEvents) Publish(_ context.Context, ev service.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type stubPresigner struct{}

func (stubPresigner) PresignedPutURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://media.local/" + key, nil
}
