package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/domain/gamification"
	"skillarena/internal/domain/model"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*model.User
	findErr   error
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, _ *sql.Tx, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return common.ErrConflict
		}
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateIdentity(_ context.Context, _ *sql.Tx, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	existing, ok := r.byID[u.ID]
	if !ok {
		return common.ErrNotFound
	}
	existing.Name = u.Name
	existing.Avatar = u.Avatar
	return nil
}

type xpWrite struct {
	UserID    string
	XP, Level int
}

type streakWrite struct {
	UserID string
	Streak int
	Day    time.Time
}

type fakeProfileRepo struct {
	mu           sync.Mutex
	byUser       map[string]*model.Profile
	findErr      error
	upsertErr    error
	xpWrites     []xpWrite
	streakWrites []streakWrite
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: map[string]*model.Profile{}}
}

func (r *fakeProfileRepo) FindByUserID(_ context.Context, userID string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, _ *sql.Tx, p *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if existing, ok := r.byUser[p.UserID]; ok {
		p.ID = existing.ID
		p.XP = existing.XP
		p.Level = existing.Level
		p.Achievements = existing.Achievements
	}
	cp := *p
	r.byUser[p.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) ReplaceAchievements(_ context.Context, _ *sql.Tx, profileID string, items []model.ProfileAchievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byUser {
		if p.ID == profileID {
			p.Achievements = append([]model.ProfileAchievement{}, items...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeProfileRepo) UpdateXPLevel(_ context.Context, userID string, xp, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.xpWrites = append(r.xpWrites, xpWrite{UserID: userID, XP: xp, Level: level})
	if p, ok := r.byUser[userID]; ok {
		p.XP, p.Level = xp, level
	}
	return nil
}

func (r *fakeProfileRepo) UpdateStreak(_ context.Context, userID string, streak int, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streakWrites = append(r.streakWrites, streakWrite{UserID: userID, Streak: streak, Day: day})
	if p, ok := r.byUser[userID]; ok {
		p.Streak = streak
		d := day
		p.LastActiveOn = &d
	}
	return nil
}

// fakeTx runs fn without a real transaction.
type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	f.calls++
	return fn(ctx, nil)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ActivityEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeStore struct {
	mu      sync.Mutex
	states  map[string]gamification.State
	locked  map[string]bool
	loadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: map[string]gamification.State{}, locked: map[string]bool{}}
}

func (s *fakeStore) Load(_ context.Context, userID string) (*gamification.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	st, ok := s.states[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &st, nil
}

func (s *fakeStore) Save(_ context.Context, userID string, st gamification.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = st
	return nil
}

func (s *fakeStore) Lock(_ context.Context, userID string, _ time.Duration) (func(context.Context) error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked[userID] {
		return nil, common.ErrStateBusy
	}
	s.locked[userID] = true
	return func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.locked, userID)
		return nil
	}, nil
}

type fakePresigner struct {
	gotKey    string
	gotExpiry time.Duration
	err       error
}

func (p *fakePresigner) PresignedPutURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.gotKey, p.gotExpiry = key, expiry
	return "https://media.local/" + key + "?X-Amz-Signature=abc", nil
}
