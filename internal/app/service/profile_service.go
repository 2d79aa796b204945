package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/domain/model"
	"skillarena/internal/domain/repository"

	"github.com/google/uuid"
)

// TxRunner runs fn inside a single database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type ProfileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tx          TxRunner
	events      ActivityPublisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewProfileService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tx TxRunner,
	events ActivityPublisher,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tx:          tx,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// UpdateMeRequest is a partial update: nil fields are left untouched.
// Client supplied xp and level are not part of it; the gamification
// engine owns those.
type UpdateMeRequest struct {
	Name         *string                     `json:"name"`
	Avatar       *string                     `json:"avatar"`
	Bio          *string                     `json:"bio"`
	Title        *string                     `json:"title"`
	Location     *string                     `json:"location"`
	Skills       *[]model.Skill              `json:"skills"`
	Portfolio    *[]model.PortfolioItem      `json:"portfolio"`
	Endorsements *[]model.Endorsement        `json:"endorsements"`
	Streak       *int                        `json:"streak"`
	Achievements *[]model.ProfileAchievement `json:"achievements"`
}

func (r UpdateMeRequest) touchesUser() bool {
	return r.Name != nil || r.Avatar != nil
}

func (r UpdateMeRequest) touchesProfile() bool {
	return r.Bio != nil || r.Title != nil || r.Location != nil || r.Skills != nil ||
		r.Portfolio != nil || r.Endorsements != nil || r.Streak != nil || r.Achievements != nil
}

// ProfilePatchRequest is the nested profile editor payload.
type ProfilePatchRequest struct {
	Name    *string `json:"name"`
	Avatar  *string `json:"avatar"`
	Profile *struct {
		Title        *string              `json:"title"`
		Location     *string              `json:"location"`
		Bio          *string              `json:"bio"`
		Skills       *[]model.Skill       `json:"skills"`
		Endorsements *[]model.Endorsement `json:"endorsements"`
	} `json:"profile"`
}

// ToUpdate maps the nested payload onto UpdateMeRequest. Empty strings
// mean "not provided" in this payload.
func (r ProfilePatchRequest) ToUpdate() UpdateMeRequest {
	u := UpdateMeRequest{Name: nonEmpty(r.Name), Avatar: nonEmpty(r.Avatar)}
	if r.Profile != nil {
		u.Title = nonEmpty(r.Profile.Title)
		u.Location = nonEmpty(r.Profile.Location)
		u.Bio = nonEmpty(r.Profile.Bio)
		u.Skills = r.Profile.Skills
		u.Endorsements = r.Profile.Endorsements
	}
	return u
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (s *ProfileService) GetMe(ctx context.Context, userID string) (*model.Me, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %v: %w", err, common.ErrUpstream)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %v: %w", err, common.ErrUpstream)
	}
	return model.NewMe(user, profile), nil
}

// UpdateMe applies a partial update to the user and profile in one
// transaction and returns the refreshed composite record.
func (s *ProfileService) UpdateMe(ctx context.Context, userID string, req UpdateMeRequest) (*model.Me, error) {
	if err := validateProfileUpdate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %v: %w", err, common.ErrUpstream)
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		profile = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load profile: %v: %w", err, common.ErrUpstream)
	}

	writeProfile := req.touchesProfile()
	if profile == nil && writeProfile {
		profile = model.NewProfile(uuid.NewString(), userID)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if writeProfile {
		applyProfileFields(profile, req)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if req.touchesUser() {
			if err := s.userRepo.UpdateIdentity(ctx, tx, user); err != nil {
				return err
			}
		}
		if !writeProfile {
			return nil
		}
		if err := s.profileRepo.Upsert(ctx, tx, profile); err != nil {
			return err
		}
		if req.Achievements != nil {
			return s.profileRepo.ReplaceAchievements(ctx, tx, profile.ID, *req.Achievements)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update profile: %v: %w", err, common.ErrUpstream)
	}

	if writeProfile {
		s.publish(ctx, ActivityEvent{Type: ActivityProfileUpdated, UserID: userID, At: s.now().UTC()})
	}
	return s.GetMe(ctx, userID)
}

func applyProfileFields(p *model.Profile, req UpdateMeRequest) {
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.Title != nil {
		p.Title = req.Title
	}
	if req.Location != nil {
		p.Location = req.Location
	}
	if req.Skills != nil {
		p.Skills = *req.Skills
	}
	if req.Portfolio != nil {
		p.Portfolio = *req.Portfolio
	}
	if req.Endorsements != nil {
		p.Endorsements = *req.Endorsements
	}
	if req.Streak != nil {
		p.Streak = *req.Streak
	}
}

func (s *ProfileService) publish(ctx context.Context, ev ActivityEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish activity event", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}
