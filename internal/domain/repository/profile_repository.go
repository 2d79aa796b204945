package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skillarena/internal/common"
	"skillarena/internal/domain/model"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// Upsert writes the editable profile fields. xp and level are only
	// written on insert; afterwards they move through UpdateXPLevel.
	Upsert(ctx context.Context, tx *sql.Tx, p *model.Profile) error
	ReplaceAchievements(ctx context.Context, tx *sql.Tx, profileID string, items []model.ProfileAchievement) error
	UpdateXPLevel(ctx context.Context, userID string, xp, level int) error
	UpdateStreak(ctx context.Context, userID string, streak int, lastActiveOn time.Time) error
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

func (r *pgProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT id, user_id, bio, title, location, skills, portfolio, endorsements,
	                 xp, level, streak, last_active_on, created_at, updated_at
	          FROM profiles WHERE user_id = $1`

	p := &model.Profile{}
	var title, location sql.NullString
	var skills, portfolio, endorsements []byte
	var lastActive sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Bio, &title, &location, &skills, &portfolio, &endorsements,
		&p.XP, &p.Level, &p.Streak, &lastActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProfileRepository.FindByUserID: %w", err)
	}
	if title.Valid {
		p.Title = &title.String
	}
	if location.Valid {
		p.Location = &location.String
	}
	if lastActive.Valid {
		p.LastActiveOn = &lastActive.Time
	}
	if err := unmarshalList(skills, &p.Skills); err != nil {
		return nil, fmt.Errorf("pgProfileRepository.FindByUserID: skills: %w", err)
	}
	if err := unmarshalList(portfolio, &p.Portfolio); err != nil {
		return nil, fmt.Errorf("pgProfileRepository.FindByUserID: portfolio: %w", err)
	}
	if err := unmarshalList(endorsements, &p.Endorsements); err != nil {
		return nil, fmt.Errorf("pgProfileRepository.FindByUserID: endorsements: %w", err)
	}

	achievements, err := r.listAchievements(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Achievements = achievements
	return p, nil
}

func (r *pgProfileRepository) listAchievements(ctx context.Context, profileID string) ([]model.ProfileAchievement, error) {
	query := `SELECT id, profile_id, title, description, icon_url, achieved_at
	          FROM profile_achievements WHERE profile_id = $1
	          ORDER BY achieved_at DESC`
	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("pgProfileRepository.listAchievements: %w", err)
	}
	defer rows.Close()

	items := []model.ProfileAchievement{}
	for rows.Next() {
		var a model.ProfileAchievement
		var icon sql.NullString
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Title, &a.Description, &icon, &a.AchievedAt); err != nil {
			return nil, fmt.Errorf("pgProfileRepository.listAchievements scan: %w", err)
		}
		if icon.Valid {
			a.IconURL = &icon.String
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProfileRepository.listAchievements rows: %w", err)
	}
	return items, nil
}

func (r *pgProfileRepository) Upsert(ctx context.Context, tx *sql.Tx, p *model.Profile) error {
	skills, err := marshalList(p.Skills)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Upsert: skills: %w", err)
	}
	portfolio, err := marshalList(p.Portfolio)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Upsert: portfolio: %w", err)
	}
	endorsements, err := marshalList(p.Endorsements)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Upsert: endorsements: %w", err)
	}

	query := `INSERT INTO profiles (id, user_id, bio, title, location, skills, portfolio, endorsements, xp, level, streak)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          ON CONFLICT (user_id) DO UPDATE SET
	              bio = EXCLUDED.bio,
	              title = EXCLUDED.title,
	              location = EXCLUDED.location,
	              skills = EXCLUDED.skills,
	              portfolio = EXCLUDED.portfolio,
	              endorsements = EXCLUDED.endorsements,
	              streak = EXCLUDED.streak,
	              updated_at = CURRENT_TIMESTAMP
	          RETURNING id, xp, level, created_at, updated_at`
	err = pick(r.db, tx).QueryRowContext(ctx, query,
		p.ID, p.UserID, p.Bio, p.Title, p.Location, skills, portfolio, endorsements, p.XP, p.Level, p.Streak,
	).Scan(&p.ID, &p.XP, &p.Level, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgProfileRepository) ReplaceAchievements(ctx context.Context, tx *sql.Tx, profileID string, items []model.ProfileAchievement) error {
	q := pick(r.db, tx)
	if _, err := q.ExecContext(ctx, `DELETE FROM profile_achievements WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("pgProfileRepository.ReplaceAchievements delete: %w", err)
	}

	insert := `INSERT INTO profile_achievements (id, profile_id, title, description, icon_url, achieved_at)
	           VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range items {
		a := &items[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.ProfileID = profileID
		if a.AchievedAt.IsZero() {
			a.AchievedAt = time.Now().UTC()
		}
		if _, err := q.ExecContext(ctx, insert, a.ID, profileID, a.Title, a.Description, a.IconURL, a.AchievedAt); err != nil {
			return fmt.Errorf("pgProfileRepository.ReplaceAchievements insert: %w", err)
		}
	}
	return nil
}

func (r *pgProfileRepository) UpdateXPLevel(ctx context.Context, userID string, xp, level int) error {
	query := `INSERT INTO profiles (id, user_id, xp, level)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id) DO UPDATE SET
	              xp = EXCLUDED.xp,
	              level = EXCLUDED.level,
	              updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, xp, level); err != nil {
		return fmt.Errorf("pgProfileRepository.UpdateXPLevel: %w", err)
	}
	return nil
}

func (r *pgProfileRepository) UpdateStreak(ctx context.Context, userID string, streak int, lastActiveOn time.Time) error {
	query := `INSERT INTO profiles (id, user_id, streak, last_active_on)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id) DO UPDATE SET
	              streak = EXCLUDED.streak,
	              last_active_on = EXCLUDED.last_active_on,
	              updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, streak, lastActiveOn); err != nil {
		return fmt.Errorf("pgProfileRepository.UpdateStreak: %w", err)
	}
	return nil
}

// marshalList never writes JSON null for an empty list.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func unmarshalList[T any](raw []byte, dst *[]T) error {
	*dst = []T{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}
