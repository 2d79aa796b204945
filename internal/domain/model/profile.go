package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Skill accepts either a bare string ("Figma") or {"id","name","level"}.
type Skill struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

func (s *Skill) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Skill{Name: name}
		return nil
	}
	type plain Skill
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Skill(p)
	return nil
}

type PortfolioItem struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *string `json:"image,omitempty"`
	Link        *string `json:"link,omitempty"`
}

type Endorsement struct {
	ID      string  `json:"id,omitempty"`
	From    string  `json:"from"`
	Skill   string  `json:"skill"`
	Message *string `json:"message,omitempty"`
	Name    *string `json:"name,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
}

// ProfileAchievement is a persisted milestone shown on the profile page.
type ProfileAchievement struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IconURL     *string   `json:"iconUrl,omitempty"`
	AchievedAt  time.Time `json:"achievedAt"`
}

type Profile struct {
	ID           string               `json:"id"`
	UserID       string               `json:"-"`
	Bio          string               `json:"bio"`
	Title        *string              `json:"title,omitempty"`
	Location     *string              `json:"location,omitempty"`
	Skills       []Skill              `json:"skills"`
	Portfolio    []PortfolioItem      `json:"portfolio"`
	Endorsements []Endorsement        `json:"endorsements"`
	XP           int                  `json:"xp"`
	Level        int                  `json:"level"`
	Streak       int                  `json:"streak"`
	LastActiveOn *time.Time           `json:"lastActiveOn,omitempty"`
	Achievements []ProfileAchievement `json:"achievement"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// NewProfile returns the lazily created defaults for a user.
func NewProfile(id, userID string) *Profile {
	return &Profile{
		ID:           id,
		UserID:       userID,
		Skills:       []Skill{},
		Portfolio:    []PortfolioItem{},
		Endorsements: []Endorsement{},
		Achievements: []ProfileAchievement{},
		Level:        1,
	}
}

// ProfileFacets is the number of facets counted by CompletedFacets.
const ProfileFacets = 5

// CompletedFacets counts filled facets: bio, skills, portfolio, title, location.
func (p *Profile) CompletedFacets() int {
	n := 0
	if strings.TrimSpace(p.Bio) != "" {
		n++
	}
	if len(p.Skills) > 0 {
		n++
	}
	if len(p.Portfolio) > 0 {
		n++
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) != "" {
		n++
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) != "" {
		n++
	}
	return n
}

// Me is the composite record returned by /me.
type Me struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Role    Role     `json:"role"`
	Avatar  *string  `json:"avatar,omitempty"`
	Profile *Profile `json:"profile"`
}

func NewMe(u *User, p *Profile) *Me {
	return &Me{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Avatar: u.Avatar, Profile: p}
}
