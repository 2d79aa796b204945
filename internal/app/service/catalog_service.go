package service

import (
	"context"
	"strings"

	"skillarena/internal/domain/model"

	"github.com/gosimple/slug"
)

// CatalogService serves the fixed contest and freelancer listings.
type CatalogService struct {
	contests    []model.Contest
	freelancers []model.Freelancer
}

func NewCatalogService() *CatalogService {
	contests := []model.Contest{
		{
			ID:          "1",
			Title:       "UI Design Challenge",
			Description: "Design a modern dashboard UI for a fintech app.",
			Budget:      "$500",
			Deadline:    "3 days",
			Submissions: 12,
			Category:    "Design",
			Client:      &model.ContestClient{Name: "Acme Corp", Rating: 4.9},
		},
		{
			ID:          "2",
			Title:       "Landing Page Redesign",
			Description: "Redesign the landing page for a SaaS product.",
			Budget:      "$300",
			Deadline:    "7 days",
			Submissions: 8,
			Category:    "Web Development",
			Client:      &model.ContestClient{Name: "Beta LLC", Rating: 4.7},
		},
		{
			ID:          "3",
			Title:       "Logo for Startup",
			Description: "Create a unique logo for a new tech startup.",
			Budget:      "$200",
			Deadline:    "24 hours",
			Submissions: 20,
			Category:    "Design",
			Client:      &model.ContestClient{Name: "Gamma Start", Rating: 5.0},
		},
	}
	for i := range contests {
		contests[i].Slug = slug.Make(contests[i].Title)
	}

	freelancers := []model.Freelancer{
		{
			ID:                "1",
			Name:              "Jane Doe",
			Title:             "UI/UX Designer",
			Rating:            4.9,
			CompletedProjects: 32,
			HourlyRate:        "$40",
			Skills:            []string{"UI Design", "Figma", "Prototyping"},
			Avatar:            "/placeholder-user.jpg",
		},
		{
			ID:                "2",
			Name:              "John Smith",
			Title:             "Full Stack Developer",
			Rating:            4.8,
			CompletedProjects: 27,
			HourlyRate:        "$50",
			Skills:            []string{"React", "Node.js", "TypeScript"},
			Avatar:            "/placeholder-user.jpg",
		},
		{
			ID:                "3",
			Name:              "Emily Chen",
			Title:             "Content Writer",
			Rating:            4.7,
			CompletedProjects: 19,
			HourlyRate:        "$30",
			Skills:            []string{"Writing", "SEO", "Editing"},
			Avatar:            "/placeholder-user.jpg",
		},
	}

	return &CatalogService{contests: contests, freelancers: freelancers}
}

// ListContests optionally filters by category, compared by slug so
// "web-development" and "Web Development" both match.
func (s *CatalogService) ListContests(_ context.Context, category string) []model.Contest {
	out := make([]model.Contest, 0, len(s.contests))
	want := slug.Make(category)
	for _, c := range s.contests {
		if want != "" && slug.Make(c.Category) != want {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ListFreelancers optionally filters by skill, case-insensitively.
func (s *CatalogService) ListFreelancers(_ context.Context, skill string) []model.Freelancer {
	out := make([]model.Freelancer, 0, len(s.freelancers))
	skill = strings.TrimSpace(skill)
	for _, f := range s.freelancers {
		if skill != "" && !hasSkill(f.Skills, skill) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}
