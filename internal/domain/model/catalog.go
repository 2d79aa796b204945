package model

type ContestClient struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// Contest is a listing card; the contest lifecycle itself is not modelled.
type Contest struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Budget      string         `json:"budget"`
	Deadline    string         `json:"deadline"`
	Submissions int            `json:"submissions"`
	Category    string         `json:"category,omitempty"`
	Client      *ContestClient `json:"client,omitempty"`
}

type Freelancer struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Title             string   `json:"title"`
	Rating            float64  `json:"rating"`
	CompletedProjects int      `json:"completedProjects"`
	HourlyRate        string   `json:"hourlyRate"`
	Skills            []string `json:"skills"`
	Avatar            string   `json:"avatar"`
}
