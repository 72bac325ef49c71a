package models

// CareerPath is the catalog entry for one domain
type CareerPath struct {
	Domain         Domain              `json:"-"`
	Name           string              `json:"name"`
	Icon           string              `json:"icon"`
	Description    string              `json:"description"`
	Skills         []string            `json:"skills"`
	Checkpoints    []CatalogCheckpoint `json:"checkpoints"`
	Achievements   []string            `json:"achievements"`
	TierBadges     map[Tier]string     `json:"tierBadges"`
	SuccessStories []SuccessStory      `json:"successStories"`
	Preparation    Preparation         `json:"preparation"`
}

// MaxPoints is the sum of all checkpoint points in the path
func (p *CareerPath) MaxPoints() int {
	total := 0
	for _, cp := range p.Checkpoints {
		total += cp.Points
	}
	return total
}

// Checkpoint returns the checkpoint with the given id, or nil
func (p *CareerPath) Checkpoint(id string) *CatalogCheckpoint {
	for i := range p.Checkpoints {
		if p.Checkpoints[i].ID == id {
			return &p.Checkpoints[i]
		}
	}
	return nil
}

// CatalogCheckpoint is a scored question within a domain
type CatalogCheckpoint struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Points   int    `json:"points"`
}

// SuccessStory describes a role model for a domain
type SuccessStory struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Journey string `json:"journey"`
	Impact  string `json:"impact"`
}

// Preparation lists early activities and project ideas for a domain
type Preparation struct {
	Early    []string `json:"early"`
	Projects []string `json:"projects"`
}
