package career

import (
	"fmt"
	"math"

	"github.com/terra-clan/career-engine/internal/models"
)

// Tier thresholds are inclusive lower bounds and identical for every domain.
const (
	SeniorThreshold   = 24
	MidLevelThreshold = 15
)

var tierBands = []struct {
	min  int
	tier models.Tier
}{
	{SeniorThreshold, models.TierSenior},
	{MidLevelThreshold, models.TierMidLevel},
	{math.MinInt, models.TierJunior},
}

// titles must stay byte-for-byte stable; existing clients match on them.
var titles = map[models.Domain]map[models.Tier]string{
	models.FullStack: {
		models.TierSenior:   "Senior Full Stack Developer",
		models.TierMidLevel: "Web Developer",
		models.TierJunior:   "Junior Frontend Developer",
	},
	models.AiMl: {
		models.TierSenior:   "AI Research Scientist",
		models.TierMidLevel: "Machine Learning Engineer",
		models.TierJunior:   "Data Analyst",
	},
	models.Ece: {
		models.TierSenior:   "Hardware Architect",
		models.TierMidLevel: "Electronics Engineer",
		models.TierJunior:   "Circuit Designer",
	},
}

// Recommendation is a tier and the career title it maps to in a domain
type Recommendation struct {
	Tier  models.Tier
	Title string
}

// TierFor returns the tier a score falls into
func TierFor(score int) models.Tier {
	for _, band := range tierBands {
		if score >= band.min {
			return band.tier
		}
	}
	return models.TierJunior
}

// Title returns the career title for a domain and tier
func Title(d models.Domain, tier models.Tier) (string, error) {
	byTier, ok := titles[d]
	if !ok {
		return "", fmt.Errorf("%w: %d", models.ErrUnknownDomain, d)
	}
	return byTier[tier], nil
}

// Recommend maps a domain score to a tier and title
func Recommend(d models.Domain, score int) (Recommendation, error) {
	tier := TierFor(score)
	title, err := Title(d, tier)
	if err != nil {
		return Recommendation{}, err
	}
	return Recommendation{Tier: tier, Title: title}, nil
}

// SkillLevel returns points as a percentage of the attainable maximum
func SkillLevel(points, maxPoints int) float64 {
	if maxPoints <= 0 {
		return 0
	}
	return float64(points) / float64(maxPoints) * 100
}
