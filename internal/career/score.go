package career

import "github.com/terra-clan/career-engine/internal/models"

// DomainScore is the sum of points of the distinct completed checkpoints in a domain
func DomainScore(rec *models.ProgressRecord, d models.Domain) int {
	total := 0
	for _, entry := range rec.GameProgress.Checkpoints {
		if entry.PathID == d && entry.Completed {
			total += entry.Score
		}
	}
	return total
}

// DomainScores returns the ledger score of every domain
func DomainScores(rec *models.ProgressRecord) map[models.Domain]int {
	scores := make(map[models.Domain]int, len(models.Domains))
	for _, d := range models.Domains {
		scores[d] = DomainScore(rec, d)
	}
	return scores
}

// OverallScore returns the user's recorded overall score
func OverallScore(rec *models.ProgressRecord) int {
	return rec.GameProgress.Score
}

// raiseScore applies the max rule: a submission never lowers the overall score
func raiseScore(rec *models.ProgressRecord, candidate int) bool {
	if candidate > rec.GameProgress.Score {
		rec.GameProgress.Score = candidate
		return true
	}
	return false
}
