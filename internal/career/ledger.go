package career

import (
	"fmt"
	"time"

	"github.com/terra-clan/career-engine/internal/models"
)

// RecordCheckpoint appends (domain, checkpointID) to the ledger with the awarded points.
// Recording a pair that is already present is a no-op reporting alreadyRecorded.
func (e *Engine) RecordCheckpoint(rec *models.ProgressRecord, d models.Domain, checkpointID string, points int, now time.Time) (bool, error) {
	if !d.Valid() {
		return false, fmt.Errorf("%w: %d", models.ErrUnknownDomain, d)
	}
	if e.catalog.Checkpoint(d, checkpointID) == nil {
		return false, fmt.Errorf("%w: %q in %s", ErrInvalidCheckpoint, checkpointID, d)
	}
	if points < 0 {
		return false, ErrNegativePoints
	}
	if rec.HasCheckpoint(d, checkpointID) {
		return true, nil
	}

	rec.GameProgress.Checkpoints = append(rec.GameProgress.Checkpoints, models.CheckpointEntry{
		PathID:       d,
		CheckpointID: checkpointID,
		Score:        points,
		Completed:    true,
		CompletedAt:  now,
	})
	return false, nil
}

// PathComplete reports whether every checkpoint of the domain is in the ledger
func (e *Engine) PathComplete(rec *models.ProgressRecord, d models.Domain) bool {
	path := e.catalog.Path(d)
	if path == nil {
		return false
	}
	for _, cp := range path.Checkpoints {
		if !rec.HasCheckpoint(d, cp.ID) {
			return false
		}
	}
	return true
}

// completeCheckpoint records a checkpoint at its catalog value and, once the whole
// domain is done, marks the path complete and awards the tier badge.
func (e *Engine) completeCheckpoint(rec *models.ProgressRecord, d models.Domain, checkpointID string, now time.Time) (bool, error) {
	cp := e.catalog.Checkpoint(d, checkpointID)
	if cp == nil {
		return false, fmt.Errorf("%w: %q in %s", ErrInvalidCheckpoint, checkpointID, d)
	}
	already, err := e.RecordCheckpoint(rec, d, checkpointID, cp.Points, now)
	if err != nil || already {
		return already, err
	}

	if e.PathComplete(rec, d) {
		addPath(rec, d)
		if badge := e.catalog.TierBadge(d, TierFor(DomainScore(rec, d))); badge != "" {
			addAchievement(rec, badge)
		}
	}
	return false, nil
}

func addPath(rec *models.ProgressRecord, d models.Domain) bool {
	if rec.HasPath(d) {
		return false
	}
	rec.GameProgress.CompletedPaths = append(rec.GameProgress.CompletedPaths, d)
	return true
}
