// Package events fans progress snapshots out to the subscribers of a user.
package events

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/models"
)

const subscriberBuffer = 8

// Update is pushed to subscribers after every persisted change
type Update struct {
	GameProgress         models.GameProgress          `json:"gameProgress"`
	CareerRecommendation *models.CareerRecommendation `json:"careerRecommendation,omitempty"`
}

// Hub keeps the live subscribers of every user.
// Publishing never blocks: a subscriber whose buffer is full misses the update.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[*subscriber]struct{}
}

type subscriber struct {
	ch   chan Update
	once sync.Once
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[*subscriber]struct{})}
}

// Subscribe registers a subscriber for userID. Call cancel to stop receiving;
// the channel is closed afterwards.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Update, func()) {
	s := &subscriber{ch: make(chan Update, subscriberBuffer)}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][s] = struct{}{}
	h.mu.Unlock()

	return s.ch, func() {
		s.once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], s)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(s.ch)
		})
	}
}

// Publish sends a snapshot of rec to every subscriber of its user
func (h *Hub) Publish(rec models.ProgressRecord) {
	snapshot := rec.Clone()
	update := Update{
		GameProgress:         snapshot.GameProgress,
		CareerRecommendation: snapshot.Recommendation,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[rec.UserID] {
		select {
		case s.ch <- update:
		default:
			slog.Debug("dropping progress update for slow subscriber", "user_id", rec.UserID)
		}
	}
}

// Subscribers returns the number of live subscribers of userID
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
