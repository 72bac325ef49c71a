package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/career-engine/internal/models"
)

func TestHubDeliversToOwnerOnly(t *testing.T) {
	h := NewHub()
	alice, bob := uuid.New(), uuid.New()

	aliceCh, cancelAlice := h.Subscribe(alice)
	defer cancelAlice()
	bobCh, cancelBob := h.Subscribe(bob)
	defer cancelBob()

	rec := models.NewProgressRecord(alice, time.Now())
	rec.GameProgress.Score = 20
	h.Publish(rec)

	select {
	case u := <-aliceCh:
		assert.Equal(t, 20, u.GameProgress.Score)
	case <-time.After(time.Second):
		t.Fatal("alice did not receive the update")
	}

	select {
	case <-bobCh:
		t.Fatal("bob must not receive alice's update")
	default:
	}
}

func TestHubCancelClosesChannel(t *testing.T) {
	h := NewHub()
	id := uuid.New()

	ch, cancel := h.Subscribe(id)
	require.Equal(t, 1, h.Subscribers(id))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.Subscribers(id))

	// Publishing with no subscribers is a no-op
	h.Publish(models.NewProgressRecord(id, time.Now()))
}

func TestHubDoesNotBlockOnSlowSubscriber(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	_, cancel := h.Subscribe(id)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			h.Publish(models.NewProgressRecord(id, time.Now()))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestHubPublishesSnapshot(t *testing.T) {
	h := NewHub()
	id := uuid.New()
	ch, cancel := h.Subscribe(id)
	defer cancel()

	rec := models.NewProgressRecord(id, time.Now())
	rec.GameProgress.Achievements = append(rec.GameProgress.Achievements, "html_master")
	h.Publish(rec)
	rec.GameProgress.Achievements[0] = "mutated"

	u := <-ch
	assert.Equal(t, []string{"html_master"}, u.GameProgress.Achievements)
}
