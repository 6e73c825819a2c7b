// Package saved tracks which campaigns the viewer has bookmarked, with optimistic toggling.
package saved

import (
	"context"
	"sync"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"go.uber.org/zap"
)

type API interface {
	Save(ctx context.Context, campaignID string) (*models.SavedCampaign, error)
	Unsave(ctx context.Context, campaignID string) error
	IDs(ctx context.Context) ([]string, error)
}

type Tracker struct {
	api API
	log *zap.Logger

	mu    sync.RWMutex
	ids   map[string]bool
	order []string
}

func NewTracker(a API, log *zap.Logger) *Tracker {
	return &Tracker{api: a, log: log, ids: map[string]bool{}}
}

// Load replaces local state with the server's saved ids.
func (t *Tracker) Load(ctx context.Context) error {
	ids, err := t.api.IDs(ctx)
	if err != nil {
		return api.Normalize(err, "Failed to fetch saved campaigns")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = make(map[string]bool, len(ids))
	t.order = nil
	for _, id := range ids {
		if !t.ids[id] {
			t.ids[id] = true
			t.order = append(t.order, id)
		}
	}
	return nil
}

func (t *Tracker) IsSaved(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ids[id]
}

func (t *Tracker) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string{}, t.order...)
}

func (t *Tracker) set(id string, saved bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if saved == t.ids[id] {
		return
	}
	if saved {
		t.ids[id] = true
		t.order = append(t.order, id)
		return
	}
	delete(t.ids, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

// Toggle flips the saved flag locally before calling the API and reverts it if the call fails.
// It returns the resulting state.
func (t *Tracker) Toggle(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, api.Validation("Missing campaign id")
	}
	was := t.IsSaved(id)
	t.set(id, !was)

	var err error
	if was {
		err = t.api.Unsave(ctx, id)
	} else {
		_, err = t.api.Save(ctx, id)
	}
	if err != nil {
		t.set(id, was)
		t.log.Warn("saved toggle reverted", zap.String("campaign_id", id), zap.Bool("saved", was), zap.Error(err))
		if was {
			return was, api.Normalize(err, "Failed to remove saved campaign")
		}
		return was, api.Normalize(err, "Failed to save campaign")
	}
	return !was, nil
}
