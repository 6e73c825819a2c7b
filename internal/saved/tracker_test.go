package saved

import (
	"context"
	"errors"
	"testing"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	ids     []string
	saveErr error
	// observed is the tracker state seen while the remote call runs.
	observed *bool
	tracker  *Tracker
}

func (f *fakeAPI) Save(_ context.Context, id string) (*models.SavedCampaign, error) {
	if f.tracker != nil {
		v := f.tracker.IsSaved(id)
		f.observed = &v
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &models.SavedCampaign{CampaignID: id}, nil
}

func (f *fakeAPI) Unsave(_ context.Context, id string) error {
	if f.tracker != nil {
		v := f.tracker.IsSaved(id)
		f.observed = &v
	}
	return f.saveErr
}

func (f *fakeAPI) IDs(context.Context) ([]string, error) {
	return f.ids, nil
}

func TestLoad(t *testing.T) {
	tr := NewTracker(&fakeAPI{ids: []string{"c1", "c2", "c1"}}, zap.NewNop())
	require.NoError(t, tr.Load(context.Background()))
	require.True(t, tr.IsSaved("c1"))
	require.False(t, tr.IsSaved("c3"))
	require.Equal(t, []string{"c1", "c2"}, tr.IDs())
}

func TestToggleIsOptimistic(t *testing.T) {
	f := &fakeAPI{}
	tr := NewTracker(f, zap.NewNop())
	f.tracker = tr

	saved, err := tr.Toggle(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, saved)
	require.NotNil(t, f.observed)
	require.True(t, *f.observed, "state should flip before the API call")

	saved, err = tr.Toggle(context.Background(), "c1")
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, *f.observed)
	require.Empty(t, tr.IDs())
}

func TestToggleRevertsOnFailure(t *testing.T) {
	f := &fakeAPI{saveErr: &api.Error{Kind: api.KindAPI, Status: 409, Message: "Already saved"}}
	tr := NewTracker(f, zap.NewNop())

	saved, err := tr.Toggle(context.Background(), "c1")
	require.EqualError(t, err, "Already saved")
	require.False(t, saved)
	require.False(t, tr.IsSaved("c1"))

	f.saveErr = errors.New("")
	f.ids = []string{"c2"}
	require.NoError(t, tr.Load(context.Background()))
	saved, err = tr.Toggle(context.Background(), "c2")
	require.EqualError(t, err, "Failed to remove saved campaign")
	require.True(t, saved)
	require.True(t, tr.IsSaved("c2"))
}
