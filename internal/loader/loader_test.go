package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/stretchr/testify/require"
)

type item struct{ ID, Name string }

func TestEntityLoadingFlag(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		close(started)
		<-release
		return &item{ID: id, Name: "one"}, nil
	}, "Failed to fetch item", Options[*item]{})

	done := make(chan error, 1)
	go func() {
		_, err := e.Fetch(context.Background(), "a")
		done <- err
	}()

	<-started
	st := e.State()
	require.True(t, st.Loading)
	require.Equal(t, StatusLoading, st.Status)

	close(release)
	require.NoError(t, <-done)

	st = e.State()
	require.False(t, st.Loading)
	require.Equal(t, StatusSuccess, st.Status)
	require.True(t, st.HasData)
	require.Equal(t, "one", st.Data.Name)
	require.Nil(t, st.Err)
}

func TestEntityFailureRecordsError(t *testing.T) {
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		return nil, errors.New("boom")
	}, "Failed to fetch item", Options[*item]{})

	_, err := e.Fetch(context.Background(), "a")
	require.Error(t, err)

	st := e.State()
	require.False(t, st.Loading)
	require.Equal(t, StatusError, st.Status)
	require.NotNil(t, st.Err)
	require.Equal(t, "boom", st.Err.Message)
}

func TestEntityPanicClearsLoading(t *testing.T) {
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		panic("kaboom")
	}, "Failed to fetch item", Options[*item]{})

	require.Panics(t, func() { _, _ = e.Fetch(context.Background(), "a") })

	st := e.State()
	require.False(t, st.Loading)
	require.Equal(t, StatusError, st.Status)
	require.Equal(t, "Failed to fetch item", st.Err.Message)
}

func TestEntityLatestRequestWins(t *testing.T) {
	slowStarted := make(chan struct{})
	var slowCtxErr error
	var mu sync.Mutex

	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		if id == "slow" {
			close(slowStarted)
			<-ctx.Done()
			mu.Lock()
			slowCtxErr = ctx.Err()
			mu.Unlock()
			// a server that ignores cancellation still answers late
			return &item{ID: "slow"}, nil
		}
		return &item{ID: id}, nil
	}, "Failed to fetch item", Options[*item]{})

	done := make(chan struct{})
	go func() {
		_, _ = e.Fetch(context.Background(), "slow")
		close(done)
	}()
	<-slowStarted

	_, err := e.Fetch(context.Background(), "fast")
	require.NoError(t, err)
	<-done

	mu.Lock()
	require.ErrorIs(t, slowCtxErr, context.Canceled)
	mu.Unlock()

	st := e.State()
	require.Equal(t, "fast", st.Data.ID)
	require.False(t, st.Loading)
	require.Equal(t, "fast", e.ID())
}

func TestEntityRefetchWithoutIDIsNoop(t *testing.T) {
	calls := 0
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		calls++
		return &item{ID: id}, nil
	}, "Failed to fetch item", Options[*item]{})

	v, err := e.Refetch(context.Background())
	require.NoError(t, err)
	require.Nil(t, v)
	require.Zero(t, calls)
	require.Equal(t, StatusIdle, e.State().Status)

	_, err = e.Fetch(context.Background(), "x")
	require.NoError(t, err)
	_, err = e.Refetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestEntityAutoFetch(t *testing.T) {
	var ids []string
	fetch := func(ctx context.Context, id string) (*item, error) {
		ids = append(ids, id)
		return &item{ID: id}, nil
	}

	e := NewEntity(fetch, "Failed", Options[*item]{ID: "a", AutoFetch: true})
	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.SetID(context.Background(), "a"))
	require.NoError(t, e.SetID(context.Background(), "b"))
	require.Equal(t, []string{"a", "b"}, ids)

	manual := NewEntity(fetch, "Failed", Options[*item]{ID: "c"})
	require.NoError(t, manual.Start(context.Background()))
	require.NoError(t, manual.SetID(context.Background(), "d"))
	require.Equal(t, []string{"a", "b"}, ids)
}

func TestEntityMutateRethrows(t *testing.T) {
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		return &item{ID: id, Name: "orig"}, nil
	}, "Failed", Options[*item]{})
	_, err := e.Fetch(context.Background(), "a")
	require.NoError(t, err)

	_, err = e.Mutate(context.Background(), "Failed to update item", func(ctx context.Context) (*item, error) {
		return nil, &api.Error{Kind: api.KindAPI, Status: 400, Message: "Name taken"}
	})
	require.Error(t, err)
	require.Equal(t, "Name taken", err.Error())

	st := e.State()
	require.Equal(t, StatusError, st.Status)
	require.Equal(t, "orig", st.Data.Name)

	v, err := e.Mutate(context.Background(), "Failed to update item", func(ctx context.Context) (*item, error) {
		return &item{ID: "a", Name: "new"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "new", v.Name)
	require.Equal(t, "new", e.State().Data.Name)
}

func TestEntityRemoveClears(t *testing.T) {
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		return &item{ID: id}, nil
	}, "Failed", Options[*item]{})
	_, err := e.Fetch(context.Background(), "a")
	require.NoError(t, err)

	require.NoError(t, e.Remove(context.Background(), "Failed to delete", func(ctx context.Context) error { return nil }))
	st := e.State()
	require.False(t, st.HasData)
	require.Nil(t, st.Data)
}

func TestCloseDropsLateResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		close(started)
		<-release
		return &item{ID: id}, nil
	}, "Failed", Options[*item]{})

	done := make(chan struct{})
	go func() {
		_, _ = e.Fetch(context.Background(), "a")
		close(done)
	}()
	<-started
	e.Close()
	close(release)
	<-done

	require.False(t, e.State().HasData)

	_, err := e.Fetch(context.Background(), "a")
	require.ErrorIs(t, err, ErrClosed)
}

func TestOnChangeSeesLoadingThenSuccess(t *testing.T) {
	var seen []Status
	e := NewEntity(func(ctx context.Context, id string) (*item, error) {
		return &item{ID: id}, nil
	}, "Failed", Options[*item]{OnChange: func(s State[*item]) { seen = append(seen, s.Status) }})

	_, err := e.Fetch(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, []Status{StatusLoading, StatusSuccess}, seen)
}

type filter struct{ Status string }

func TestListSetFilter(t *testing.T) {
	var got []filter
	l := NewList(func(ctx context.Context, f filter) ([]item, error) {
		got = append(got, f)
		return []item{{ID: "1"}, {ID: "2"}}, nil
	}, "Failed to fetch items", filter{Status: "active"}, true, nil)

	require.NoError(t, l.Start(context.Background()))
	require.NoError(t, l.SetFilter(context.Background(), filter{Status: "active"}))
	require.NoError(t, l.SetFilter(context.Background(), filter{Status: "closed"}))
	require.Equal(t, []filter{{"active"}, {"closed"}}, got)
	require.Len(t, l.State().Data, 2)

	v := l.State().Version
	err := l.Mutate(context.Background(), "Failed", func(ctx context.Context) error { return nil },
		func(items []item) []item { return items[1:] })
	require.NoError(t, err)
	require.Len(t, l.State().Data, 1)
	require.Greater(t, l.State().Version, v)
}

func TestListStaleResponseIgnored(t *testing.T) {
	first := make(chan struct{})
	l := NewList(func(ctx context.Context, f filter) ([]item, error) {
		if f.Status == "old" {
			close(first)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			return []item{{ID: "old"}}, nil
		}
		return []item{{ID: "new"}}, nil
	}, "Failed", filter{Status: "old"}, true, nil)

	done := make(chan struct{})
	go func() {
		_ = l.Start(context.Background())
		close(done)
	}()
	<-first
	require.NoError(t, l.SetFilter(context.Background(), filter{Status: "new"}))
	<-done

	require.Equal(t, []item{{ID: "new"}}, l.State().Data)
}
