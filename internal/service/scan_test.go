package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
)

type fakeFetcher struct {
	channels []catalog.Channel
	err      error
	calls    int
}

func (f *fakeFetcher) FetchChannels(ctx context.Context, guildFilter string) ([]catalog.Channel, error) {
	f.calls++
	return f.channels, f.err
}

type fakeStore struct {
	channels []catalog.Channel
	fetched  time.Time
}

func (s *fakeStore) ReplaceAll(ctx context.Context, channels []catalog.Channel, fetchedAt time.Time) error {
	s.channels = append([]catalog.Channel(nil), channels...)
	s.fetched = fetchedAt
	return nil
}

func (s *fakeStore) List(ctx context.Context) ([]catalog.Channel, error) {
	return s.channels, nil
}

func (s *fakeStore) LastFetched(ctx context.Context) (time.Time, error) {
	return s.fetched, nil
}

func TestScanRefreshStoresSnapshot(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{channels: []catalog.Channel{{ID: "1", Name: "general"}}}
	store := &fakeStore{}
	svc := &ScanService{Fetcher: fetcher, Store: store}

	got, err := svc.Refresh(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, store.channels, 1)
	require.False(t, store.fetched.IsZero())
}

func TestScanCatalogUsesCache(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	store := &fakeStore{
		channels: []catalog.Channel{{ID: "1", Name: "general"}},
		fetched:  time.Now().UTC().Add(-time.Hour),
	}
	svc := &ScanService{Fetcher: fetcher, Store: store}

	got, stale, err := svc.Catalog(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.False(t, stale)
	require.Zero(t, fetcher.calls)
}

func TestScanCatalogRefreshesEmptyCache(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{channels: []catalog.Channel{{ID: "2", Name: "random"}}}
	store := &fakeStore{}
	svc := &ScanService{Fetcher: fetcher, Store: store}

	got, stale, err := svc.Catalog(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.False(t, stale)
	require.Equal(t, 1, fetcher.calls)
}

func TestScanCatalogFlagsStaleCache(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		channels: []catalog.Channel{{ID: "1", Name: "general"}},
		fetched:  time.Now().UTC().Add(-StaleAfter - time.Hour),
	}
	svc := &ScanService{Fetcher: &fakeFetcher{}, Store: store}

	_, stale, err := svc.Catalog(context.Background(), "")
	require.NoError(t, err)
	require.True(t, stale)
}

func TestScanRefreshPropagatesFetchError(t *testing.T) {
	t.Parallel()

	svc := &ScanService{Fetcher: &fakeFetcher{err: errors.New("api down")}, Store: &fakeStore{}}
	_, err := svc.Refresh(context.Background(), "")
	require.ErrorContains(t, err, "api down")
}
