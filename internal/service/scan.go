package service

import (
	"context"
	"time"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
	"github.com/takayamaekawa/discord-exporter-tui/internal/database"
)

// ChannelFetcher lists selectable channels from the API.
type ChannelFetcher interface {
	FetchChannels(ctx context.Context, guildFilter string) ([]catalog.Channel, error)
}

// ChannelStore caches the fetched catalog between runs.
type ChannelStore interface {
	ReplaceAll(ctx context.Context, channels []catalog.Channel, fetchedAt time.Time) error
	List(ctx context.Context) ([]catalog.Channel, error)
	LastFetched(ctx context.Context) (time.Time, error)
}

// StaleAfter is how old a cached catalog can get before Catalog suggests a
// refresh.
const StaleAfter = 7 * 24 * time.Hour

// ScanService keeps the channel catalog current.
type ScanService struct {
	Fetcher ChannelFetcher
	Store   ChannelStore
}

// Refresh replaces the cached catalog with a fresh API scan.
func (s *ScanService) Refresh(ctx context.Context, guildFilter string) ([]catalog.Channel, error) {
	channels, err := s.Fetcher.FetchChannels(ctx, guildFilter)
	if err != nil {
		return nil, err
	}
	if err := s.Store.ReplaceAll(ctx, channels, database.Now()); err != nil {
		return nil, err
	}
	return channels, nil
}

// Catalog returns the cached channels, refreshing when the cache is empty.
// stale reports whether the returned cache predates StaleAfter.
func (s *ScanService) Catalog(ctx context.Context, guildFilter string) (channels []catalog.Channel, stale bool, err error) {
	channels, err = s.Store.List(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(channels) == 0 {
		channels, err = s.Refresh(ctx, guildFilter)
		return channels, false, err
	}
	fetched, err := s.Store.LastFetched(ctx)
	if err != nil {
		return nil, false, err
	}
	return channels, time.Since(fetched) > StaleAfter, nil
}
