package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
	"github.com/takayamaekawa/discord-exporter-tui/internal/export"
)

type fakeSource struct {
	messages map[string][]export.Message
	failFor  string
}

func (s *fakeSource) Messages(ctx context.Context, channel catalog.Channel, window export.Window) ([]export.Message, error) {
	if channel.ID == s.failFor {
		return nil, errors.New("forbidden")
	}
	return s.messages[channel.ID], nil
}

func msg(id string, ts time.Time) export.Message {
	return export.Message{MessageID: id, Timestamp: ts, GuildName: "Guild", ChannelName: "general"}
}

func TestExportCollectsAllChannels(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	source := &fakeSource{messages: map[string][]export.Message{
		"1": {msg("a", now), msg("b", now.Add(time.Minute))},
		"2": {msg("c", now.Add(2 * time.Minute))},
	}}

	var wrotePath, wroteBatch string
	var wrote []export.Message
	svc := &ExportService{
		Source: source,
		Write: func(path, batchID string, msgs []export.Message) error {
			wrotePath, wroteBatch, wrote = path, batchID, msgs
			return nil
		},
	}

	channels := []catalog.Channel{
		{ID: "1", Name: "general"},
		{ID: "2", Name: "random"},
	}
	res, err := svc.Export(context.Background(), channels, export.Window{}, "out.xlsx")
	require.NoError(t, err)
	require.Equal(t, 2, res.Channels)
	require.Equal(t, 3, res.Messages)
	require.Empty(t, res.Errors)
	require.NotEmpty(t, res.BatchID)
	require.Equal(t, res.BatchID, wroteBatch)
	require.Equal(t, "out.xlsx", wrotePath)
	require.Len(t, wrote, 3)
}

func TestExportSkipsFailingChannel(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	source := &fakeSource{
		messages: map[string][]export.Message{"1": {msg("a", now)}},
		failFor:  "2",
	}
	var wrote []export.Message
	svc := &ExportService{
		Source: source,
		Write: func(path, batchID string, msgs []export.Message) error {
			wrote = msgs
			return nil
		},
	}

	channels := []catalog.Channel{
		{ID: "1", Name: "general"},
		{ID: "2", Name: "locked"},
	}
	res, err := svc.Export(context.Background(), channels, export.Window{}, "out.xlsx")
	require.NoError(t, err)
	require.Equal(t, 1, res.Channels)
	require.Len(t, res.Errors, 1)
	require.ErrorContains(t, res.Errors[0], "#locked")
	require.Len(t, wrote, 1)
}

func TestExportReportsProgress(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	source := &fakeSource{messages: map[string][]export.Message{
		"1": {msg("a", now)},
		"2": {msg("b", now), msg("c", now)},
	}}
	var totals []int
	svc := &ExportService{
		Source:   source,
		Write:    func(string, string, []export.Message) error { return nil },
		Progress: func(c catalog.Channel, collected, total int) { totals = append(totals, total) },
	}

	_, err := svc.Export(context.Background(), []catalog.Channel{{ID: "1"}, {ID: "2"}}, export.Window{}, "out.xlsx")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, totals)
}

func TestExportWriteFailure(t *testing.T) {
	t.Parallel()

	svc := &ExportService{
		Source: &fakeSource{},
		Write:  func(string, string, []export.Message) error { return errors.New("disk full") },
	}
	_, err := svc.Export(context.Background(), []catalog.Channel{{ID: "1"}}, export.Window{}, "out.xlsx")
	require.ErrorContains(t, err, "write workbook")
}

func TestExportCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := &ExportService{
		Source: &fakeSource{},
		Write:  func(string, string, []export.Message) error { return nil },
	}
	_, err := svc.Export(ctx, []catalog.Channel{{ID: "1"}}, export.Window{}, "out.xlsx")
	require.ErrorIs(t, err, context.Canceled)
}
