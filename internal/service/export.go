package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
	"github.com/takayamaekawa/discord-exporter-tui/internal/export"
)

// MessageSource reads one channel's history within a window.
type MessageSource interface {
	Messages(ctx context.Context, channel catalog.Channel, window export.Window) ([]export.Message, error)
}

// WorkbookWriter persists collected messages. Matches export.WriteWorkbook.
type WorkbookWriter func(path, batchID string, msgs []export.Message) error

// ExportService collects selected channels into a single workbook.
type ExportService struct {
	Source MessageSource
	Write  WorkbookWriter

	// Progress, when set, is called after each channel with the running
	// message total.
	Progress func(channel catalog.Channel, collected, total int)
}

// ExportResult summarizes one export run. Channels that failed are recorded
// in Errors and skipped; the workbook still covers the rest.
type ExportResult struct {
	BatchID  string
	Path     string
	Channels int
	Messages int
	Errors   []error
}

// Export fetches every selected channel's history and writes the workbook.
// A run with no collectable messages still produces a workbook so the
// output file always exists after a confirmed export.
func (s *ExportService) Export(ctx context.Context, channels []catalog.Channel, window export.Window, path string) (ExportResult, error) {
	res := ExportResult{BatchID: uuid.NewString(), Path: path}

	var all []export.Message
	for _, ch := range channels {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		msgs, err := s.Source.Messages(ctx, ch, window)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("#%s: %w", ch.Name, err))
			continue
		}
		all = append(all, msgs...)
		res.Channels++
		if s.Progress != nil {
			s.Progress(ch, len(msgs), len(all))
		}
	}
	res.Messages = len(all)

	if err := s.Write(path, res.BatchID, all); err != nil {
		return res, fmt.Errorf("write workbook: %w", err)
	}
	return res, nil
}
