package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
)

// PromptPicker is the line-oriented fallback selector for terminals that
// cannot host the full-screen UI. It prints a flat numbered listing and reads
// one selection expression per attempt, re-prompting on parse errors.
type PromptPicker struct {
	In  io.Reader
	Out io.Writer
}

func (p *PromptPicker) Pick(ctx context.Context, channels []catalog.Channel) (Result, error) {
	if len(channels) == 0 {
		return Result{}, ErrNoChannels
	}

	fmt.Fprintln(p.Out, "Available channels:")
	for i, c := range channels {
		fmt.Fprintf(p.Out, "  %3d. [%s] #%s (estimated: %d messages)\n", i+1, c.GuildName, c.Name, c.EstimatedMessages)
	}
	fmt.Fprintln(p.Out, "Enter channel numbers (e.g. 1,3,5-7), \"all\" for everything, or an empty line to cancel.")

	reader := bufio.NewReader(p.In)
	for {
		if err := ctx.Err(); err != nil {
			return Result{Cancelled: true}, nil
		}
		fmt.Fprint(p.Out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return Result{}, fmt.Errorf("read selection: %w", err)
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			// Covers both an empty line and EOF.
			return Result{Cancelled: true}, nil
		}
		indices, perr := ParseSelection(trimmed, len(channels))
		if perr != nil {
			fmt.Fprintf(p.Out, "%v\n", perr)
			if err == io.EOF {
				return Result{Cancelled: true}, nil
			}
			continue
		}
		return Result{Channels: pickChannels(channels, indices)}, nil
	}
}
