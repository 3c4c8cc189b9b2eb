package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
)

// ErrNoChannels is returned when a picker is invoked with an empty catalog.
var ErrNoChannels = errors.New("no channels available to select")

// Result is the outcome of a selection session. Cancelled means the user
// backed out; Channels is the confirmed set in original catalog order and is
// empty whenever Cancelled is true.
type Result struct {
	Channels  []catalog.Channel
	Cancelled bool
}

// ChannelPicker is a front end that lets the user choose channels from a
// catalog snapshot. Both the full-screen and the line-oriented picker
// implement it, so callers do not care which one ran.
type ChannelPicker interface {
	Pick(ctx context.Context, channels []catalog.Channel) (Result, error)
}

// ConfirmOutcome is the user's answer to the large-selection warning.
type ConfirmOutcome struct {
	Proceed  bool
	Suppress bool // user asked to never see the warning again
}

// ConfirmLargeSelection asks the user to confirm a selection whose summed
// estimate exceeded the warning threshold. Runs after either picker so both
// front ends behave the same. Answers: y proceeds, s proceeds and suppresses
// the warning for future runs, anything else (including EOF) declines.
func ConfirmLargeSelection(in io.Reader, out io.Writer, selected []catalog.Channel) (ConfirmOutcome, error) {
	total := catalog.TotalEstimated(selected)
	fmt.Fprintf(out, "Selected %d channels with an estimated %d messages.\n", len(selected), total)
	fmt.Fprintf(out, "Large exports can take a long time and may hit rate limits.\n")
	fmt.Fprintf(out, "Continue? [y/N/s(kip warning from now on)]: ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return ConfirmOutcome{}, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return ConfirmOutcome{Proceed: true}, nil
	case "s":
		return ConfirmOutcome{Proceed: true, Suppress: true}, nil
	default:
		return ConfirmOutcome{}, nil
	}
}

// pickChannels maps selected catalog indices back to channel records.
func pickChannels(channels []catalog.Channel, indices []int) []catalog.Channel {
	out := make([]catalog.Channel, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(channels) {
			out = append(out, channels[i])
		}
	}
	return out
}
