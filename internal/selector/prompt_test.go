package selector

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
)

func TestPromptPickerSelects(t *testing.T) {
	t.Parallel()

	channels := scenarioChannels()
	var out strings.Builder
	p := &PromptPicker{In: strings.NewReader("1,3-4\n"), Out: &out}

	res, err := p.Pick(context.Background(), channels)
	require.NoError(t, err)
	require.False(t, res.Cancelled)
	require.Len(t, res.Channels, 3)
	require.Equal(t, "alpha-one", res.Channels[0].Name)
	require.Equal(t, "beta-one", res.Channels[1].Name)
	require.Equal(t, "beta-two", res.Channels[2].Name)

	listing := out.String()
	require.Contains(t, listing, "[guild] #alpha-one")
	require.Contains(t, listing, "estimated: 0 messages")
}

func TestPromptPickerAllKeyword(t *testing.T) {
	t.Parallel()

	p := &PromptPicker{In: strings.NewReader("all\n"), Out: &strings.Builder{}}
	res, err := p.Pick(context.Background(), scenarioChannels())
	require.NoError(t, err)
	require.Len(t, res.Channels, 6)
}

func TestPromptPickerRepromptsOnBadInput(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	p := &PromptPicker{In: strings.NewReader("bogus\n2\n"), Out: &out}
	res, err := p.Pick(context.Background(), scenarioChannels())
	require.NoError(t, err)
	require.Len(t, res.Channels, 1)
	require.Equal(t, "alpha-two", res.Channels[0].Name)
	require.Contains(t, out.String(), "invalid token")
}

func TestPromptPickerEmptyLineCancels(t *testing.T) {
	t.Parallel()

	p := &PromptPicker{In: strings.NewReader("\n"), Out: &strings.Builder{}}
	res, err := p.Pick(context.Background(), scenarioChannels())
	require.NoError(t, err)
	require.True(t, res.Cancelled)
	require.Empty(t, res.Channels)
}

func TestPromptPickerEOFCancels(t *testing.T) {
	t.Parallel()

	p := &PromptPicker{In: strings.NewReader(""), Out: &strings.Builder{}}
	res, err := p.Pick(context.Background(), scenarioChannels())
	require.NoError(t, err)
	require.True(t, res.Cancelled)
}

func TestPromptPickerNoChannels(t *testing.T) {
	t.Parallel()

	p := &PromptPicker{In: strings.NewReader("1\n"), Out: &strings.Builder{}}
	_, err := p.Pick(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoChannels)
}

func TestConfirmLargeSelection(t *testing.T) {
	t.Parallel()

	channels := []catalog.Channel{
		{Name: "busy", GuildName: "guild", EstimatedMessages: 60000},
	}
	cases := []struct {
		name  string
		input string
		want  ConfirmOutcome
	}{
		{"yes proceeds", "y\n", ConfirmOutcome{Proceed: true}},
		{"full yes proceeds", "yes\n", ConfirmOutcome{Proceed: true}},
		{"suppress proceeds and remembers", "s\n", ConfirmOutcome{Proceed: true, Suppress: true}},
		{"default declines", "\n", ConfirmOutcome{}},
		{"no declines", "n\n", ConfirmOutcome{}},
		{"eof declines", "", ConfirmOutcome{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out strings.Builder
			got, err := ConfirmLargeSelection(strings.NewReader(tc.input), &out, channels)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Contains(t, out.String(), "estimated 60000 messages")
		})
	}
}
