package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/takayamaekawa/discord-exporter-tui/internal/catalog"
	"github.com/takayamaekawa/discord-exporter-tui/internal/config"
	"github.com/takayamaekawa/discord-exporter-tui/internal/database"
	"github.com/takayamaekawa/discord-exporter-tui/internal/database/repository"
	"github.com/takayamaekawa/discord-exporter-tui/internal/discord"
	"github.com/takayamaekawa/discord-exporter-tui/internal/export"
	"github.com/takayamaekawa/discord-exporter-tui/internal/prefs"
	"github.com/takayamaekawa/discord-exporter-tui/internal/selector"
	"github.com/takayamaekawa/discord-exporter-tui/internal/service"
)

const dateLayout = "2006-01-02"

type flags struct {
	token   string
	guild   string
	output  string
	after   string
	before  string
	limit   int
	plain   bool
	refresh bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd(ctx).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd(ctx context.Context) *cobra.Command {
	var fl flags
	cmd := &cobra.Command{
		Use:           "discord-exporter-tui",
		Short:         "Select Discord channels and export their history to an xlsx workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(ctx, fl)
		},
	}
	cmd.PersistentFlags().StringVar(&fl.token, "token", "", "bot token (overrides config and env)")
	cmd.PersistentFlags().StringVar(&fl.guild, "guild", "", "limit to one guild by id or name")
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "output xlsx path")
	cmd.Flags().StringVar(&fl.after, "after", "", "only messages after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fl.before, "before", "", "only messages before this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&fl.limit, "limit", 0, "max messages per channel, 0 = unlimited")
	cmd.Flags().BoolVar(&fl.plain, "plain", false, "use the line-oriented selector instead of the full-screen one")
	cmd.Flags().BoolVar(&fl.refresh, "refresh", false, "rescan channels instead of using the cache")

	cmd.AddCommand(fetchCmd(ctx, &fl))
	return cmd
}

func fetchCmd(ctx context.Context, fl *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Rescan guild channels and refresh the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			scan, cleanup, err := buildScan(*fl)
			if err != nil {
				return err
			}
			defer cleanup()

			channels, err := scan.Refresh(ctx, fl.guild)
			if err != nil {
				return err
			}
			for _, c := range channels {
				fmt.Printf("[%s] #%s (%s, estimated: %d messages)\n",
					c.GuildName, c.Name, c.CategoryLabel(), c.EstimatedMessages)
			}
			fmt.Printf("cached %d channels\n", len(channels))
			return nil
		},
	}
}

func buildScan(fl flags) (*service.ScanService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	token := fl.token
	if token == "" {
		token = cfg.ResolveToken()
	}
	client, err := discord.New(token)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	scan := &service.ScanService{Fetcher: client, Store: repository.NewChannelRepo(db)}
	return scan, func() { db.Close() }, nil
}

func runExport(ctx context.Context, fl flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	token := fl.token
	if token == "" {
		token = cfg.ResolveToken()
	}
	client, err := discord.New(token)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	guild := fl.guild
	if guild == "" {
		guild = cfg.Discord.Guild
	}
	scan := &service.ScanService{Fetcher: client, Store: repository.NewChannelRepo(db)}

	var channels []catalog.Channel
	if fl.refresh {
		channels, err = scan.Refresh(ctx, guild)
	} else {
		var stale bool
		channels, stale, err = scan.Catalog(ctx, guild)
		if stale {
			fmt.Fprintln(os.Stderr, "channel cache is over a week old; pass --refresh or run fetch to rescan")
		}
	}
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return errors.New("no exportable channels found")
	}

	result, err := pickChannels(ctx, fl, channels)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Println("selection cancelled")
		return nil
	}

	threshold := cfg.Export.WarnThreshold
	if threshold > 0 && catalog.TotalEstimated(result.Channels) > threshold && !prefs.LargeExportSuppressed() {
		outcome, err := selector.ConfirmLargeSelection(os.Stdin, os.Stdout, result.Channels)
		if err != nil {
			return err
		}
		if outcome.Suppress {
			if err := prefs.SetLargeExportSuppressed(true); err != nil {
				fmt.Fprintf(os.Stderr, "could not save warning preference: %v\n", err)
			}
		}
		if !outcome.Proceed {
			fmt.Println("export aborted")
			return nil
		}
	}

	window, err := buildWindow(cfg, fl)
	if err != nil {
		return err
	}
	output := fl.output
	if output == "" {
		output = cfg.Export.Output
	}

	exporter := &service.ExportService{
		Source: client,
		Write:  export.WriteWorkbook,
		Progress: func(c catalog.Channel, collected, total int) {
			fmt.Printf("#%s: %d messages (%d total)\n", c.Name, collected, total)
		},
	}
	res, err := exporter.Export(ctx, result.Channels, window, output)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d messages from %d channels to %s\n", res.Messages, res.Channels, res.Path)
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "skipped %v\n", e)
	}
	return nil
}

// pickChannels chooses a front end: the full-screen picker on a terminal,
// the line-oriented one otherwise. A broken full-screen run falls back to
// one prompt attempt instead of failing the export.
func pickChannels(ctx context.Context, fl flags, channels []catalog.Channel) (selector.Result, error) {
	prompt := &selector.PromptPicker{In: os.Stdin, Out: os.Stdout}
	if fl.plain || !isTerminal() {
		return prompt.Pick(ctx, channels)
	}
	result, err := selector.TUIPicker{}.Pick(ctx, channels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "interactive UI unavailable (%v), falling back to prompt selection\n", err)
		return prompt.Pick(ctx, channels)
	}
	return result, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func buildWindow(cfg config.Config, fl flags) (export.Window, error) {
	w := export.Window{Limit: fl.limit}
	if w.Limit == 0 {
		w.Limit = cfg.Export.Limit
	}
	after := fl.after
	if after == "" {
		after = cfg.Export.After
	}
	before := fl.before
	if before == "" {
		before = cfg.Export.Before
	}
	if after != "" {
		t, err := time.Parse(dateLayout, after)
		if err != nil {
			return w, fmt.Errorf("parse --after: %w", err)
		}
		w.After = &t
	}
	if before != "" {
		t, err := time.Parse(dateLayout, before)
		if err != nil {
			return w, fmt.Errorf("parse --before: %w", err)
		}
		w.Before = &t
	}
	if w.After != nil && w.Before != nil && w.After.After(*w.Before) {
		return w, fmt.Errorf("--after %s is later than --before %s", after, before)
	}
	return w, nil
}
