package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/cashflow/internal/analytics"
	"github.com/Veraticus/cashflow/internal/cli"
	"github.com/Veraticus/cashflow/internal/common"
	"github.com/Veraticus/cashflow/internal/config"
	"github.com/Veraticus/cashflow/internal/invoice"
	"github.com/Veraticus/cashflow/internal/model"
	"github.com/Veraticus/cashflow/internal/sheets"
	"github.com/Veraticus/cashflow/internal/tui"
	"github.com/Veraticus/cashflow/internal/tui/themes"
)

const dateLayout = "2006-01-02"

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

type analyzeOptions struct {
	from     string
	to       string
	timezone string
	format   string
	invoices string
	theme    string
	tui      bool
	export   bool
}

// analyzeDeps holds what the command needs from the outside world.
type analyzeDeps struct {
	out       io.Writer
	progress  io.Writer
	now       func() time.Time
	newWriter func(ctx context.Context) (sheets.DashboardWriter, error)
	runTUI    func(ctx context.Context, result *analytics.Result, theme themes.Theme) error
}

func defaultAnalyzeDeps(cmd *cobra.Command) analyzeDeps {
	return analyzeDeps{
		out:      cmd.OutOrStdout(),
		progress: cmd.ErrOrStderr(),
		now:      time.Now,
		newWriter: func(ctx context.Context) (sheets.DashboardWriter, error) {
			cfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return nil, err
			}
			return sheets.NewWriter(ctx, *cfg, slog.Default())
		},
		runTUI: func(ctx context.Context, result *analytics.Result, theme themes.Theme) error {
			return tui.Run(ctx, result, tui.WithTheme(theme))
		},
	}
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [sources...]",
		Short: "Build the dashboard from transaction files",
		Long: `Build the finance dashboard from one or more transaction sources.

Sources are chosen by extension:
  .json             transaction export (array or {"transactions": [...]})
  .ofx, .qfx        bank or credit card statement
  .db, .sqlite      read-only ledger database

Examples:
  # Everything, all time
  cashflow analyze ~/exports/*.json

  # October, with the card issuer's invoice figures
  cashflow analyze ledger.db --from 2026-10-01 --to 2026-10-31 --invoices invoices.yaml

  # Browse interactively
  cashflow analyze ~/Downloads/*.qfx --tui

  # Publish to Google Sheets
  cashflow analyze ledger.db --export`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analyzeOptions{
				from:     viper.GetString("analyze.from"),
				to:       viper.GetString("analyze.to"),
				timezone: viper.GetString("analyze.timezone"),
				format:   viper.GetString("analyze.format"),
				invoices: viper.GetString("analyze.invoices"),
				theme:    viper.GetString("tui.theme"),
			}
			opts.tui, _ = cmd.Flags().GetBool("tui")
			opts.export, _ = cmd.Flags().GetBool("export")

			return runAnalyze(cmd.Context(), opts, args, defaultAnalyzeDeps(cmd))
		},
	}

	cmd.Flags().String("from", "", "first day of the reporting period (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last day of the reporting period (YYYY-MM-DD)")
	cmd.Flags().String("timezone", "Local", "time zone the period days are evaluated in")
	cmd.Flags().StringP("format", "f", formatTable, "output format (table, json)")
	cmd.Flags().String("invoices", "", "YAML or JSON file with invoice figures from the card issuer")
	cmd.Flags().Bool("tui", false, "browse the dashboard interactively")
	cmd.Flags().String("theme", "default", "dashboard theme for --tui (default, mono)")
	cmd.Flags().Bool("export", false, "write the dashboard to Google Sheets")

	_ = viper.BindPFlag("analyze.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("analyze.to", cmd.Flags().Lookup("to"))
	_ = viper.BindPFlag("analyze.timezone", cmd.Flags().Lookup("timezone"))
	_ = viper.BindPFlag("analyze.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("analyze.invoices", cmd.Flags().Lookup("invoices"))
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runAnalyze(ctx context.Context, opts analyzeOptions, patterns []string, deps analyzeDeps) error {
	if opts.format != formatTable && opts.format != formatJSON {
		return common.NewUserError(fmt.Sprintf("unknown output format %q", opts.format), common.ErrInvalidConfig)
	}

	theme, err := themes.ByName(opts.theme)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("unknown theme %q", opts.theme), fmt.Errorf("%w: %w", common.ErrInvalidConfig, err))
	}

	period, err := parsePeriod(opts.from, opts.to, opts.timezone)
	if err != nil {
		return err
	}

	figures, err := loadInvoices(opts.invoices)
	if err != nil {
		return err
	}

	files, err := expandSources(patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return common.NewUserError("no transaction files found", nil)
	}

	txns, err := loadSources(ctx, files, deps.progress)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	common.LogInfo("Loaded transactions", common.Fields{
		"files":        len(files),
		"transactions": len(txns),
	})

	engine := analytics.NewEngine(analytics.WithClock(deps.now))
	result, err := engine.Analyze(ctx, analytics.Request{
		Transactions: txns,
		Period:       period,
		Invoices:     figures,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if opts.export {
		if err := exportDashboard(ctx, result, deps); err != nil {
			return err
		}
	}

	if opts.tui {
		return deps.runTUI(ctx, result, theme)
	}

	return writeResult(deps.out, result, opts.format)
}

// parsePeriod turns the --from/--to pair into a reporting period. Both
// empty means all time.
func parsePeriod(from, to, timezone string) (*model.ReportingPeriod, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, common.NewUserError("--from and --to must be given together", common.ErrInvalidPeriod)
	}

	loc, err := loadLocation(timezone)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation(dateLayout, from, loc)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("invalid --from date %q", from), fmt.Errorf("%w: %w", common.ErrInvalidPeriod, err))
	}
	end, err := time.ParseInLocation(dateLayout, to, loc)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("invalid --to date %q", to), fmt.Errorf("%w: %w", common.ErrInvalidPeriod, err))
	}

	period, err := model.NewReportingPeriod(start, end)
	if err != nil {
		return nil, common.NewUserError("invalid reporting period", fmt.Errorf("%w: %w", common.ErrInvalidPeriod, err))
	}
	return period, nil
}

func loadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("unknown time zone %q", name), fmt.Errorf("%w: %w", common.ErrInvalidConfig, err))
	}
	return loc, nil
}

func loadInvoices(path string) (model.InvoiceFigures, error) {
	if path == "" {
		return model.InvoiceFigures{}, nil
	}

	path = config.ExpandPath(path)
	f, err := os.Open(path)
	if err != nil {
		return model.InvoiceFigures{}, fmt.Errorf("failed to open invoice figures: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close file", "file", path, "error", closeErr)
		}
	}()

	figures, err := invoice.Load(f)
	if err != nil {
		return model.InvoiceFigures{}, fmt.Errorf("%s: %w", path, err)
	}
	return figures, nil
}

func exportDashboard(ctx context.Context, result *analytics.Result, deps analyzeDeps) error {
	writer, err := deps.newWriter(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up Google Sheets export: %w", err)
	}
	if err := writer.Write(ctx, result); err != nil {
		return fmt.Errorf("failed to export dashboard: %w", err)
	}
	_, err = fmt.Fprintln(deps.progress, cli.FormatSuccess("Dashboard exported to Google Sheets"))
	return err
}

func writeResult(w io.Writer, result *analytics.Result, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	_, err := fmt.Fprintln(w, cli.RenderDashboard(result))
	return err
}
