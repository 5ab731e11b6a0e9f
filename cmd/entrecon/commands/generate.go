package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/entrecon/entrecon/internal/config"
	ierr "github.com/entrecon/entrecon/internal/errors"
	"github.com/entrecon/entrecon/internal/logger"
	"github.com/entrecon/entrecon/internal/repository/jsonfile"
	"github.com/entrecon/entrecon/internal/service"
	"github.com/entrecon/entrecon/internal/types"
	"github.com/getsentry/sentry-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	subscriptionsFlag  string
	installationsFlag  string
	formatFlag         string
	outputFlag         string
	paramsFlag         string
	afterFlag          string
	beforeFlag         string
	marketplaceFlag    string
	statusFlag         []string
	connectionTypeFlag []string
	quietFlag          bool
)

// GenerateCmd runs the reconciliation report.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the reconciliation report",
	Long: `Generate reads a subscription export and an installation export, resolves
each subscription against the Google entitlement service, and writes the
report to stdout or a file.`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVar(&subscriptionsFlag, "subscriptions", "", "Path to the subscription export (JSON array)")
	GenerateCmd.Flags().StringVar(&installationsFlag, "installations", "", "Path to the extension installation export (JSON array)")
	GenerateCmd.Flags().StringVar(&formatFlag, "format", "csv", "Output format: csv or json")
	GenerateCmd.Flags().StringVar(&outputFlag, "output", "", "Output file (default stdout)")
	GenerateCmd.Flags().StringVar(&paramsFlag, "params", "", "Path to a JSON report parameters file")
	GenerateCmd.Flags().StringVar(&afterFlag, "after", "", "Only subscriptions created at or after this time")
	GenerateCmd.Flags().StringVar(&beforeFlag, "before", "", "Only subscriptions created at or before this time")
	GenerateCmd.Flags().StringVar(&marketplaceFlag, "marketplace", "", "Restrict to one marketplace id")
	GenerateCmd.Flags().StringSliceVar(&statusFlag, "status", nil, "Subscription statuses to include")
	GenerateCmd.Flags().StringSliceVar(&connectionTypeFlag, "connection-type", nil, "Connection types to include")
	GenerateCmd.Flags().BoolVar(&quietFlag, "quiet", false, "Suppress progress output")

	_ = GenerateCmd.MarkFlagRequired("subscriptions")
	_ = GenerateCmd.MarkFlagRequired("installations")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return err
	}

	if cfg.Sentry.Enabled && cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: string(cfg.Deployment.Mode),
		}); err != nil {
			log.Warnw("sentry initialization failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	params, err := buildParams()
	if err != nil {
		return err
	}

	svc := service.NewReportService(service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		SubscriptionRepo: jsonfile.NewSubscriptionRepository(subscriptionsFlag),
		InstallationRepo: jsonfile.NewInstallationRepository(installationsFlag),
	})

	out, closeOut, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	renderer := types.RendererType(formatFlag)
	progress := progressFunc(cmd.ErrOrStderr())

	ctx := types.SetRunID(context.Background(), types.GenerateRunID())
	rows, err := svc.Generate(ctx, params, renderer, progress)
	if err != nil {
		return err
	}

	if renderer == types.RendererTypeJSON {
		return writeJSON(out, rows)
	}
	return writeCSV(out, rows)
}

// buildParams merges the params file with the convenience flags; flags win.
func buildParams() (*types.ReportParams, error) {
	params := &types.ReportParams{}
	if paramsFlag != "" {
		data, err := os.ReadFile(paramsFlag)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("failed to read parameters file %s", paramsFlag).
				Mark(ierr.ErrSystem)
		}
		if err := json.Unmarshal(data, params); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("parameters file %s is not valid JSON", paramsFlag).
				Mark(ierr.ErrValidation)
		}
	}
	if afterFlag != "" || beforeFlag != "" {
		params.Date = &types.DateRangeOption{After: afterFlag, Before: beforeFlag}
	}
	if marketplaceFlag != "" {
		params.Marketplace = &types.ChoiceOption{Choices: []string{marketplaceFlag}}
	}
	if len(statusFlag) > 0 {
		params.Status = &types.ChoiceOption{Choices: statusFlag}
	}
	if len(connectionTypeFlag) > 0 {
		params.ConnectionType = &types.ChoiceOption{Choices: connectionTypeFlag}
	}
	return params, nil
}

func openOutput() (io.Writer, func(), error) {
	if outputFlag == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFlag)
	if err != nil {
		return nil, nil, ierr.WithError(err).
			WithHintf("failed to create output file %s", outputFlag).
			Mark(ierr.ErrSystem)
	}
	return f, func() { _ = f.Close() }, nil
}

func progressFunc(w io.Writer) types.ProgressFunc {
	if quietFlag {
		return nil
	}
	return func(completed, total int) {
		fmt.Fprintf(w, "\rprocessed %d/%d", completed, total)
		if completed == total {
			fmt.Fprintln(w)
		}
	}
}

func writeCSV(out io.Writer, rows iter.Seq[*service.Row]) error {
	w := csv.NewWriter(out)
	for row := range rows {
		if err := w.Write(row.Strings()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeJSON streams the rows as one JSON array of keyed objects.
func writeJSON(out io.Writer, rows iter.Seq[*service.Row]) error {
	if _, err := io.WriteString(out, "["); err != nil {
		return err
	}
	first := true
	for row := range rows {
		if !first {
			if _, err := io.WriteString(out, ","); err != nil {
				return err
			}
		}
		first = false
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	_, err := io.WriteString(out, "]\n")
	return err
}
