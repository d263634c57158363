package main

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/UnknownOlympus/charon/internal/archive"
	"github.com/UnknownOlympus/charon/internal/config"
	"github.com/UnknownOlympus/charon/internal/lib/logger/sl"
	"github.com/UnknownOlympus/charon/internal/metrics"
	"github.com/UnknownOlympus/charon/internal/notifier"
	"github.com/UnknownOlympus/charon/internal/parser"
	"github.com/UnknownOlympus/charon/internal/report"
	"github.com/UnknownOlympus/charon/internal/repository"
	"github.com/UnknownOlympus/charon/internal/services/offboarding"
)

type runFlags struct {
	rosterPath   string
	keepCombined bool
}

func newRunCmd(configPath *string) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every employee of the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if flags.rosterPath != "" {
				cfg.Input.RosterPath = flags.rosterPath
			}
			if flags.keepCombined {
				cfg.Output.ResetCombined = false
			}

			return runOffboarding(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&flags.rosterPath, "roster", "", "Roster CSV overriding input.roster_path")
	cmd.Flags().BoolVar(&flags.keepCombined, "keep-combined", false,
		"Append to the existing combined file instead of deleting it first")

	return cmd
}

func runOffboarding(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	runID := uuid.NewString()
	logger := setupLogger(cfg.Env).With(slog.String("run_id", runID))

	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(ctx, cfg.Postgres)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to DB", sl.Err(err))
		return err
	}
	defer dtb.Close()

	rosterOpts := parser.RosterOptions{
		Delimiter:       cfg.Input.Delimiter,
		CCColumns:       cfg.Input.CCColumns,
		SkipIncomplete:  cfg.Input.SkipIncomplete,
		RequireCCColumn: cfg.Input.RequireCCColumn,
	}
	sender := notifier.NewSMTPSender(smtpConfig(cfg.SMTP))
	mailer := notifier.NewNotifier(logger, notifier.Options{
		Sender:          cfg.Mail.Sender,
		Subject:         cfg.Mail.Subject,
		RecipientDomain: cfg.Mail.RecipientDomain,
		Note:            cfg.Mail.Note,
	}, sender)

	service := offboarding.NewService(
		logger,
		offboarding.Options{ResetCombined: cfg.Output.ResetCombined},
		parser.NewRosterParser(cfg.Input.RosterPath, rosterOpts),
		repository.NewHardwareRepository(dtb, appMetrics),
		report.NewWriter(cfg.Output.Dir, cfg.Output.CombinedPath, cfg.Input.Delimiter),
		mailer,
		appMetrics,
	)
	if cfg.Archive.SFTP.Host != "" {
		service.WithArchiver(archive.NewUploader(archiveConfig(cfg.Archive.SFTP)))
	}

	summary, runErr := service.Run(ctx)

	flushMetrics(cmd, logger, cfg.Metrics, appMetrics, runID)
	summary.Print(cmd.OutOrStdout())

	if runErr != nil {
		logger.ErrorContext(ctx, "Offboarding run failed", sl.Err(runErr))
		return runErr
	}

	return nil
}

// flushMetrics hands the run metrics to the configured sinks. Failures are only logged.
func flushMetrics(cmd *cobra.Command, logger *slog.Logger, cfg config.MetricsConfig, m *metrics.Metrics, runID string) {
	ctx := cmd.Context()

	if cfg.PushgatewayURL != "" {
		if err := m.Push(cfg.PushgatewayURL, cfg.Job, runID); err != nil {
			logger.WarnContext(ctx, "Failed to push metrics", sl.Err(err))
		}
	}
	if cfg.TextfilePath != "" {
		if err := m.WriteTextfile(cfg.TextfilePath); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics textfile", sl.Err(err))
		}
	}
}

func smtpConfig(cfg config.SMTPConfig) notifier.SMTPConfig {
	return notifier.SMTPConfig{
		Host:    cfg.Host,
		Port:    cfg.Port,
		HELO:    cfg.HELO,
		Timeout: cfg.Timeout,
	}
}

func archiveConfig(cfg config.SFTPConfig) archive.Config {
	return archive.Config{
		Host:                  cfg.Host,
		Port:                  cfg.Port,
		User:                  cfg.User,
		Password:              cfg.Password,
		RemoteDir:             cfg.RemoteDir,
		KnownHosts:            cfg.KnownHosts,
		InsecureIgnoreHostKey: cfg.InsecureIgnoreHostKey,
	}
}
