package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/UnknownOlympus/charon/internal/notifier"
	"github.com/UnknownOlympus/charon/internal/preflight"
	"github.com/UnknownOlympus/charon/internal/repository"
)

var errPreflightFailed = errors.New("preflight check failed")

// unreachableDB reports the connection error for every ping.
type unreachableDB struct {
	err error
}

func (u unreachableDB) Ping(_ context.Context) error {
	return u.err
}

func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the asset database and the mail relay are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := setupLogger(cfg.Env)

			var pinger preflight.DBPinger
			dtb, dbErr := repository.NewDatabase(ctx, cfg.Postgres)
			if dbErr != nil {
				pinger = unreachableDB{err: dbErr}
			} else {
				defer dtb.Close()
				pinger = dtb
			}

			checker := preflight.NewChecker(pinger, notifier.NewSMTPSender(smtpConfig(cfg.SMTP)), logger)
			status := checker.Check(ctx)
			if err = status.Write(cmd.OutOrStdout()); err != nil {
				return err
			}
			if !status.Healthy() {
				return errPreflightFailed
			}

			return nil
		},
	}
}
