package offboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/UnknownOlympus/charon/internal/archive"
	"github.com/UnknownOlympus/charon/internal/lib/logger/sl"
	"github.com/UnknownOlympus/charon/internal/metrics"
	"github.com/UnknownOlympus/charon/internal/models"
	"github.com/UnknownOlympus/charon/internal/notifier"
	"github.com/UnknownOlympus/charon/internal/parser"
	"github.com/UnknownOlympus/charon/internal/report"
	"github.com/UnknownOlympus/charon/internal/repository"
)

// Options are fixed for the lifetime of a Service.
type Options struct {
	ResetCombined bool
}

type Service struct {
	log      *slog.Logger
	opts     Options
	roster   parser.RosterParserIface
	repo     repository.HardwareRepoIface
	writer   report.WriterIface
	notifier notifier.NotifierIface
	archiver archive.UploaderIface
	metrics  *metrics.Metrics
}

func NewService(
	log *slog.Logger,
	opts Options,
	roster parser.RosterParserIface,
	repo repository.HardwareRepoIface,
	writer report.WriterIface,
	notifier notifier.NotifierIface,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		log:      log,
		opts:     opts,
		roster:   roster,
		repo:     repo,
		writer:   writer,
		notifier: notifier,
		metrics:  metrics,
	}
}

// WithArchiver enables the upload of the combined file once every employee is processed.
func (s *Service) WithArchiver(archiver archive.UploaderIface) *Service {
	s.archiver = archiver
	return s
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "offboarding"),
	)
}

// Run loads the roster and processes every employee in roster order.
//
// A roster that cannot be loaded, or a combined file that cannot be reset, aborts the run
// before any employee is touched. Failures of a single employee are recorded in the summary
// and the run moves on to the next one.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	const opn = "Offboarding.Run"
	log := s.initLogger(opn)

	summary := Summary{CombinedPath: s.writer.CombinedPath()}
	defer func() { s.metrics.MarkRun(time.Now()) }()

	employees, err := s.roster.ParseRoster()
	if err != nil {
		return summary, fmt.Errorf("failed to load roster: %w", err)
	}
	if len(employees) == 0 {
		log.WarnContext(ctx, "No valid employees found in roster. Nothing to do.")
		return summary, nil
	}

	if s.opts.ResetCombined {
		if err = s.writer.ResetCombined(); err != nil {
			return summary, fmt.Errorf("failed to reset combined file: %w", err)
		}
	}

	log.InfoContext(ctx, "Starting offboarding run", "employees", len(employees))

	for idx, employee := range employees {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.WarnContext(ctx, "Run interrupted", "processed", idx, "of", len(employees))
			return summary, fmt.Errorf("run interrupted after %d of %d employees: %w", idx, len(employees), ctxErr)
		}

		result := s.ProcessEmployee(ctx, employee)
		summary.record(result)
		s.observe(result)

		if result.Err != nil {
			log.ErrorContext(ctx, "Employee processing failed",
				"employee", employee.FullName(), "stage", string(result.Stage), sl.Err(result.Err))
		}
	}

	if s.archiver != nil {
		s.archive(ctx, log, &summary)
	}

	log.InfoContext(ctx, "Offboarding run finished",
		"processed", summary.EmployeesProcessed,
		"emails_sent", summary.EmailsSent,
		"rows_written", summary.RowsWritten,
		"failures", len(summary.Failures),
	)

	return summary, nil
}

// ProcessEmployee runs query, report and notification for one employee and reports where it stopped.
func (s *Service) ProcessEmployee(ctx context.Context, employee models.Employee) Result {
	const opn = "Offboarding.ProcessEmployee"
	log := s.initLogger(opn).With("employee", employee.FullName())

	result := Result{Employee: employee}

	assets, err := s.repo.GetHardwareByEmployee(ctx, employee.GivenName, employee.Surname)
	if err != nil {
		result.Stage, result.Err = StageQuery, err
		return result
	}
	result.Assets = len(assets)

	files, err := s.writer.WriteEmployee(employee, assets)
	result.Files = files
	if err != nil {
		result.Stage, result.Err = StageWrite, err
		return result
	}
	result.RowsWritten = files.Rows

	recipient, err := s.notifier.Notify(ctx, employee, assets, files.XLSXPath)
	result.Recipient = recipient
	if err != nil {
		result.Stage, result.Err = StageNotify, err
		return result
	}
	result.EmailSent = true

	log.InfoContext(ctx, "Sent offboarding email",
		"to", recipient,
		"cc", employee.CCEmails,
		"rows", len(assets),
		"attachment", files.XLSXPath,
	)

	return result
}

func (s *Service) observe(result Result) {
	s.metrics.EmployeesProcessed.Inc()
	s.metrics.RowsWritten.Add(float64(result.RowsWritten))
	if result.EmailSent {
		s.metrics.EmailsSent.Inc()
	}
	if result.Err != nil {
		s.metrics.Failures.WithLabelValues(string(result.Stage)).Inc()
	}
}

func (s *Service) archive(ctx context.Context, log *slog.Logger, summary *Summary) {
	if _, err := os.Stat(summary.CombinedPath); errors.Is(err, os.ErrNotExist) {
		return
	}

	remotePath, err := s.archiver.Upload(ctx, summary.CombinedPath)
	if err != nil {
		summary.ArchiveErr = err
		log.ErrorContext(ctx, "Failed to archive combined file", sl.Err(err))
		return
	}

	summary.ArchivedTo = remotePath
	log.InfoContext(ctx, "Archived combined file", "remote_path", remotePath)
}
