package offboarding_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/UnknownOlympus/charon/internal/lib/apperr"
	"github.com/UnknownOlympus/charon/internal/metrics"
	"github.com/UnknownOlympus/charon/internal/models"
	"github.com/UnknownOlympus/charon/internal/notifier"
	"github.com/UnknownOlympus/charon/internal/parser"
	"github.com/UnknownOlympus/charon/internal/report"
	"github.com/UnknownOlympus/charon/internal/services/offboarding"
	mocks "github.com/UnknownOlympus/charon/mock"
)

var (
	alice = models.Employee{GivenName: "Alice", Surname: "Smith", CCEmails: []string{"hr@corp.com"}}
	bob   = models.Employee{GivenName: "Bob", Surname: "Jones"}
	carol = models.Employee{GivenName: "Carol", Surname: "White"}
)

func laptop(emp models.Employee, serial string) models.HardwareAsset {
	return models.HardwareAsset{
		Manufacturer:      "Dell",
		DeviceDescription: "Latitude 7440",
		TypeDescription:   "Laptop",
		SerialNo:          serial,
		Surname:           emp.Surname,
		GivenName:         emp.GivenName,
		Location:          "HQ",
		ManagerLogin:      "jdoe",
	}
}

type fixture struct {
	roster   *mocks.RosterParserIface
	repo     *mocks.HardwareRepoIface
	writer   *mocks.WriterIface
	notifier *mocks.NotifierIface
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return &fixture{
		roster:   mocks.NewRosterParserIface(t),
		repo:     mocks.NewHardwareRepoIface(t),
		writer:   mocks.NewWriterIface(t),
		notifier: mocks.NewNotifierIface(t),
		metrics:  metrics.NewMetrics(prometheus.NewRegistry()),
	}
}

func (f *fixture) service(opts offboarding.Options) *offboarding.Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return offboarding.NewService(logger, opts, f.roster, f.repo, f.writer, f.notifier, f.metrics)
}

func filesFor(emp models.Employee, rows int) report.Files {
	return report.Files{
		CSVPath:  "out/hardware_" + report.SafeName(emp) + ".csv",
		XLSXPath: "out/hardware_" + report.SafeName(emp) + ".xlsx",
		Rows:     rows,
	}
}

func TestRun_AllSucceed(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	aliceAssets := []models.HardwareAsset{laptop(alice, "SN1"), laptop(alice, "SN2")}
	bobAssets := []models.HardwareAsset{laptop(bob, "SN3")}

	f.roster.On("ParseRoster").Return([]models.Employee{alice, bob}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")
	f.writer.On("ResetCombined").Return(nil).Once()

	f.repo.On("GetHardwareByEmployee", ctx, "Alice", "Smith").Return(aliceAssets, nil).Once()
	f.repo.On("GetHardwareByEmployee", ctx, "Bob", "Jones").Return(bobAssets, nil).Once()
	f.writer.On("WriteEmployee", alice, aliceAssets).Return(filesFor(alice, 2), nil).Once()
	f.writer.On("WriteEmployee", bob, bobAssets).Return(filesFor(bob, 1), nil).Once()
	f.notifier.On("Notify", ctx, alice, aliceAssets, filesFor(alice, 2).XLSXPath).
		Return("alice.smith@corp.com", nil).Once()
	f.notifier.On("Notify", ctx, bob, bobAssets, filesFor(bob, 1).XLSXPath).
		Return("bob.jones@corp.com", nil).Once()

	summary, err := f.service(offboarding.Options{ResetCombined: true}).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.EmployeesProcessed)
	assert.Equal(t, 2, summary.EmailsSent)
	assert.Equal(t, 3, summary.RowsWritten)
	assert.Empty(t, summary.Failures)
	assert.Equal(t, "hardwareOutput.csv", summary.CombinedPath)

	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.EmployeesProcessed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.EmailsSent), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(f.metrics.RowsWritten), 0)
	assert.Positive(t, testutil.ToFloat64(f.metrics.LastRun))
}

func TestRun_QueryFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	aliceAssets := []models.HardwareAsset{laptop(alice, "SN1")}
	carolAssets := []models.HardwareAsset{laptop(carol, "SN9")}
	queryErr := apperr.E(apperr.ErrQuery, "repository.GetHardwareByEmployee", errors.New("connection reset"))

	f.roster.On("ParseRoster").Return([]models.Employee{alice, bob, carol}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")

	f.repo.On("GetHardwareByEmployee", ctx, "Alice", "Smith").Return(aliceAssets, nil).Once()
	f.repo.On("GetHardwareByEmployee", ctx, "Bob", "Jones").Return(nil, queryErr).Once()
	f.repo.On("GetHardwareByEmployee", ctx, "Carol", "White").Return(carolAssets, nil).Once()
	f.writer.On("WriteEmployee", alice, aliceAssets).Return(filesFor(alice, 1), nil).Once()
	f.writer.On("WriteEmployee", carol, carolAssets).Return(filesFor(carol, 1), nil).Once()
	f.notifier.On("Notify", ctx, alice, aliceAssets, mock.Anything).Return("alice.smith@corp.com", nil).Once()
	f.notifier.On("Notify", ctx, carol, carolAssets, mock.Anything).Return("carol.white@corp.com", nil).Once()

	summary, err := f.service(offboarding.Options{}).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.EmployeesProcessed)
	assert.Equal(t, 2, summary.EmailsSent)
	assert.Equal(t, 2, summary.RowsWritten)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, bob, summary.Failures[0].Employee)
	assert.Equal(t, offboarding.StageQuery, summary.Failures[0].Stage)
	require.ErrorIs(t, summary.Failures[0].Err, apperr.ErrQuery)

	f.writer.AssertNotCalled(t, "WriteEmployee", bob, mock.Anything)
	f.writer.AssertNotCalled(t, "ResetCombined")
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Failures.WithLabelValues("query")), 0)
}

func TestRun_WriteFailureSkipsNotify(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	assets := []models.HardwareAsset{laptop(alice, "SN1")}
	writeErr := apperr.E(apperr.ErrWrite, "report.WriteEmployee", os.ErrPermission)

	f.roster.On("ParseRoster").Return([]models.Employee{alice}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")
	f.repo.On("GetHardwareByEmployee", ctx, "Alice", "Smith").Return(assets, nil).Once()
	f.writer.On("WriteEmployee", alice, assets).Return(report.Files{}, writeErr).Once()

	summary, err := f.service(offboarding.Options{}).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.EmployeesProcessed)
	assert.Zero(t, summary.EmailsSent)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, offboarding.StageWrite, summary.Failures[0].Stage)
	require.ErrorIs(t, summary.Failures[0].Err, os.ErrPermission)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_NotifyFailureKeepsRows(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	assets := []models.HardwareAsset{laptop(alice, "SN1"), laptop(alice, "SN2")}
	sendErr := apperr.E(apperr.ErrDelivery, "notifier.Notify", errors.New("554 relay refused"))

	f.roster.On("ParseRoster").Return([]models.Employee{alice}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")
	f.repo.On("GetHardwareByEmployee", ctx, "Alice", "Smith").Return(assets, nil).Once()
	f.writer.On("WriteEmployee", alice, assets).Return(filesFor(alice, 2), nil).Once()
	f.notifier.On("Notify", ctx, alice, assets, mock.Anything).Return("alice.smith@corp.com", sendErr).Once()

	summary, err := f.service(offboarding.Options{}).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsWritten)
	assert.Zero(t, summary.EmailsSent)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, offboarding.StageNotify, summary.Failures[0].Stage)
	assert.Equal(t, apperr.ErrDelivery, apperr.KindOf(summary.Failures[0].Err))
}

func TestRun_ZeroRowsStillNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	f.roster.On("ParseRoster").Return([]models.Employee{bob}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")
	f.repo.On("GetHardwareByEmployee", ctx, "Bob", "Jones").Return([]models.HardwareAsset{}, nil).Once()
	f.writer.On("WriteEmployee", bob, []models.HardwareAsset{}).Return(filesFor(bob, 0), nil).Once()
	f.notifier.On("Notify", ctx, bob, []models.HardwareAsset{}, filesFor(bob, 0).XLSXPath).
		Return("bob.jones@corp.com", nil).Once()

	summary, err := f.service(offboarding.Options{}).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.EmailsSent)
	assert.Zero(t, summary.RowsWritten)
	assert.Empty(t, summary.Failures)
}

func TestRun_RosterErrorAbortsBeforeAnyWork(t *testing.T) {
	f := newFixture(t)

	rosterErr := apperr.Errorf(apperr.ErrInputFormat, "parser.ReadRoster", "line 3: missing Surname")
	f.roster.On("ParseRoster").Return(nil, rosterErr).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")

	summary, err := f.service(offboarding.Options{ResetCombined: true}).Run(t.Context())

	require.ErrorIs(t, err, apperr.ErrInputFormat)
	assert.Zero(t, summary.EmployeesProcessed)
	f.writer.AssertNotCalled(t, "ResetCombined")
	f.repo.AssertNotCalled(t, "GetHardwareByEmployee", mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ResetFailureAborts(t *testing.T) {
	f := newFixture(t)

	f.roster.On("ParseRoster").Return([]models.Employee{alice}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")
	f.writer.On("ResetCombined").Return(apperr.E(apperr.ErrWrite, "report.ResetCombined", os.ErrPermission)).Once()

	_, err := f.service(offboarding.Options{ResetCombined: true}).Run(t.Context())

	require.ErrorIs(t, err, apperr.ErrWrite)
	f.repo.AssertNotCalled(t, "GetHardwareByEmployee", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_EmptyRoster(t *testing.T) {
	f := newFixture(t)

	f.roster.On("ParseRoster").Return([]models.Employee{}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")

	summary, err := f.service(offboarding.Options{ResetCombined: true}).Run(t.Context())

	require.NoError(t, err)
	assert.Zero(t, summary.EmployeesProcessed)
	assert.Zero(t, summary.EmailsSent)
	assert.Zero(t, summary.RowsWritten)
}

func TestRun_CancelledBetweenEmployees(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	assets := []models.HardwareAsset{laptop(alice, "SN1")}

	f.roster.On("ParseRoster").Return([]models.Employee{alice, bob}, nil).Once()
	f.writer.On("CombinedPath").Return("hardwareOutput.csv")
	f.repo.On("GetHardwareByEmployee", ctx, "Alice", "Smith").Return(assets, nil).Once()
	f.writer.On("WriteEmployee", alice, assets).Return(filesFor(alice, 1), nil).Once()
	f.notifier.On("Notify", ctx, alice, assets, mock.Anything).
		Run(func(_ mock.Arguments) { cancel() }).
		Return("alice.smith@corp.com", nil).Once()

	summary, err := f.service(offboarding.Options{}).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.EmployeesProcessed)
	assert.Equal(t, 1, summary.EmailsSent)
	f.repo.AssertNotCalled(t, "GetHardwareByEmployee", mock.Anything, "Bob", "Jones")
}

func TestRun_ArchivesCombinedFile(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	uploader := mocks.NewUploaderIface(t)

	combined := filepath.Join(t.TempDir(), "hardwareOutput.csv")
	require.NoError(t, os.WriteFile(combined, []byte("header\n"), 0o600))

	f.roster.On("ParseRoster").Return([]models.Employee{bob}, nil).Once()
	f.writer.On("CombinedPath").Return(combined)
	f.repo.On("GetHardwareByEmployee", ctx, "Bob", "Jones").Return([]models.HardwareAsset{}, nil).Once()
	f.writer.On("WriteEmployee", bob, []models.HardwareAsset{}).Return(filesFor(bob, 0), nil).Once()
	f.notifier.On("Notify", ctx, bob, []models.HardwareAsset{}, mock.Anything).Return("bob.jones@corp.com", nil).Once()
	uploader.On("Upload", ctx, combined).Return("/audit/hardwareOutput_20240101-120000.csv", nil).Once()

	summary, err := f.service(offboarding.Options{}).WithArchiver(uploader).Run(ctx)

	require.NoError(t, err)
	require.NoError(t, summary.ArchiveErr)
	assert.Equal(t, "/audit/hardwareOutput_20240101-120000.csv", summary.ArchivedTo)
}

func TestRun_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	uploader := mocks.NewUploaderIface(t)

	combined := filepath.Join(t.TempDir(), "hardwareOutput.csv")
	require.NoError(t, os.WriteFile(combined, []byte("header\n"), 0o600))

	f.roster.On("ParseRoster").Return([]models.Employee{bob}, nil).Once()
	f.writer.On("CombinedPath").Return(combined)
	f.repo.On("GetHardwareByEmployee", ctx, "Bob", "Jones").Return([]models.HardwareAsset{}, nil).Once()
	f.writer.On("WriteEmployee", bob, []models.HardwareAsset{}).Return(filesFor(bob, 0), nil).Once()
	f.notifier.On("Notify", ctx, bob, []models.HardwareAsset{}, mock.Anything).Return("bob.jones@corp.com", nil).Once()
	uploader.On("Upload", ctx, combined).Return("", assert.AnError).Once()

	summary, err := f.service(offboarding.Options{}).WithArchiver(uploader).Run(ctx)

	require.NoError(t, err)
	require.ErrorIs(t, summary.ArchiveErr, assert.AnError)
	assert.Equal(t, 1, summary.EmailsSent)
}

type captureSender struct {
	sent []*gomail.Msg
}

func (c *captureSender) Send(_ context.Context, msg *gomail.Msg) error {
	c.sent = append(c.sent, msg)
	return nil
}

// The real parser, writer and notifier are wired together; only the database is mocked.
func TestRun_EndToEndWithRealCollaborators(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	rosterPath := filepath.Join(dir, "CSVInput.csv")
	roster := "Surname,GivenName,Email\n" +
		"Smith,Alice,hr@corp.com\n" +
		" ,Ghost,\n" +
		"Jones,Bob,\n"
	require.NoError(t, os.WriteFile(rosterPath, []byte(roster), 0o600))

	repo := mocks.NewHardwareRepoIface(t)
	aliceAssets := []models.HardwareAsset{laptop(alice, "SN1"), laptop(alice, "SN2")}
	repo.On("GetHardwareByEmployee", ctx, "Alice", "Smith").Return(aliceAssets, nil).Once()
	repo.On("GetHardwareByEmployee", ctx, "Bob", "Jones").Return([]models.HardwareAsset{}, nil).Once()

	combined := filepath.Join(dir, "hardwareOutput.csv")
	writer := report.NewWriter(dir, combined, ',')
	sender := &captureSender{}
	mailer := notifier.NewNotifier(logger, notifier.Options{
		Sender:          "it@corp.com",
		Subject:         "Hardware Return",
		RecipientDomain: "corp.com",
	}, sender)

	service := offboarding.NewService(
		logger,
		offboarding.Options{ResetCombined: true},
		parser.NewRosterParser(rosterPath, parser.DefaultRosterOptions()),
		repo,
		writer,
		mailer,
		metrics.NewMetrics(prometheus.NewRegistry()),
	)

	summary, err := service.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.EmployeesProcessed)
	assert.Equal(t, 2, summary.EmailsSent)
	assert.Equal(t, 2, summary.RowsWritten)
	require.Len(t, sender.sent, 2)
	repo.AssertNumberOfCalls(t, "GetHardwareByEmployee", 2)

	rows, err := report.ReadCSV(combined, ',')
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.HardwareColumns, rows[0])
	assert.Equal(t, "SN1", rows[1][4])
	assert.Equal(t, "SN2", rows[2][4])

	assert.FileExists(t, filepath.Join(dir, "hardware_Alice_Smith.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "hardware_Bob_Jones.xlsx"))
}

func TestRun_MissingSurnameColumnTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	rosterPath := filepath.Join(dir, "CSVInput.csv")
	require.NoError(t, os.WriteFile(rosterPath, []byte("GivenName,Email\nAlice,hr@corp.com\n"), 0o600))

	combined := filepath.Join(dir, "hardwareOutput.csv")
	require.NoError(t, os.WriteFile(combined, []byte("previous run\n"), 0o600))

	repo := mocks.NewHardwareRepoIface(t)
	mailer := mocks.NewNotifierIface(t)

	service := offboarding.NewService(
		logger,
		offboarding.Options{ResetCombined: true},
		parser.NewRosterParser(rosterPath, parser.DefaultRosterOptions()),
		repo,
		report.NewWriter(dir, combined, ','),
		mailer,
		metrics.NewMetrics(prometheus.NewRegistry()),
	)

	summary, err := service.Run(t.Context())

	require.ErrorIs(t, err, apperr.ErrInputFormat)
	require.ErrorContains(t, err, "Surname")
	assert.Zero(t, summary.EmployeesProcessed)
	assert.FileExists(t, combined)
	assert.NoFileExists(t, filepath.Join(dir, "hardware_Alice_.csv"))
	repo.AssertNotCalled(t, "GetHardwareByEmployee", mock.Anything, mock.Anything, mock.Anything)
}

func TestSummary_Print(t *testing.T) {
	t.Parallel()

	summary := offboarding.Summary{
		EmployeesProcessed: 3,
		EmailsSent:         2,
		RowsWritten:        5,
		CombinedPath:       "hardwareOutput.csv",
		Failures: []offboarding.Failure{
			{Employee: bob, Stage: offboarding.StageQuery, Err: errors.New("timeout")},
		},
		ArchiveErr: errors.New("host unreachable"),
	}

	var buf bytes.Buffer
	summary.Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "Employees processed: 3")
	assert.Contains(t, out, "Emails sent:         2")
	assert.Contains(t, out, "Rows written:        5")
	assert.Contains(t, out, "Combined file:       hardwareOutput.csv")
	assert.Contains(t, out, "FAILED Bob Jones [query]: timeout")
	assert.Contains(t, out, "Archive: FAILED: host unreachable")
}
