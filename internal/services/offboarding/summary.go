package offboarding

import (
	"fmt"
	"io"

	"github.com/UnknownOlympus/charon/internal/models"
	"github.com/UnknownOlympus/charon/internal/report"
)

// Stage names the step of the per-employee pipeline that failed.
type Stage string

const (
	StageQuery  Stage = "query"
	StageWrite  Stage = "write"
	StageNotify Stage = "notify"
)

// Result is the outcome of processing a single employee.
type Result struct {
	Employee    models.Employee
	Assets      int
	Files       report.Files
	Recipient   string
	RowsWritten int
	EmailSent   bool
	Stage       Stage
	Err         error
}

type Failure struct {
	Employee models.Employee
	Stage    Stage
	Err      error
}

// Summary aggregates the results of a run.
type Summary struct {
	EmployeesProcessed int
	EmailsSent         int
	RowsWritten        int
	Failures           []Failure
	CombinedPath       string
	ArchivedTo         string
	ArchiveErr         error
}

func (s *Summary) record(result Result) {
	s.EmployeesProcessed++
	s.RowsWritten += result.RowsWritten
	if result.EmailSent {
		s.EmailsSent++
	}
	if result.Err != nil {
		s.Failures = append(s.Failures, Failure{
			Employee: result.Employee,
			Stage:    result.Stage,
			Err:      result.Err,
		})
	}
}

// Print writes a human-readable report of the run to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Employees processed: %d\n", s.EmployeesProcessed)
	fmt.Fprintf(w, "Emails sent:         %d\n", s.EmailsSent)
	fmt.Fprintf(w, "Rows written:        %d\n", s.RowsWritten)
	if s.CombinedPath != "" {
		fmt.Fprintf(w, "Combined file:       %s\n", s.CombinedPath)
	}

	for _, failure := range s.Failures {
		fmt.Fprintf(w, "FAILED %s [%s]: %v\n", failure.Employee.FullName(), failure.Stage, failure.Err)
	}

	switch {
	case s.ArchiveErr != nil:
		fmt.Fprintf(w, "Archive: FAILED: %v\n", s.ArchiveErr)
	case s.ArchivedTo != "":
		fmt.Fprintf(w, "Archive: uploaded to %s\n", s.ArchivedTo)
	}
}
