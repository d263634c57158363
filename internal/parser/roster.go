package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/UnknownOlympus/charon/internal/lib/apperr"
	"github.com/UnknownOlympus/charon/internal/models"
)

const (
	surnameColumn   = "Surname"
	givenNameColumn = "GivenName"
)

// DefaultCCColumns are the header names accepted for the CC column, in order of preference.
var DefaultCCColumns = []string{"Email", "EmailAddress", "CC", "Cc"} //nolint:gochecknoglobals // defaults

// RosterOptions controls how a roster file is interpreted.
type RosterOptions struct {
	Delimiter rune
	// CCColumns are matched case-insensitively against the header. Empty means DefaultCCColumns.
	CCColumns []string
	// SkipIncomplete drops rows with an empty given name or surname instead of rejecting the roster.
	SkipIncomplete bool
	// RequireCCColumn rejects rosters without any of CCColumns.
	RequireCCColumn bool
}

// DefaultRosterOptions returns comma delimited parsing that skips incomplete rows.
func DefaultRosterOptions() RosterOptions {
	return RosterOptions{
		Delimiter:      ',',
		CCColumns:      DefaultCCColumns,
		SkipIncomplete: true,
	}
}

// RosterParserIface loads the list of employees to offboard.
type RosterParserIface interface {
	ParseRoster() ([]models.Employee, error)
}

// RosterParser reads the roster from a file on disk.
type RosterParser struct {
	path string
	opts RosterOptions
}

func NewRosterParser(path string, opts RosterOptions) RosterParserIface {
	return &RosterParser{path: path, opts: opts}
}

func (rp *RosterParser) ParseRoster() ([]models.Employee, error) {
	return ReadRosterFile(rp.path, rp.opts)
}

// ReadRosterFile opens path and parses it with ReadRoster.
func ReadRosterFile(path string, opts RosterOptions) ([]models.Employee, error) {
	const opn = "parser.ReadRosterFile"

	file, err := os.Open(path)
	if err != nil {
		return nil, apperr.E(apperr.ErrInputFormat, opn, fmt.Errorf("failed to open roster: %w", err))
	}
	defer file.Close()

	return ReadRoster(file, opts)
}

// ReadRoster parses a delimited roster with a header row. A UTF-8 byte order mark is ignored.
func ReadRoster(in io.Reader, opts RosterOptions) ([]models.Employee, error) {
	const opn = "parser.ReadRoster"

	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if len(opts.CCColumns) == 0 {
		opts.CCColumns = DefaultCCColumns
	}

	reader := csv.NewReader(transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = opts.Delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.Errorf(apperr.ErrInputFormat, opn, "roster is empty, header row is required")
	}
	if err != nil {
		return nil, apperr.E(apperr.ErrInputFormat, opn, fmt.Errorf("failed to read header: %w", err))
	}

	surnameIdx, givenIdx, ccIdx, err := resolveColumns(header, opts)
	if err != nil {
		return nil, apperr.E(apperr.ErrInputFormat, opn, err)
	}

	var employees []models.Employee

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, apperr.E(apperr.ErrInputFormat, opn, fmt.Errorf("failed to read roster row: %w", readErr))
		}

		surname := strings.TrimSpace(field(record, surnameIdx))
		given := strings.TrimSpace(field(record, givenIdx))

		if surname == "" || given == "" {
			if opts.SkipIncomplete {
				continue
			}
			line, _ := reader.FieldPos(0)
			return nil, apperr.Errorf(apperr.ErrInputFormat, opn, "line %d: given name and surname are required", line)
		}

		employees = append(employees, models.Employee{
			GivenName: given,
			Surname:   surname,
			CCEmails:  SplitEmails(field(record, ccIdx)),
		})
	}

	return employees, nil
}

// SplitEmails splits a CC cell on ';' and ',', trimming parts and dropping empty ones.
// Order and duplicates are preserved.
func SplitEmails(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})

	emails := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			emails = append(emails, part)
		}
	}

	return emails
}

func resolveColumns(header []string, opts RosterOptions) (int, int, int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	surnameIdx, ok := index[strings.ToLower(surnameColumn)]
	if !ok {
		missing = append(missing, surnameColumn)
	}
	givenIdx, ok := index[strings.ToLower(givenNameColumn)]
	if !ok {
		missing = append(missing, givenNameColumn)
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return 0, 0, 0, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}

	ccIdx := -1
	for _, candidate := range opts.CCColumns {
		if i, found := index[strings.ToLower(strings.TrimSpace(candidate))]; found {
			ccIdx = i
			break
		}
	}
	if ccIdx < 0 && opts.RequireCCColumn {
		return 0, 0, 0, fmt.Errorf("missing CC column, expected one of: %s", strings.Join(opts.CCColumns, ", "))
	}

	return surnameIdx, givenIdx, ccIdx, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return record[idx]
}
