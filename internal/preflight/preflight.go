// Package preflight verifies that the database and the mail relay are reachable before a run.
package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/UnknownOlympus/charon/internal/lib/logger/sl"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusUnreachable = "unreachable"
)

type DBPinger interface {
	Ping(ctx context.Context) error
}

type RelayProber interface {
	Probe(ctx context.Context) error
}

// Status maps each checked dependency to its state.
type Status map[string]string

// Healthy reports whether every check passed.
func (s Status) Healthy() bool {
	for _, state := range s {
		if state != StatusOK {
			return false
		}
	}
	return true
}

// Write encodes the status as a single JSON object.
func (s Status) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to write preflight status: %w", err)
	}
	return nil
}

type Checker struct {
	db    DBPinger
	relay RelayProber
	log   *slog.Logger
}

func NewChecker(db DBPinger, relay RelayProber, log *slog.Logger) *Checker {
	return &Checker{
		db:    db,
		relay: relay,
		log:   log,
	}
}

// Check runs every probe, even after a failure, and returns the collected status.
func (c *Checker) Check(ctx context.Context) Status {
	c.log.DebugContext(ctx, "Performing preflight checks...")

	status := make(Status)

	if err := c.db.Ping(ctx); err != nil {
		status["database"] = StatusUnavailable
		c.log.WarnContext(ctx, "Preflight failed: DB ping", sl.Err(err))
	} else {
		status["database"] = StatusOK
	}

	if err := c.relay.Probe(ctx); err != nil {
		status["relay"] = StatusUnreachable
		c.log.WarnContext(ctx, "Preflight failed: mail relay unreachable", sl.Err(err))
	} else {
		status["relay"] = StatusOK
	}

	c.log.DebugContext(ctx, "Preflight checks completed", "healthy", status.Healthy())

	return status
}
