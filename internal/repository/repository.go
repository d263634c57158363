package repository

import (
	"context"

	"github.com/UnknownOlympus/charon/internal/metrics"
	"github.com/UnknownOlympus/charon/internal/models"
)

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// HardwareRepoIface represents the interface for looking up the hardware assigned to an employee.
type HardwareRepoIface interface {
	GetHardwareByEmployee(ctx context.Context, givenName, surname string) ([]models.HardwareAsset, error)
}

func NewHardwareRepository(db Database, metrics *metrics.Metrics) HardwareRepoIface {
	return &Repository{db: db, metrics: metrics}
}
