package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/charon/internal/lib/apperr"
	"github.com/UnknownOlympus/charon/internal/models"
)

// hardwareByEmployeeQuery matches on trimmed names on both sides, so padding in either the
// roster or the employee table does not hide assets.
const hardwareByEmployeeQuery = `
		SELECT
			COALESCE(va.manufacturer_name, '')  AS "ManufacturerName",
			COALESCE(va.device_description, '') AS "DeviceDescription",
			COALESCE(va.type_description, '')   AS "TypeDescription",
			COALESCE(a.description, '')         AS "Description",
			COALESCE(a.serial_no, '')           AS "SerialNo",
			COALESCE(e.surname, '')             AS "Surname",
			COALESCE(e.given_name, '')          AS "GivenName",
			COALESCE(e.location, '')            AS "Location",
			COALESCE(e.manager_ad_login, '')    AS "ManagerADLogin"
		FROM assets AS a
		JOIN asset_list AS va
			ON va.id = a.id
		JOIN employee AS e
			ON va.employee_id = e.id
		WHERE
			TRIM(e.given_name) = TRIM($1)
			AND TRIM(e.surname) = TRIM($2)
		ORDER BY va.manufacturer_name, a.serial_no;
	`

// GetHardwareByEmployee returns every asset assigned to the employee with the given names.
// An employee without hardware yields an empty, non-nil slice.
func (r *Repository) GetHardwareByEmployee(
	ctx context.Context,
	givenName, surname string,
) ([]models.HardwareAsset, error) {
	const opn = "repository.GetHardwareByEmployee"

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.DBQueryDuration.WithLabelValues("get_hardware_by_employee").Observe(duration)
	}()

	rows, err := r.db.Query(ctx, hardwareByEmployeeQuery, givenName, surname)
	if err != nil {
		return nil, apperr.E(apperr.ErrQuery, opn, fmt.Errorf("failed to query hardware: %w", err))
	}
	defer rows.Close()

	assets := make([]models.HardwareAsset, 0)
	for rows.Next() {
		var asset models.HardwareAsset
		if err = rows.Scan(
			&asset.Manufacturer,
			&asset.DeviceDescription,
			&asset.TypeDescription,
			&asset.AssetDescription,
			&asset.SerialNo,
			&asset.Surname,
			&asset.GivenName,
			&asset.Location,
			&asset.ManagerLogin,
		); err != nil {
			return nil, apperr.E(apperr.ErrQuery, opn, fmt.Errorf("failed to scan hardware row: %w", err))
		}
		assets = append(assets, asset)
	}

	if err = rows.Err(); err != nil {
		return nil, apperr.E(apperr.ErrQuery, opn, fmt.Errorf("failed to iterate hardware rows: %w", err))
	}

	return assets, nil
}
