package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/domain"
	internal_errors "github.com/repospector/repospector/shared/errors"
)

const inspectionNotFound = "Inspection not found"

const inspectionColumns = `id, owner_id, project_name, address, city_county, date, report_type,
	notes, content, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInspection(row rowScanner) (domain.Inspection, error) {
	var in domain.Inspection
	var content []byte
	err := row.Scan(&in.Id, &in.OwnerId, &in.ProjectName, &in.Address, &in.CityCounty, &in.Date,
		&in.ReportType, &in.Notes, &content, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return domain.Inspection{}, err
	}
	if content != nil {
		in.Content = content
	}
	return in, nil
}

// jsonbArg maps an empty document to SQL NULL.
func jsonbArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// =========================================================================
// Public Methods (satisfy service.InspectionStorage)
// Every read and write filters by both id and owner. A foreign record is
// reported exactly like a missing one.
// =========================================================================

func (s *Storage) CreateInspection(ctx context.Context, data domain.InspectionCreationData) (domain.Inspection, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO inspections(id, owner_id, project_name, address, city_county, date, report_type, notes, content)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		RETURNING `+inspectionColumns,
		uuid.New(), data.OwnerId, data.ProjectName, data.Address, data.CityCounty, data.Date,
		data.ReportType, data.Notes, jsonbArg(data.Content),
	)
	in, err := scanInspection(row)
	if err != nil {
		return domain.Inspection{}, fmt.Errorf("failed to insert inspection: %w", err)
	}
	return in, nil
}

func (s *Storage) Inspection(ctx context.Context, id domain.InspectionId, owner domain.UserId) (domain.Inspection, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+inspectionColumns+" FROM inspections WHERE id = $1 AND owner_id = $2", id, owner)
	in, err := scanInspection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Inspection{}, internal_errors.NotFound(inspectionNotFound)
		}
		return domain.Inspection{}, fmt.Errorf("failed to query inspection: %w", err)
	}
	return in, nil
}

// Inspections lists every record of owner, newest first.
func (s *Storage) Inspections(ctx context.Context, owner domain.UserId) ([]domain.Inspection, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+inspectionColumns+" FROM inspections WHERE owner_id = $1 ORDER BY date DESC, created_at DESC", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query inspections: %w", err)
	}
	defer rows.Close()

	inspections := make([]domain.Inspection, 0)
	for rows.Next() {
		in, err := scanInspection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		inspections = append(inspections, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inspections: %w", err)
	}
	return inspections, nil
}

// UpdateInspection applies patch in a single statement. Nil fields keep their value.
func (s *Storage) UpdateInspection(ctx context.Context, id domain.InspectionId, owner domain.UserId, patch domain.InspectionPatch) (domain.Inspection, error) {
	var reportType any
	if patch.ReportType != nil {
		reportType = string(*patch.ReportType)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE inspections SET
			project_name = COALESCE($3, project_name),
			address      = COALESCE($4, address),
			city_county  = COALESCE($5, city_county),
			date         = COALESCE($6, date),
			report_type  = COALESCE($7, report_type),
			notes        = COALESCE($8, notes),
			content      = COALESCE($9::jsonb, content),
			updated_at   = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING `+inspectionColumns,
		id, owner, patch.ProjectName, patch.Address, patch.CityCounty, patch.Date,
		reportType, patch.Notes, jsonbArg(patch.Content),
	)
	in, err := scanInspection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Inspection{}, internal_errors.NotFound(inspectionNotFound)
		}
		return domain.Inspection{}, fmt.Errorf("failed to update inspection: %w", err)
	}
	return in, nil
}

func (s *Storage) DeleteInspection(ctx context.Context, id domain.InspectionId, owner domain.UserId) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM inspections WHERE id = $1 AND owner_id = $2", id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete inspection: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for inspection deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound(inspectionNotFound)
	}
	return nil
}
