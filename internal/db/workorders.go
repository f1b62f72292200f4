package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"maintenance-automation-service/internal/models"
)

// MaxWorkOrderSeq returns the highest numeric suffix among human ids
// sharing the given date prefix (e.g. "OS-20250101"), or 0 when none exist.
func (d *DB) MaxWorkOrderSeq(ctx context.Context, datePrefix string) (int, error) {
	// Suffix is always 4 digits, so the lexicographic range covers the day.
	query := `
		SELECT COALESCE(MAX(CAST(RIGHT(human_id, 4) AS INTEGER)), 0)
		FROM work_orders
		WHERE human_id >= $1 AND human_id < $2`
	var maxSeq int
	err := d.Pool.QueryRow(ctx, query, datePrefix, datePrefix+"Z").Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("failed to get max work order sequence for %s: %w", datePrefix, err)
	}
	return maxSeq, nil
}

// CreateWorkOrder inserts a work order. A duplicate human_id surfaces as
// models.ErrConflict so the sequencer can recompute and retry.
func (d *DB) CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	if wo.ID == "" {
		wo.ID = uuid.New().String()
	}

	query := `
	INSERT INTO work_orders (
		id, human_id, source_task_id, machine_id, status,
		generated_automatically, scheduled_date, estimated_minutes,
		assigned_technician_id, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`

	_, err := d.Pool.Exec(ctx, query,
		wo.ID,
		wo.HumanID,
		wo.SourceTaskID,
		wo.MachineID,
		string(wo.Status),
		wo.GeneratedAutomatic,
		wo.ScheduledDate,
		wo.EstimatedMinutes,
		wo.AssignedTechnicianID,
		wo.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.WorkOrder{}, fmt.Errorf("work order %s: %w", wo.HumanID, models.ErrConflict)
		}
		return models.WorkOrder{}, fmt.Errorf("failed to insert work order: %w", err)
	}
	return wo, nil
}

// FindOpenWorkOrder returns the pending or in-progress work order for a
// machine whose source task matches, or nil when none exists.
func (d *DB) FindOpenWorkOrder(ctx context.Context, machineID, taskID string) (*models.WorkOrder, error) {
	query := `
	SELECT id::text, human_id, source_task_id::text, machine_id::text, status,
		generated_automatically, scheduled_date, estimated_minutes,
		assigned_technician_id::text, created_at
	FROM work_orders
	WHERE machine_id::text = $1 AND source_task_id::text = $2
		AND status IN ('pending', 'in_progress')
	ORDER BY created_at DESC
	LIMIT 1`

	wo, err := scanWorkOrder(d.Pool.QueryRow(ctx, query, machineID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open work order for machine %s: %w", machineID, err)
	}
	return &wo, nil
}

// ListWorkOrders fetches work orders newest first, optionally by status.
func (d *DB) ListWorkOrders(ctx context.Context, status string, limit int) ([]models.WorkOrder, error) {
	query := `
	SELECT id::text, human_id, source_task_id::text, machine_id::text, status,
		generated_automatically, scheduled_date, estimated_minutes,
		assigned_technician_id::text, created_at
	FROM work_orders`
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2"
		args = append(args, status, limit)
	} else {
		query += " ORDER BY created_at DESC LIMIT $1"
		args = append(args, limit)
	}

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	var orders []models.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		orders = append(orders, wo)
	}
	return orders, rows.Err()
}

func scanWorkOrder(row pgx.Row) (models.WorkOrder, error) {
	var wo models.WorkOrder
	var status string
	var techID pgtype.Text
	err := row.Scan(
		&wo.ID, &wo.HumanID, &wo.SourceTaskID, &wo.MachineID, &status,
		&wo.GeneratedAutomatic, &wo.ScheduledDate, &wo.EstimatedMinutes,
		&techID, &wo.CreatedAt,
	)
	if err != nil {
		return models.WorkOrder{}, err
	}
	wo.Status = models.WorkOrderStatus(status)
	wo.AssignedTechnicianID = techID.String
	return wo, nil
}
