package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"maintenance-automation-service/internal/models"
)

const taskColumns = `
	id::text, type, machine_id::text, machine_name, sector, period_days,
	description, assigned_technician_id::text, scheduled_at, status,
	priority, work_order_id::text, last_execution`

func scanTask(row pgx.Row) (models.MaintenanceTask, error) {
	var t models.MaintenanceTask
	var techID, workOrderID pgtype.Text
	var status string
	err := row.Scan(
		&t.ID, &t.Type, &t.MachineID, &t.MachineName, &t.Sector,
		&t.PeriodDays, &t.Description, &techID, &t.ScheduledAt,
		&status, &t.Priority, &workOrderID, &t.LastExecution,
	)
	if err != nil {
		return models.MaintenanceTask{}, err
	}
	t.AssignedTechnicianID = techID.String
	t.WorkOrderID = workOrderID.String
	t.Status = models.TaskStatus(status)
	return t, nil
}

// GetTask fetches one maintenance task by id.
func (d *DB) GetTask(ctx context.Context, taskID string) (models.MaintenanceTask, error) {
	query := `SELECT ` + taskColumns + ` FROM maintenance_tasks WHERE id::text = $1`
	t, err := scanTask(d.Pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MaintenanceTask{}, fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
		}
		return models.MaintenanceTask{}, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}
	return t, nil
}

// ListPendingTasks returns every task awaiting the automation scan.
func (d *DB) ListPendingTasks(ctx context.Context) ([]models.MaintenanceTask, error) {
	query := `SELECT ` + taskColumns + ` FROM maintenance_tasks WHERE status = 'pending' ORDER BY scheduled_at NULLS LAST`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.MaintenanceTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ListOrphanTasks returns open tasks with no technician assigned.
func (d *DB) ListOrphanTasks(ctx context.Context) ([]models.MaintenanceTask, error) {
	query := `SELECT ` + taskColumns + ` FROM maintenance_tasks
		WHERE assigned_technician_id IS NULL AND status IN ('pending', 'in_progress')
		ORDER BY scheduled_at NULLS LAST`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphan tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.MaintenanceTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// LinkWorkOrder stores the generated work order id on the source task.
func (d *DB) LinkWorkOrder(ctx context.Context, taskID, workOrderID string) error {
	query := `UPDATE maintenance_tasks SET work_order_id = $1 WHERE id::text = $2`
	result, err := d.Pool.Exec(ctx, query, workOrderID, taskID)
	if err != nil {
		return fmt.Errorf("failed to link work order to task %s: %w", taskID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}
	return nil
}

// RescheduleTask resets a completed task to pending with a new due date
// and stamps the completion time.
func (d *DB) RescheduleTask(ctx context.Context, taskID string, nextExecution, lastExecution time.Time) error {
	query := `
		UPDATE maintenance_tasks
		SET status = 'pending', scheduled_at = $1, last_execution = $2
		WHERE id::text = $3`
	result, err := d.Pool.Exec(ctx, query, nextExecution, lastExecution, taskID)
	if err != nil {
		return fmt.Errorf("failed to reschedule task %s: %w", taskID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}
	return nil
}

// AssignTechnician stores the selected technician on a task.
func (d *DB) AssignTechnician(ctx context.Context, taskID, technicianID string) error {
	query := `UPDATE maintenance_tasks SET assigned_technician_id = $1 WHERE id::text = $2`
	result, err := d.Pool.Exec(ctx, query, technicianID, taskID)
	if err != nil {
		return fmt.Errorf("failed to assign technician to task %s: %w", taskID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", taskID, models.ErrNotFound)
	}
	return nil
}
