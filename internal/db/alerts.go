package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"maintenance-automation-service/internal/models"
)

// CreateAlert inserts a new alert record. It generates an id when the
// caller did not provide one.
func (d *DB) CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error) {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}

	query := `
	INSERT INTO alerts (
		id, task_id, task_description, machine_id, machine_name, due_date,
		days_remaining, urgency, is_read, work_order_id, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $11
	)`

	_, err := d.Pool.Exec(ctx, query,
		alert.ID,
		alert.TaskID,
		alert.TaskDescription,
		alert.MachineID,
		alert.MachineName,
		alert.DueDate,
		alert.DaysRemaining,
		string(alert.Urgency),
		alert.IsRead,
		alert.WorkOrderID,
		alert.CreatedAt,
	)
	if err != nil {
		return models.Alert{}, fmt.Errorf("failed to insert alert: %w", err)
	}
	alert.UpdatedAt = alert.CreatedAt
	return alert, nil
}

// HasUnreadAlert reports whether an unread alert already exists for a task.
func (d *DB) HasUnreadAlert(ctx context.Context, taskID string) (bool, error) {
	query := `SELECT COUNT(*) FROM alerts WHERE task_id::text = $1 AND is_read = false`
	var count int
	if err := d.Pool.QueryRow(ctx, query, taskID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check unread alerts for task %s: %w", taskID, err)
	}
	return count > 0, nil
}

// ListAlerts fetches alerts ordered newest first, optionally only unread ones.
func (d *DB) ListAlerts(ctx context.Context, unreadOnly bool, limit int) ([]models.Alert, error) {
	query := `
	SELECT id::text, task_id::text, task_description, machine_id::text, machine_name,
		due_date, days_remaining, urgency, is_read, work_order_id::text,
		created_at, updated_at
	FROM alerts`
	if unreadOnly {
		query += " WHERE is_read = false"
	}
	query += " ORDER BY created_at DESC LIMIT $1"

	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		var urgency string
		var workOrderID pgtype.Text
		err := rows.Scan(
			&a.ID, &a.TaskID, &a.TaskDescription, &a.MachineID, &a.MachineName,
			&a.DueDate, &a.DaysRemaining, &urgency, &a.IsRead, &workOrderID,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Urgency = models.Urgency(urgency)
		a.WorkOrderID = workOrderID.String
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
