package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"maintenance-automation-service/internal/models"
)

// ListActiveTechnicians returns active technicians, optionally filtered to
// one function type. An empty functionType returns all active technicians.
func (d *DB) ListActiveTechnicians(ctx context.Context, functionType string) ([]models.Technician, error) {
	query := `
		SELECT id::text, name, email, function_type, active, priority_order, daily_capacity
		FROM technicians
		WHERE active = true`
	args := []interface{}{}
	if functionType != "" {
		query += " AND function_type = $1"
		args = append(args, functionType)
	}
	query += " ORDER BY priority_order, name"

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active technicians: %w", err)
	}
	defer rows.Close()

	var techs []models.Technician
	for rows.Next() {
		var t models.Technician
		err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.FunctionType, &t.Active, &t.PriorityOrder, &t.DailyCapacity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		techs = append(techs, t)
	}
	return techs, rows.Err()
}

// GetTechnicianEmail resolves a technician id to their email address.
func (d *DB) GetTechnicianEmail(ctx context.Context, technicianID string) (string, error) {
	query := `SELECT email FROM technicians WHERE id::text = $1`
	var email string
	err := d.Pool.QueryRow(ctx, query, technicianID).Scan(&email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", fmt.Errorf("technician %s: %w", technicianID, models.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get technician %s: %w", technicianID, err)
	}
	return email, nil
}

// CountOpenTasks counts pending and in-progress tasks assigned to a technician.
func (d *DB) CountOpenTasks(ctx context.Context, technicianID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM maintenance_tasks
		WHERE assigned_technician_id::text = $1 AND status IN ('pending', 'in_progress')`
	var count int
	if err := d.Pool.QueryRow(ctx, query, technicianID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open tasks for technician %s: %w", technicianID, err)
	}
	return count, nil
}

// CountCompletedSince counts tasks a technician completed on or after the cutoff.
func (d *DB) CountCompletedSince(ctx context.Context, technicianID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM maintenance_tasks
		WHERE assigned_technician_id::text = $1 AND status = 'completed' AND last_execution >= $2`
	var count int
	if err := d.Pool.QueryRow(ctx, query, technicianID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count completed tasks for technician %s: %w", technicianID, err)
	}
	return count, nil
}

// LastOpenTaskType returns the type of the technician's most recently
// scheduled open task, or "" when they have none.
func (d *DB) LastOpenTaskType(ctx context.Context, technicianID string) (string, error) {
	query := `
		SELECT type FROM maintenance_tasks
		WHERE assigned_technician_id::text = $1 AND status IN ('pending', 'in_progress')
		ORDER BY scheduled_at DESC NULLS LAST
		LIMIT 1`
	var taskType pgtype.Text
	err := d.Pool.QueryRow(ctx, query, technicianID).Scan(&taskType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last task type for technician %s: %w", technicianID, err)
	}
	return taskType.String, nil
}
