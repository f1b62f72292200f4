package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"maintenance-automation-service/internal/models"
)

// GetAutomationConfig reads the singleton automation configuration row.
func (d *DB) GetAutomationConfig(ctx context.Context) (models.AutomationConfig, error) {
	query := `
	SELECT active, lead_time_days, per_type_lead_time_days,
		auto_generate_work_orders, preferred_execution_time
	FROM automation_config
	WHERE id = 1`

	var cfg models.AutomationConfig
	var overrides []byte
	var prefTime pgtype.Text
	err := d.Pool.QueryRow(ctx, query).Scan(
		&cfg.Active,
		&cfg.LeadTimeDays,
		&overrides,
		&cfg.AutoGenerateWorkOrders,
		&prefTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AutomationConfig{}, fmt.Errorf("automation config: %w", models.ErrNotFound)
		}
		return models.AutomationConfig{}, fmt.Errorf("failed to get automation config: %w", err)
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &cfg.PerTypeLeadTimeDays); err != nil {
			return models.AutomationConfig{}, fmt.Errorf("failed to parse lead time overrides: %w", err)
		}
	}
	cfg.PreferredExecutionTime = prefTime.String
	return cfg, nil
}

// SaveAutomationConfig upserts the singleton configuration row.
func (d *DB) SaveAutomationConfig(ctx context.Context, cfg models.AutomationConfig) error {
	overrides, err := json.Marshal(cfg.PerTypeLeadTimeDays)
	if err != nil {
		return fmt.Errorf("failed to encode lead time overrides: %w", err)
	}

	query := `
	INSERT INTO automation_config (
		id, active, lead_time_days, per_type_lead_time_days,
		auto_generate_work_orders, preferred_execution_time
	) VALUES (1, $1, $2, $3, $4, NULLIF($5, ''))
	ON CONFLICT (id) DO UPDATE SET
		active = EXCLUDED.active,
		lead_time_days = EXCLUDED.lead_time_days,
		per_type_lead_time_days = EXCLUDED.per_type_lead_time_days,
		auto_generate_work_orders = EXCLUDED.auto_generate_work_orders,
		preferred_execution_time = EXCLUDED.preferred_execution_time`

	_, err = d.Pool.Exec(ctx, query,
		cfg.Active,
		cfg.LeadTimeDays,
		overrides,
		cfg.AutoGenerateWorkOrders,
		cfg.PreferredExecutionTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save automation config: %w", err)
	}
	return nil
}

// AppendRunLog inserts one automation run log row.
func (d *DB) AppendRunLog(ctx context.Context, entry models.AutomationRunLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
	INSERT INTO automation_logs (
		id, kind, message, tasks_scanned, work_orders_created,
		alerts_created, error_detail, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`

	_, err := d.Pool.Exec(ctx, query,
		entry.ID,
		string(entry.Kind),
		entry.Message,
		entry.TasksScanned,
		entry.WorkOrdersCreated,
		entry.AlertsCreated,
		entry.ErrorDetail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run log: %w", err)
	}
	return nil
}

// ListRunLogs fetches recent automation run logs, newest first.
func (d *DB) ListRunLogs(ctx context.Context, limit int) ([]models.AutomationRunLog, error) {
	query := `
	SELECT id::text, kind, message, tasks_scanned, work_orders_created,
		alerts_created, error_detail, created_at
	FROM automation_logs
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AutomationRunLog
	for rows.Next() {
		var entry models.AutomationRunLog
		var kind string
		var errorDetail pgtype.Text
		err := rows.Scan(
			&entry.ID, &kind, &entry.Message, &entry.TasksScanned,
			&entry.WorkOrdersCreated, &entry.AlertsCreated, &errorDetail,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run log: %w", err)
		}
		entry.Kind = models.RunLogKind(kind)
		entry.ErrorDetail = errorDetail.String
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
