package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"
)

// AlertThresholdRepository stores per-pair alert thresholds.
type AlertThresholdRepository struct {
	db *DB
}

var _ AlertRepository = (*AlertThresholdRepository)(nil)

func NewAlertRepository(db *DB) *AlertThresholdRepository {
	return &AlertThresholdRepository{db: db}
}

func (r *AlertThresholdRepository) GetAlerts(ctx context.Context) ([]AlertThreshold, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT base_currency, target_currency, threshold, created_at, updated_at
		FROM alert_thresholds
		ORDER BY base_currency, target_currency
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []AlertThreshold{}
	for rows.Next() {
		var alert AlertThreshold
		if err := rows.Scan(&alert.Base, &alert.Target, &alert.Threshold, &alert.CreatedAt, &alert.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}

// GetAlert returns nil when no threshold is stored for the pair.
func (r *AlertThresholdRepository) GetAlert(ctx context.Context, base, target string) (*AlertThreshold, error) {
	var alert AlertThreshold
	err := r.db.QueryRowContext(ctx, `
		SELECT base_currency, target_currency, threshold, created_at, updated_at
		FROM alert_thresholds
		WHERE base_currency = ? AND target_currency = ?
	`, base, target).Scan(&alert.Base, &alert.Target, &alert.Threshold, &alert.CreatedAt, &alert.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return &alert, nil
}

func (r *AlertThresholdRepository) GetAlertCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alert_thresholds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

func (r *AlertThresholdRepository) UpsertAlert(ctx context.Context, base, target string, threshold float64) (*AlertThreshold, error) {
	if threshold < 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("threshold must be a non-negative number")
	}

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alert_thresholds (base_currency, target_currency, threshold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (base_currency, target_currency) DO UPDATE SET
			threshold = excluded.threshold,
			updated_at = excluded.updated_at
	`, base, target, threshold, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert alert: %w", err)
	}

	return r.GetAlert(ctx, base, target)
}

// DeleteAlert reports whether a threshold was removed.
func (r *AlertThresholdRepository) DeleteAlert(ctx context.Context, base, target string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM alert_thresholds
		WHERE base_currency = ? AND target_currency = ?
	`, base, target)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}
