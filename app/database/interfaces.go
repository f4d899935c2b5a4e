package database

import (
	"context"
)

type AlertRepository interface {
	GetAlerts(ctx context.Context) ([]AlertThreshold, error)
	GetAlert(ctx context.Context, base, target string) (*AlertThreshold, error)
	GetAlertCount(ctx context.Context) (int, error)

	UpsertAlert(ctx context.Context, base, target string, threshold float64) (*AlertThreshold, error)
	DeleteAlert(ctx context.Context, base, target string) (bool, error)
}
