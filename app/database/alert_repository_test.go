package database

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestNewConnectionEmptyPath(t *testing.T) {
	if _, err := NewConnection(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestRunMigrations(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected second run to be a no-op, got: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected version 1, got %d", version)
	}
	if dirty {
		t.Error("Expected clean migration state")
	}
}

func TestAlertRepositoryUpsertAndGet(t *testing.T) {
	repo := NewAlertRepository(newTestDB(t))
	ctx := context.Background()

	alert, err := repo.UpsertAlert(ctx, "USD", "INR", 84.5)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if alert.Base != "USD" || alert.Target != "INR" || alert.Threshold != 84.5 {
		t.Errorf("Unexpected alert: %+v", alert)
	}

	alert, err = repo.UpsertAlert(ctx, "USD", "INR", 85)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if alert.Threshold != 85 {
		t.Errorf("Expected updated threshold 85, got %v", alert.Threshold)
	}

	count, err := repo.GetAlertCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 alert, got %d", count)
	}

	missing, err := repo.GetAlert(ctx, "EUR", "INR")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing alert, got %+v", missing)
	}
}

func TestAlertRepositoryGetAlertsOrdered(t *testing.T) {
	repo := NewAlertRepository(newTestDB(t))
	ctx := context.Background()

	for _, base := range []string{"USD", "EUR", "JPY"} {
		if _, err := repo.UpsertAlert(ctx, base, "INR", 1); err != nil {
			t.Fatal(err)
		}
	}

	alerts, err := repo.GetAlerts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 3 {
		t.Fatalf("Expected 3 alerts, got %d", len(alerts))
	}
	if alerts[0].Base != "EUR" || alerts[1].Base != "JPY" || alerts[2].Base != "USD" {
		t.Errorf("Expected alerts ordered by base, got %+v", alerts)
	}
}

func TestAlertRepositoryDelete(t *testing.T) {
	repo := NewAlertRepository(newTestDB(t))
	ctx := context.Background()

	if _, err := repo.UpsertAlert(ctx, "USD", "INR", 80); err != nil {
		t.Fatal(err)
	}

	deleted, err := repo.DeleteAlert(ctx, "USD", "INR")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("Expected alert to be deleted")
	}

	deleted, err = repo.DeleteAlert(ctx, "USD", "INR")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("Expected second delete to report nothing removed")
	}
}

func TestAlertRepositoryRejectsNegativeThreshold(t *testing.T) {
	repo := NewAlertRepository(newTestDB(t))

	if _, err := repo.UpsertAlert(context.Background(), "USD", "INR", -1); err == nil {
		t.Error("Expected error for negative threshold")
	}
}

func TestAlertRepositoryEmpty(t *testing.T) {
	repo := NewAlertRepository(newTestDB(t))

	alerts, err := repo.GetAlerts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if alerts == nil || len(alerts) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", alerts)
	}
}
