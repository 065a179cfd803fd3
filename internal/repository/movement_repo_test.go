package repository

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"printshop/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var movementCols = []string{"id", "filament_id", "project_id", "type", "grams", "stock_before", "stock_after", "note", "occurred_at"}

func TestAppendMovement_FillsDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(insertMovementSQL)).
		WithArgs(sqlmock.AnyArg(), 1, "f1", nil, "CONSUMPTION", -5.0, 10.0, 5.0, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	m := models.StockMovement{
		AccountID: 1, FilamentID: "f1", Type: "  consumption ",
		Grams: -5, StockBefore: 10, StockAfter: 5,
	}
	if err := appendMovement(testCtx(t), db, &m); err != nil {
		t.Fatalf("appendMovement: %v", err)
	}
	if m.ID == "" || m.OccurredAt.IsZero() || m.Type != models.MovementConsumption {
		t.Fatalf("defaults not applied: %+v", m)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppendMovement_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO stock_movements").
		WillReturnError(errors.New("down"))

	err = appendMovement(testCtx(t), db, &models.StockMovement{FilamentID: "f1", Type: "approval"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
}

func TestMovementList_NoFilters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(movementCols).
		AddRow("m1", "f1", "p1", "APPROVAL", -20.0, 100.0, 80.0, "", at).
		AddRow("m2", "f1", nil, "CONSUMPTION", -5.0, 80.0, 75.0, "purge", at.Add(time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(selectMovementsSQL + ` WHERE account_id = ? ORDER BY occurred_at ASC`)).
		WithArgs(4).
		WillReturnRows(rows)

	got, err := NewMovementSQLite(db).List(testCtx(t), MovementFilter{AccountID: 4})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ProjectID != "p1" || got[1].ProjectID != "" || got[1].Note != "purge" {
		t.Fatalf("unexpected movements: %+v", got)
	}
	if got[0].AccountID != 4 {
		t.Fatalf("account id not set: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMovementList_WithFilters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectMovementsSQL + ` WHERE account_id = ? AND occurred_at >= ? AND occurred_at <= ? AND type = ? AND filament_id = ? ORDER BY occurred_at ASC`
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(1, from, to, "APPROVAL", "f2").
		WillReturnRows(sqlmock.NewRows(movementCols))

	got, err := NewMovementSQLite(db).List(testCtx(t), MovementFilter{
		AccountID: 1, From: from, To: to, Type: " approval ", FilamentID: "f2",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMovementList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(movementCols).
		AddRow("m1", "f1", nil, "APPROVAL", "not-a-number", 1.0, 1.0, "", time.Now())
	mock.ExpectQuery("SELECT id, filament_id").WillReturnRows(rows)

	if _, err := NewMovementSQLite(db).List(testCtx(t), MovementFilter{AccountID: 1}); err == nil {
		t.Fatalf("expected scan error")
	}
}
