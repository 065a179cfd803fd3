package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"printshop/internal/models"
	"printshop/internal/repository/db"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

// newSQLiteRepo opens a fresh on-disk database with one account in it.
func newSQLiteRepo(t *testing.T) (*Repository, *sql.DB, int) {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "printshop.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := NewRepository(conn)
	accountID, err := repo.Auth.Create("owner", "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return repo, conn, accountID
}

func seedFilament(t *testing.T, repo *Repository, accountID int, id string, total, remaining float64) models.Filament {
	t.Helper()
	f, err := repo.Filaments.Create(testCtx(t), models.Filament{
		ID:          id,
		AccountID:   accountID,
		Name:        "PLA " + id,
		Material:    "PLA",
		Type:        models.FilamentFDM,
		TotalWeight: total,
		Remaining:   remaining,
		Price:       100,
	})
	if err != nil {
		t.Fatalf("seed filament %s: %v", id, err)
	}
	return f
}

func seedPrinter(t *testing.T, repo *Repository, accountID int, id string, hours float64) models.Printer {
	t.Helper()
	p, err := repo.Printers.Create(testCtx(t), models.Printer{
		ID:         id,
		AccountID:  accountID,
		Name:       "Ender " + id,
		PowerWatts: 200,
		TotalHours: hours,
	})
	if err != nil {
		t.Fatalf("seed printer %s: %v", id, err)
	}
	return p
}

func seedProject(t *testing.T, repo *Repository, accountID int, id, data string) models.Project {
	t.Helper()
	p, err := repo.Projects.Create(testCtx(t), models.Project{
		ID:        id,
		AccountID: accountID,
		Name:      "Project " + id,
		Data:      []byte(data),
	})
	if err != nil {
		t.Fatalf("seed project %s: %v", id, err)
	}
	return p
}

func mustFilament(t *testing.T, repo *Repository, accountID int, id string) models.Filament {
	t.Helper()
	f, err := repo.Filaments.Get(testCtx(t), accountID, id)
	if err != nil {
		t.Fatalf("get filament %s: %v", id, err)
	}
	return f
}

func mustPrinter(t *testing.T, repo *Repository, accountID int, id string) models.Printer {
	t.Helper()
	p, err := repo.Printers.Get(testCtx(t), accountID, id)
	if err != nil {
		t.Fatalf("get printer %s: %v", id, err)
	}
	return p
}

func mustProject(t *testing.T, repo *Repository, accountID int, id string) models.Project {
	t.Helper()
	p, err := repo.Projects.Get(testCtx(t), accountID, id)
	if err != nil {
		t.Fatalf("get project %s: %v", id, err)
	}
	return p
}
