package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSchema(t *testing.T) {
	conn, err := InitDB(filepath.Join(t.TempDir(), "shop.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"users", "filaments", "printers", "projects", "stock_movements"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	for i := 0; i < 2; i++ {
		conn, err := InitDB(path)
		if err != nil {
			t.Fatalf("InitDB run %d: %v", i+1, err)
		}
		_ = conn.Close()
	}
}

func TestInitDB_StockCheckConstraint(t *testing.T) {
	conn, err := InitDB(filepath.Join(t.TempDir(), "shop.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`INSERT INTO users (username, password_hash) VALUES ('u', 'h')`); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	_, err = conn.Exec(`INSERT INTO filaments (id, account_id, nome, tipo, peso_total, peso_atual, created_at, updated_at)
		VALUES ('f1', 1, 'PLA', 'FDM', 1000, 1200, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatalf("expected CHECK violation for peso_atual > peso_total")
	}
}
