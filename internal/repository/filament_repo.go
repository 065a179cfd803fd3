package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"printshop/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FilamentSQLite struct {
	db *sql.DB
}

func NewFilamentSQLite(db *sql.DB) *FilamentSQLite { return &FilamentSQLite{db: db} }

var _ FilamentRepo = (*FilamentSQLite)(nil)

const filamentColumns = `id, account_id, nome, material, tipo, cor_hex, peso_total, peso_atual, preco, revision, created_at, updated_at`

const (
	insertFilamentSQL = `INSERT INTO filaments (` + filamentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	selectFilamentSQL = `SELECT ` + filamentColumns + ` FROM filaments WHERE id = ? AND account_id = ?`
	listFilamentsSQL  = `SELECT ` + filamentColumns + ` FROM filaments WHERE account_id = ? ORDER BY nome, id`
	lowStockSQL       = `SELECT ` + filamentColumns + ` FROM filaments WHERE account_id = ? AND peso_total > 0 AND peso_atual <= peso_total * ? ORDER BY peso_atual / peso_total, id`
	deleteFilamentSQL = `DELETE FROM filaments WHERE id = ? AND account_id = ?`

	selectStockSQL = `SELECT peso_atual, revision FROM filaments WHERE id = ? AND account_id = ?`
	updateStockSQL = `UPDATE filaments SET peso_atual = ?, revision = revision + 1, updated_at = ? WHERE id = ? AND account_id = ? AND revision = ?`

	updateFilamentSQL = `UPDATE filaments SET nome = ?, material = ?, tipo = ?, cor_hex = ?, peso_total = ?, peso_atual = ?, preco = ?, revision = revision + 1, updated_at = ?
		WHERE id = ? AND account_id = ? AND revision = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilament(row rowScanner) (models.Filament, error) {
	var f models.Filament
	err := row.Scan(&f.ID, &f.AccountID, &f.Name, &f.Material, &f.Type, &f.ColorHex,
		&f.TotalWeight, &f.Remaining, &f.Price, &f.Revision, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// Create inserts f. An empty ID is generated.
func (r *FilamentSQLite) Create(ctx context.Context, f models.Filament) (models.Filament, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	ts := now()
	f.CreatedAt, f.UpdatedAt, f.Revision = ts, ts, 0

	_, err := r.db.ExecContext(ctx, insertFilamentSQL,
		f.ID, f.AccountID, f.Name, f.Material, f.Type, f.ColorHex,
		f.TotalWeight, f.Remaining, f.Price, f.Revision, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return models.Filament{}, fmt.Errorf("insert filament %q: %w", f.Name, err)
	}
	return f, nil
}

func (r *FilamentSQLite) Get(ctx context.Context, accountID int, id string) (models.Filament, error) {
	f, err := scanFilament(r.db.QueryRowContext(ctx, selectFilamentSQL, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Filament{}, ErrFilamentNotFound
		}
		return models.Filament{}, fmt.Errorf("select filament %s: %w", id, err)
	}
	return f, nil
}

func (r *FilamentSQLite) List(ctx context.Context, accountID int) ([]models.Filament, error) {
	return r.query(ctx, listFilamentsSQL, accountID)
}

// LowStock lists filaments whose remaining stock is at or below ratio of
// their capacity, emptiest first.
func (r *FilamentSQLite) LowStock(ctx context.Context, accountID int, ratio float64) ([]models.Filament, error) {
	return r.query(ctx, lowStockSQL, accountID, ratio)
}

func (r *FilamentSQLite) query(ctx context.Context, q string, args ...any) ([]models.Filament, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select filaments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Filament, 0, 16)
	for rows.Next() {
		f, err := scanFilament(rows)
		if err != nil {
			return nil, fmt.Errorf("scan filament: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the editable fields of f. A change of the remaining stock
// is recorded as an ADJUSTMENT movement in the same transaction.
func (r *FilamentSQLite) Update(ctx context.Context, f models.Filament) (models.Filament, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Filament{}, fmt.Errorf("begin filament update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	before, rev, err := readStock(ctx, tx, f.AccountID, f.ID)
	if err != nil {
		return models.Filament{}, err
	}

	res, err := tx.ExecContext(ctx, updateFilamentSQL,
		f.Name, f.Material, f.Type, f.ColorHex, f.TotalWeight, f.Remaining, f.Price, now(),
		f.ID, f.AccountID, rev)
	if err != nil {
		return models.Filament{}, fmt.Errorf("update filament %s: %w", f.ID, err)
	}
	if err := expectOneRow(res, ErrStockConflict); err != nil {
		return models.Filament{}, err
	}

	if before != f.Remaining {
		m := models.StockMovement{
			AccountID:   f.AccountID,
			FilamentID:  f.ID,
			Type:        models.MovementAdjustment,
			Grams:       subtractStock(f.Remaining, before),
			StockBefore: before,
			StockAfter:  f.Remaining,
			Note:        "manual edit",
		}
		if err := appendMovement(ctx, tx, &m); err != nil {
			return models.Filament{}, err
		}
	}

	updated, err := scanFilament(tx.QueryRowContext(ctx, selectFilamentSQL, f.ID, f.AccountID))
	if err != nil {
		return models.Filament{}, fmt.Errorf("reload filament %s: %w", f.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Filament{}, fmt.Errorf("commit filament update: %w", err)
	}
	return updated, nil
}

func (r *FilamentSQLite) Delete(ctx context.Context, accountID int, id string) error {
	res, err := r.db.ExecContext(ctx, deleteFilamentSQL, id, accountID)
	if err != nil {
		return fmt.Errorf("delete filament %s: %w", id, err)
	}
	return expectOneRow(res, ErrFilamentNotFound)
}

// Consume takes grams out of a filament outside of any project, flooring the
// stock at zero, and records a CONSUMPTION movement.
func (r *FilamentSQLite) Consume(ctx context.Context, accountID int, id string, grams float64, note string) (models.StockMovement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.StockMovement{}, fmt.Errorf("begin consumption: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c, before, err := deductStock(ctx, tx, accountID, id, grams, models.StockPolicyClamp)
	if err != nil {
		return models.StockMovement{}, err
	}
	m := models.StockMovement{
		AccountID:   accountID,
		FilamentID:  id,
		Type:        models.MovementConsumption,
		Grams:       -c.Deducted,
		StockBefore: before,
		StockAfter:  c.Remaining,
		Note:        note,
	}
	if err := appendMovement(ctx, tx, &m); err != nil {
		return models.StockMovement{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.StockMovement{}, fmt.Errorf("commit consumption: %w", err)
	}
	return m, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readStock(ctx context.Context, q queryRower, accountID int, id string) (float64, int64, error) {
	var (
		remaining float64
		rev       int64
	)
	err := q.QueryRowContext(ctx, selectStockSQL, id, accountID).Scan(&remaining, &rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("%w: %s", ErrFilamentNotFound, id)
		}
		return 0, 0, fmt.Errorf("select stock of filament %s: %w", id, err)
	}
	return remaining, rev, nil
}

// deductStock reads the current stock, applies policy and writes the new
// value guarded by the revision that was read. It returns what was taken and
// the stock before the change.
func deductStock(ctx context.Context, tx *sql.Tx, accountID int, id string, grams float64, policy models.StockPolicy) (models.Consumption, float64, error) {
	remaining, rev, err := readStock(ctx, tx, accountID, id)
	if err != nil {
		return models.Consumption{}, 0, err
	}

	deducted := grams
	if grams > remaining {
		if policy != models.StockPolicyClamp {
			return models.Consumption{}, 0, fmt.Errorf("%w: filament %s has %.2f, needs %.2f",
				ErrInsufficientStock, id, remaining, grams)
		}
		deducted = remaining
	}
	after := subtractStock(remaining, deducted)

	res, err := tx.ExecContext(ctx, updateStockSQL, after, now(), id, accountID, rev)
	if err != nil {
		return models.Consumption{}, 0, fmt.Errorf("update stock of filament %s: %w", id, err)
	}
	if err := expectOneRow(res, ErrStockConflict); err != nil {
		return models.Consumption{}, 0, fmt.Errorf("filament %s: %w", id, err)
	}

	return models.Consumption{
		FilamentID: id,
		Requested:  grams,
		Deducted:   deducted,
		Remaining:  after,
	}, remaining, nil
}

// subtractStock computes a-b in decimal so stock values stay free of float drift.
func subtractStock(a, b float64) float64 {
	v, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Float64()
	return v
}

func expectOneRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return missing
	}
	return nil
}
