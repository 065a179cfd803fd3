package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"printshop/internal/models"

	"github.com/google/uuid"
)

type PrinterSQLite struct {
	db *sql.DB
}

func NewPrinterSQLite(db *sql.DB) *PrinterSQLite { return &PrinterSQLite{db: db} }

var _ PrinterRepo = (*PrinterSQLite)(nil)

const printerColumns = `id, account_id, nome, modelo, potencia_w, horas_totais, rendimento_total, created_at, updated_at`

const (
	insertPrinterSQL = `INSERT INTO printers (` + printerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	selectPrinterSQL = `SELECT ` + printerColumns + ` FROM printers WHERE id = ? AND account_id = ?`
	listPrintersSQL  = `SELECT ` + printerColumns + ` FROM printers WHERE account_id = ? ORDER BY nome, id`
	deletePrinterSQL = `DELETE FROM printers WHERE id = ? AND account_id = ?`

	// horas_totais is absent: only approvals move it.
	updatePrinterSQL   = `UPDATE printers SET nome = ?, modelo = ?, potencia_w = ?, rendimento_total = ?, updated_at = ? WHERE id = ? AND account_id = ?`
	addPrinterHoursSQL = `UPDATE printers SET horas_totais = horas_totais + ?, updated_at = ? WHERE id = ? AND account_id = ?`
)

func scanPrinter(row rowScanner) (models.Printer, error) {
	var p models.Printer
	err := row.Scan(&p.ID, &p.AccountID, &p.Name, &p.Model, &p.PowerWatts,
		&p.TotalHours, &p.TotalRevenue, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *PrinterSQLite) Create(ctx context.Context, p models.Printer) (models.Printer, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts

	_, err := r.db.ExecContext(ctx, insertPrinterSQL,
		p.ID, p.AccountID, p.Name, p.Model, p.PowerWatts, p.TotalHours, p.TotalRevenue, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Printer{}, fmt.Errorf("insert printer %q: %w", p.Name, err)
	}
	return p, nil
}

func (r *PrinterSQLite) Get(ctx context.Context, accountID int, id string) (models.Printer, error) {
	p, err := scanPrinter(r.db.QueryRowContext(ctx, selectPrinterSQL, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Printer{}, ErrPrinterNotFound
		}
		return models.Printer{}, fmt.Errorf("select printer %s: %w", id, err)
	}
	return p, nil
}

func (r *PrinterSQLite) List(ctx context.Context, accountID int) ([]models.Printer, error) {
	rows, err := r.db.QueryContext(ctx, listPrintersSQL, accountID)
	if err != nil {
		return nil, fmt.Errorf("select printers: %w", err)
	}
	defer rows.Close()

	out := make([]models.Printer, 0, 8)
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan printer: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the descriptive fields. The hour counter is left alone.
func (r *PrinterSQLite) Update(ctx context.Context, p models.Printer) (models.Printer, error) {
	res, err := r.db.ExecContext(ctx, updatePrinterSQL,
		p.Name, p.Model, p.PowerWatts, p.TotalRevenue, now(), p.ID, p.AccountID)
	if err != nil {
		return models.Printer{}, fmt.Errorf("update printer %s: %w", p.ID, err)
	}
	if err := expectOneRow(res, ErrPrinterNotFound); err != nil {
		return models.Printer{}, err
	}
	return r.Get(ctx, p.AccountID, p.ID)
}

func (r *PrinterSQLite) Delete(ctx context.Context, accountID int, id string) error {
	res, err := r.db.ExecContext(ctx, deletePrinterSQL, id, accountID)
	if err != nil {
		return fmt.Errorf("delete printer %s: %w", id, err)
	}
	return expectOneRow(res, ErrPrinterNotFound)
}

// addPrinterHours increments the hour counter by exactly hours.
func addPrinterHours(ctx context.Context, ex execer, accountID int, id string, hours float64) error {
	res, err := ex.ExecContext(ctx, addPrinterHoursSQL, hours, now(), id, accountID)
	if err != nil {
		return fmt.Errorf("add hours to printer %s: %w", id, err)
	}
	if err := expectOneRow(res, ErrPrinterNotFound); err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}
	return nil
}
