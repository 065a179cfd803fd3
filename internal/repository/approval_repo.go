package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"printshop/internal/models"
)

type ApprovalSQLite struct {
	db *sql.DB
}

func NewApprovalSQLite(db *sql.DB) *ApprovalSQLite { return &ApprovalSQLite{db: db} }

var _ ApprovalRepo = (*ApprovalSQLite)(nil)

// Approve moves a draft project to production, adds the print time to the
// printer and takes the used filament out of stock. Everything happens in one
// transaction; on any error nothing is written.
//
// Usages with the "manual" id are ignored. Repeated ids are summed and
// filaments are processed in id order. An empty PrinterID skips the printer.
func (r *ApprovalSQLite) Approve(ctx context.Context, a models.Approval, policy models.StockPolicy) (models.ApprovalResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ApprovalResult{}, fmt.Errorf("begin approval: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	status, err := projectStatus(ctx, tx, a.AccountID, a.ProjectID)
	if err != nil {
		return models.ApprovalResult{}, err
	}
	if !status.CanAdvanceTo(models.StatusProduction) {
		return models.ApprovalResult{}, fmt.Errorf("%w: project %s is %s", ErrInvalidTransition, a.ProjectID, status)
	}
	if err := setProjectStatus(ctx, tx, a.AccountID, a.ProjectID, status, models.StatusProduction); err != nil {
		return models.ApprovalResult{}, err
	}

	if a.PrinterID != "" {
		if err := addPrinterHours(ctx, tx, a.AccountID, a.PrinterID, a.TotalTime); err != nil {
			return models.ApprovalResult{}, err
		}
	}

	result := models.ApprovalResult{
		ProjectID: a.ProjectID,
		Status:    models.StatusProduction,
		Filaments: make([]models.Consumption, 0, len(a.Usages)),
	}
	for _, u := range mergeUsages(a.Usages) {
		c, before, err := deductStock(ctx, tx, a.AccountID, u.ID, u.Grams, policy)
		if err != nil {
			return models.ApprovalResult{}, err
		}
		m := models.StockMovement{
			AccountID:   a.AccountID,
			FilamentID:  u.ID,
			ProjectID:   a.ProjectID,
			Type:        models.MovementApproval,
			Grams:       -c.Deducted,
			StockBefore: before,
			StockAfter:  c.Remaining,
		}
		if c.Deducted < c.Requested {
			m.Note = fmt.Sprintf("clamped: requested %.2f", c.Requested)
		}
		if err := appendMovement(ctx, tx, &m); err != nil {
			return models.ApprovalResult{}, err
		}
		result.Filaments = append(result.Filaments, c)
	}

	if err := tx.Commit(); err != nil {
		return models.ApprovalResult{}, fmt.Errorf("commit approval: %w", err)
	}
	return result, nil
}

// mergeUsages drops manual and zero entries, sums repeated ids and sorts by id
// so that concurrent approvals touch filaments in the same order.
func mergeUsages(usages []models.FilamentUsage) []models.FilamentUsage {
	totals := make(map[string]float64, len(usages))
	for _, u := range usages {
		if u.ID == "" || u.ID == models.ManualFilamentID {
			continue
		}
		totals[u.ID] += u.Grams
	}

	out := make([]models.FilamentUsage, 0, len(totals))
	for id, g := range totals {
		if g == 0 {
			continue
		}
		out = append(out, models.FilamentUsage{ID: id, Grams: g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
