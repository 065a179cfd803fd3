package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"printshop/internal/models"

	"github.com/google/uuid"
)

type MovementSQLite struct {
	db *sql.DB
}

func NewMovementSQLite(db *sql.DB) *MovementSQLite { return &MovementSQLite{db: db} }

// MovementFilter narrows a ledger listing. Zero values mean "any".
type MovementFilter struct {
	AccountID  int
	From, To   time.Time
	Type       string
	FilamentID string
}

const insertMovementSQL = `
		INSERT INTO stock_movements (id, account_id, filament_id, project_id, type, grams, stock_before, stock_after, note, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

const selectMovementsSQL = `SELECT id, filament_id, project_id, type, grams, stock_before, stock_after, note, occurred_at FROM stock_movements`

// appendMovement writes one ledger row through ex, which is normally the
// transaction that changed the stock. Missing ID and OccurredAt are filled in.
func appendMovement(ctx context.Context, ex execer, m *models.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.OccurredAt.IsZero() {
		m.OccurredAt = now()
	} else {
		m.OccurredAt = m.OccurredAt.UTC()
	}
	m.Type = strings.ToUpper(strings.TrimSpace(m.Type))

	var project sql.NullString
	if m.ProjectID != "" {
		project = sql.NullString{String: m.ProjectID, Valid: true}
	}

	_, err := ex.ExecContext(ctx, insertMovementSQL,
		m.ID,
		m.AccountID,
		m.FilamentID,
		project,
		m.Type,
		m.Grams,
		m.StockBefore,
		m.StockAfter,
		m.Note,
		m.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s movement for filament %s: %w", m.Type, m.FilamentID, err)
	}
	return nil
}

// List returns movements filtered by [from, to] (inclusive), type and
// filament, oldest first.
func (r *MovementSQLite) List(ctx context.Context, f MovementFilter) ([]models.StockMovement, error) {
	conds := []string{"account_id = ?"}
	args := []any{f.AccountID}

	if !f.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, f.To.UTC())
	}
	if typ := strings.ToUpper(strings.TrimSpace(f.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if f.FilamentID != "" {
		conds = append(conds, "filament_id = ?")
		args = append(args, f.FilamentID)
	}

	q := selectMovementsSQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	defer rows.Close()

	out := make([]models.StockMovement, 0, 64)
	for rows.Next() {
		var (
			m       models.StockMovement
			project sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.FilamentID, &project, &m.Type, &m.Grams,
			&m.StockBefore, &m.StockAfter, &m.Note, &m.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.AccountID = f.AccountID
		m.ProjectID = project.String
		m.OccurredAt = m.OccurredAt.UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
