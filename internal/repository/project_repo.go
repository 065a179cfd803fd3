package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"printshop/internal/models"

	"github.com/google/uuid"
)

type ProjectSQLite struct {
	db *sql.DB
}

func NewProjectSQLite(db *sql.DB) *ProjectSQLite { return &ProjectSQLite{db: db} }

var _ ProjectRepo = (*ProjectSQLite)(nil)

const projectColumns = `id, account_id, nome, cliente, status, data, created_at, updated_at`

const (
	insertProjectSQL = `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectProjectSQL = `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND account_id = ?`
	listProjectsSQL  = `SELECT ` + projectColumns + ` FROM projects WHERE account_id = ?`
	deleteProjectSQL = `DELETE FROM projects WHERE id = ? AND account_id = ?`
	updateProjectSQL = `UPDATE projects SET nome = ?, cliente = ?, data = COALESCE(?, data), updated_at = ? WHERE id = ? AND account_id = ?`

	selectProjectStatusSQL = `SELECT status FROM projects WHERE id = ? AND account_id = ?`

	// The column is authoritative; a status key left in the attributes blob
	// by older clients is kept in step, otherwise the blob is untouched.
	setProjectStatusSQL = `UPDATE projects
		SET status = ?,
		    data = CASE WHEN json_type(data, '$.status') IS NULL THEN data ELSE json_set(data, '$.status', ?) END,
		    updated_at = ?
		WHERE id = ? AND account_id = ? AND status = ?`
)

func scanProject(row rowScanner) (models.Project, error) {
	var (
		p    models.Project
		data string
	)
	err := row.Scan(&p.ID, &p.AccountID, &p.Name, &p.Client, &p.Status, &data, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Project{}, err
	}
	if data != "" {
		p.Data = json.RawMessage(data)
	}
	return p, nil
}

// Create inserts p as a draft regardless of the status it carries.
func (r *ProjectSQLite) Create(ctx context.Context, p models.Project) (models.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if len(p.Data) == 0 {
		p.Data = json.RawMessage(`{}`)
	}
	ts := now()
	p.Status, p.CreatedAt, p.UpdatedAt = models.StatusDraft, ts, ts

	_, err := r.db.ExecContext(ctx, insertProjectSQL,
		p.ID, p.AccountID, p.Name, p.Client, string(p.Status), string(p.Data), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project %q: %w", p.Name, err)
	}
	return p, nil
}

func (r *ProjectSQLite) Get(ctx context.Context, accountID int, id string) (models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, selectProjectSQL, id, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, ErrProjectNotFound
		}
		return models.Project{}, fmt.Errorf("select project %s: %w", id, err)
	}
	return p, nil
}

// List returns the account's projects, newest first. An empty status lists all.
func (r *ProjectSQLite) List(ctx context.Context, accountID int, status models.ProjectStatus) ([]models.Project, error) {
	q := listProjectsSQL
	args := []any{accountID}
	if status != "" {
		q += " AND status = ?"
		args = append(args, string(status))
	}
	q += " ORDER BY created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	defer rows.Close()

	out := make([]models.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes name, client and, when given, the attributes blob. Status
// only moves through SetStatus or an approval.
func (r *ProjectSQLite) Update(ctx context.Context, p models.Project) (models.Project, error) {
	var data any
	if len(p.Data) > 0 {
		data = string(p.Data)
	}
	res, err := r.db.ExecContext(ctx, updateProjectSQL, p.Name, p.Client, data, now(), p.ID, p.AccountID)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project %s: %w", p.ID, err)
	}
	if err := expectOneRow(res, ErrProjectNotFound); err != nil {
		return models.Project{}, err
	}
	return r.Get(ctx, p.AccountID, p.ID)
}

func (r *ProjectSQLite) Delete(ctx context.Context, accountID int, id string) error {
	res, err := r.db.ExecContext(ctx, deleteProjectSQL, id, accountID)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return expectOneRow(res, ErrProjectNotFound)
}

// SetStatus moves a project from one status to another, failing with
// ErrInvalidTransition if it is no longer in from.
func (r *ProjectSQLite) SetStatus(ctx context.Context, accountID int, id string, from, to models.ProjectStatus) error {
	return setProjectStatus(ctx, r.db, accountID, id, from, to)
}

type execQueryer interface {
	execer
	queryRower
}

func setProjectStatus(ctx context.Context, q execQueryer, accountID int, id string, from, to models.ProjectStatus) error {
	res, err := q.ExecContext(ctx, setProjectStatusSQL, string(to), string(to), now(), id, accountID, string(from))
	if err != nil {
		return fmt.Errorf("set status of project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	current, err := projectStatus(ctx, q, accountID, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: project %s is %s, not %s", ErrInvalidTransition, id, current, from)
}

func projectStatus(ctx context.Context, q queryRower, accountID int, id string) (models.ProjectStatus, error) {
	var status models.ProjectStatus
	err := q.QueryRowContext(ctx, selectProjectStatusSQL, id, accountID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrProjectNotFound
		}
		return "", fmt.Errorf("select status of project %s: %w", id, err)
	}
	return status, nil
}
