package repository

import (
	"context"
	"database/sql"
	"time"

	"printshop/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type FilamentRepo interface {
	Create(ctx context.Context, f models.Filament) (models.Filament, error)
	Get(ctx context.Context, accountID int, id string) (models.Filament, error)
	List(ctx context.Context, accountID int) ([]models.Filament, error)
	Update(ctx context.Context, f models.Filament) (models.Filament, error)
	Delete(ctx context.Context, accountID int, id string) error
	Consume(ctx context.Context, accountID int, id string, grams float64, note string) (models.StockMovement, error)
	LowStock(ctx context.Context, accountID int, ratio float64) ([]models.Filament, error)
}

type PrinterRepo interface {
	Create(ctx context.Context, p models.Printer) (models.Printer, error)
	Get(ctx context.Context, accountID int, id string) (models.Printer, error)
	List(ctx context.Context, accountID int) ([]models.Printer, error)
	Update(ctx context.Context, p models.Printer) (models.Printer, error)
	Delete(ctx context.Context, accountID int, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	Get(ctx context.Context, accountID int, id string) (models.Project, error)
	List(ctx context.Context, accountID int, status models.ProjectStatus) ([]models.Project, error)
	Update(ctx context.Context, p models.Project) (models.Project, error)
	Delete(ctx context.Context, accountID int, id string) error
	SetStatus(ctx context.Context, accountID int, id string, from, to models.ProjectStatus) error
}

type MovementRepo interface {
	List(ctx context.Context, f MovementFilter) ([]models.StockMovement, error)
}

type ApprovalRepo interface {
	Approve(ctx context.Context, a models.Approval, policy models.StockPolicy) (models.ApprovalResult, error)
}

type Repository struct {
	Auth      Authorization
	Filaments FilamentRepo
	Printers  PrinterRepo
	Projects  ProjectRepo
	Movements MovementRepo
	Approvals ApprovalRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:      NewUserRepository(db),
		Filaments: NewFilamentSQLite(db),
		Printers:  NewPrinterSQLite(db),
		Projects:  NewProjectSQLite(db),
		Movements: NewMovementSQLite(db),
		Approvals: NewApprovalSQLite(db),
	}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// now is replaced in tests that need stable timestamps.
var now = func() time.Time { return time.Now().UTC() }
