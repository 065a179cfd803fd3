package service

import (
	"context"

	"printshop/internal/config"
	"printshop/internal/models"
	"printshop/internal/pricing"
	"printshop/internal/repository"
	"printshop/internal/slicer"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Inventory manages filament and resin stock.
type Inventory interface {
	CreateFilament(ctx context.Context, f models.Filament) (models.Filament, error)
	GetFilament(ctx context.Context, accountID int, id string) (models.Filament, error)
	ListFilaments(ctx context.Context, accountID int) ([]models.Filament, error)
	UpdateFilament(ctx context.Context, f models.Filament) (models.Filament, error)
	DeleteFilament(ctx context.Context, accountID int, id string) error
	ConsumeFilament(ctx context.Context, accountID int, id string, grams float64, note string) (models.StockMovement, error)
	LowStock(ctx context.Context, accountID int) ([]models.Filament, error)
}

type Printers interface {
	CreatePrinter(ctx context.Context, p models.Printer) (models.Printer, error)
	GetPrinter(ctx context.Context, accountID int, id string) (models.Printer, error)
	ListPrinters(ctx context.Context, accountID int) ([]models.Printer, error)
	UpdatePrinter(ctx context.Context, p models.Printer) (models.Printer, error)
	DeletePrinter(ctx context.Context, accountID int, id string) error
}

// Projects manages budgets and their lifecycle, including approval.
type Projects interface {
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	GetProject(ctx context.Context, accountID int, id string) (models.Project, error)
	ListProjects(ctx context.Context, accountID int, status models.ProjectStatus) ([]models.Project, error)
	UpdateProject(ctx context.Context, p models.Project) (models.Project, error)
	DeleteProject(ctx context.Context, accountID int, id string) error
	AdvanceStatus(ctx context.Context, accountID int, id string, to models.ProjectStatus) (models.Project, error)
	Approve(ctx context.Context, a models.Approval) (models.ApprovalResult, error)
}

// Movements exposes the append-only stock ledger with filtering.
type Movements interface {
	ListMovements(ctx context.Context, accountID int, f LogFilter) ([]models.StockMovement, error)
}

// FileAnalysis reads print time and weight out of sliced files.
type FileAnalysis interface {
	AnalyzeFile(filename string, data []byte) slicer.Report
}

type Quotes interface {
	Quote(ctx context.Context, accountID int, req QuoteRequest) (pricing.Breakdown, error)
}

type Service struct {
	Authorization
	Inventory
	Printers
	Projects
	Movements
	FileAnalysis
	Quotes
}

func NewService(repos *repository.Repository, cfg *config.Config) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
		Inventory:     NewInventoryService(repos.Filaments, cfg.Inventory.LowStockRatio),
		Printers:      NewPrinterService(repos.Printers),
		Projects:      NewProjectService(repos.Projects, repos.Approvals, models.StockPolicy(cfg.Approval.StockPolicy)),
		Movements:     NewMovementService(repos.Movements),
		FileAnalysis:  NewFileService(),
		Quotes:        NewQuoteService(repos.Filaments, repos.Printers, cfg.Pricing),
	}
}
