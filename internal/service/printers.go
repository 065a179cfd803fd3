package service

import (
	"context"
	"fmt"
	"strings"

	"printshop/internal/models"
	"printshop/internal/repository"
)

type PrinterService struct {
	repo repository.PrinterRepo
}

func NewPrinterService(repo repository.PrinterRepo) *PrinterService {
	return &PrinterService{repo: repo}
}

func normalizePrinter(p *models.Printer) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Model = strings.TrimSpace(p.Model)
	if p.Name == "" {
		return fmt.Errorf("%w: nome is required", ErrInvalidInput)
	}
	if !finiteNonNegative(p.PowerWatts, p.TotalHours, p.TotalRevenue) {
		return fmt.Errorf("%w: potenciaW, horasTotais and rendimentoTotal must be non-negative", ErrInvalidInput)
	}
	return nil
}

func (s *PrinterService) CreatePrinter(ctx context.Context, p models.Printer) (models.Printer, error) {
	if err := normalizePrinter(&p); err != nil {
		return models.Printer{}, err
	}
	return s.repo.Create(ctx, p)
}

func (s *PrinterService) GetPrinter(ctx context.Context, accountID int, id string) (models.Printer, error) {
	return s.repo.Get(ctx, accountID, id)
}

func (s *PrinterService) ListPrinters(ctx context.Context, accountID int) ([]models.Printer, error) {
	return s.repo.List(ctx, accountID)
}

// UpdatePrinter changes the descriptive fields; the hour counter is only
// advanced by approvals.
func (s *PrinterService) UpdatePrinter(ctx context.Context, p models.Printer) (models.Printer, error) {
	if err := normalizePrinter(&p); err != nil {
		return models.Printer{}, err
	}
	return s.repo.Update(ctx, p)
}

func (s *PrinterService) DeletePrinter(ctx context.Context, accountID int, id string) error {
	return s.repo.Delete(ctx, accountID, id)
}
