package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"printshop/internal/models"
	"printshop/internal/repository"
)

type InventoryService struct {
	repo          repository.FilamentRepo
	lowStockRatio float64
}

func NewInventoryService(repo repository.FilamentRepo, lowStockRatio float64) *InventoryService {
	return &InventoryService{repo: repo, lowStockRatio: lowStockRatio}
}

var reColorHex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// normalizeFilament trims text fields, defaults the kind to FDM and checks
// the stock invariant 0 <= remaining <= total.
func normalizeFilament(f *models.Filament) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Material = strings.TrimSpace(f.Material)
	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))
	f.ColorHex = strings.TrimSpace(f.ColorHex)
	if f.Type == "" {
		f.Type = models.FilamentFDM
	}

	switch {
	case f.Name == "":
		return fmt.Errorf("%w: nome is required", ErrInvalidInput)
	case f.Type != models.FilamentFDM && f.Type != models.FilamentSLA:
		return fmt.Errorf("%w: tipo must be FDM or SLA", ErrInvalidInput)
	case f.ColorHex != "" && !reColorHex.MatchString(f.ColorHex):
		return fmt.Errorf("%w: corHex must look like #RRGGBB", ErrInvalidInput)
	case !finiteNonNegative(f.TotalWeight, f.Remaining, f.Price):
		return fmt.Errorf("%w: weights and price must be non-negative numbers", ErrInvalidInput)
	case f.Remaining > f.TotalWeight:
		return fmt.Errorf("%w: pesoAtual cannot exceed pesoTotal", ErrInvalidInput)
	}
	return nil
}

func (s *InventoryService) CreateFilament(ctx context.Context, f models.Filament) (models.Filament, error) {
	if err := normalizeFilament(&f); err != nil {
		return models.Filament{}, err
	}
	return s.repo.Create(ctx, f)
}

func (s *InventoryService) GetFilament(ctx context.Context, accountID int, id string) (models.Filament, error) {
	return s.repo.Get(ctx, accountID, id)
}

func (s *InventoryService) ListFilaments(ctx context.Context, accountID int) ([]models.Filament, error) {
	return s.repo.List(ctx, accountID)
}

func (s *InventoryService) UpdateFilament(ctx context.Context, f models.Filament) (models.Filament, error) {
	if err := normalizeFilament(&f); err != nil {
		return models.Filament{}, err
	}
	return s.repo.Update(ctx, f)
}

func (s *InventoryService) DeleteFilament(ctx context.Context, accountID int, id string) error {
	return s.repo.Delete(ctx, accountID, id)
}

// ConsumeFilament records material used outside a project (purges, failed
// prints). Stock never goes below zero.
func (s *InventoryService) ConsumeFilament(ctx context.Context, accountID int, id string, grams float64, note string) (models.StockMovement, error) {
	if !finiteNonNegative(grams) || grams == 0 {
		return models.StockMovement{}, fmt.Errorf("%w: peso must be a positive number", ErrInvalidInput)
	}
	return s.repo.Consume(ctx, accountID, id, grams, strings.TrimSpace(note))
}

// LowStock lists filaments at or below the configured fraction of capacity.
func (s *InventoryService) LowStock(ctx context.Context, accountID int) ([]models.Filament, error) {
	return s.repo.LowStock(ctx, accountID, s.lowStockRatio)
}

func finiteNonNegative(vs ...float64) bool {
	for _, v := range vs {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
