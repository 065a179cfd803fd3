package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"printshop/internal/models"
	"printshop/internal/repository"
)

type MovementService struct {
	repo repository.MovementRepo
}

func NewMovementService(repo repository.MovementRepo) *MovementService {
	return &MovementService{repo: repo}
}

var (
	errInvalidTimeRange = fmt.Errorf("%w: time range from must be <= to", ErrInvalidInput)
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeMovementType trims spaces and uppercases the type filter.
func normalizeMovementType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	f.From = normalizeToUTC(f.From)
	f.To = normalizeToUTC(f.To)

	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return LogFilter{}, errInvalidTimeRange
	}

	f.Type = normalizeMovementType(f.Type)
	switch f.Type {
	case "", models.MovementApproval, models.MovementConsumption, models.MovementAdjustment:
	default:
		return LogFilter{}, fmt.Errorf("%w: unknown movement type %q", ErrInvalidInput, f.Type)
	}
	f.FilamentID = strings.TrimSpace(f.FilamentID)
	return f, nil
}

func (s *MovementService) ListMovements(ctx context.Context, accountID int, f LogFilter) ([]models.StockMovement, error) {
	f, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, repository.MovementFilter{
		AccountID:  accountID,
		From:       f.From,
		To:         f.To,
		Type:       f.Type,
		FilamentID: f.FilamentID,
	})
}
