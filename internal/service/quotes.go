package service

import (
	"context"
	"fmt"

	"printshop/internal/config"
	"printshop/internal/models"
	"printshop/internal/pricing"
	"printshop/internal/repository"

	"github.com/shopspring/decimal"
)

type QuoteService struct {
	filaments repository.FilamentRepo
	printers  repository.PrinterRepo
	defaults  config.PricingConfig
}

func NewQuoteService(filaments repository.FilamentRepo, printers repository.PrinterRepo, defaults config.PricingConfig) *QuoteService {
	return &QuoteService{filaments: filaments, printers: printers, defaults: defaults}
}

// Quote prices a print from stock prices and printer power. Filament lines
// with an explicit precoGrama skip the stock lookup; the manual id requires one.
func (s *QuoteService) Quote(ctx context.Context, accountID int, req QuoteRequest) (pricing.Breakdown, error) {
	if !finiteNonNegative(req.PrintHours, req.LaborHours, req.Extras) {
		return pricing.Breakdown{}, fmt.Errorf("%w: hours and extras must be non-negative", ErrInvalidInput)
	}

	in := pricing.Input{
		PrintHours:          decimal.NewFromFloat(req.PrintHours),
		LaborHours:          decimal.NewFromFloat(req.LaborHours),
		Extras:              decimal.NewFromFloat(req.Extras),
		EnergyPriceKWh:      orDefault(req.EnergyPriceKWh, s.defaults.EnergyPriceKWh),
		LaborRate:           orDefault(req.LaborRate, s.defaults.LaborRate),
		DepreciationPerHour: orDefault(req.DepreciationPerHour, s.defaults.DepreciationPerHour),
		FailureRatePct:      orDefault(req.FailureRatePct, s.defaults.FailureRatePct),
		MarginPct:           orDefault(req.MarginPct, s.defaults.MarginPct),
	}

	if req.PrinterID != "" {
		p, err := s.printers.Get(ctx, accountID, req.PrinterID)
		if err != nil {
			return pricing.Breakdown{}, err
		}
		in.PowerWatts = decimal.NewFromFloat(p.PowerWatts)
	}

	for i, m := range req.Materials {
		if !finiteNonNegative(m.Grams) {
			return pricing.Breakdown{}, fmt.Errorf("%w: filamentos[%d].peso must be non-negative", ErrInvalidInput, i)
		}
		var perGram float64
		switch {
		case m.PricePerGram != nil:
			perGram = *m.PricePerGram
		case m.ID == "" || m.ID == models.ManualFilamentID:
			return pricing.Breakdown{}, fmt.Errorf("%w: filamentos[%d] needs precoGrama", ErrInvalidInput, i)
		default:
			f, err := s.filaments.Get(ctx, accountID, m.ID)
			if err != nil {
				return pricing.Breakdown{}, err
			}
			perGram = f.PricePerGram()
		}
		in.Materials = append(in.Materials, pricing.Material{
			Grams:        decimal.NewFromFloat(m.Grams),
			PricePerGram: decimal.NewFromFloat(perGram),
		})
	}

	b, err := pricing.Quote(in)
	if err != nil {
		return pricing.Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return b, nil
}

func orDefault(v *float64, def float64) decimal.Decimal {
	if v != nil {
		return decimal.NewFromFloat(*v)
	}
	return decimal.NewFromFloat(def)
}
