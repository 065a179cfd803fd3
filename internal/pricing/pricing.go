// Package pricing turns the resources a print consumes into a cost breakdown
// and a sale price. All money arithmetic is done in decimal.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Material is a quantity of one filament at its unit price.
type Material struct {
	Grams        decimal.Decimal
	PricePerGram decimal.Decimal
}

// Input holds everything a quote depends on. Percentages are 0-100.
type Input struct {
	Materials           []Material
	PrintHours          decimal.Decimal
	PowerWatts          decimal.Decimal
	EnergyPriceKWh      decimal.Decimal
	LaborHours          decimal.Decimal
	LaborRate           decimal.Decimal
	DepreciationPerHour decimal.Decimal
	Extras              decimal.Decimal
	FailureRatePct      decimal.Decimal
	MarginPct           decimal.Decimal
}

// Breakdown is a priced quote, every field rounded to cents.
type Breakdown struct {
	Material         decimal.Decimal `json:"material"`
	Energy           decimal.Decimal `json:"energia"`
	Labor            decimal.Decimal `json:"maoDeObra"`
	Depreciation     decimal.Decimal `json:"depreciacao"`
	Extras           decimal.Decimal `json:"extras"`
	FailureAllowance decimal.Decimal `json:"taxaFalha"`
	Cost             decimal.Decimal `json:"custoTotal"`
	Price            decimal.Decimal `json:"precoFinal"`
	Profit           decimal.Decimal `json:"lucro"`
	MarginPct        decimal.Decimal `json:"margem"`
}

var ErrNegative = errors.New("negative value")

// Quote prices in. The failure allowance is a percentage of the direct
// costs and the margin is a markup over the total cost.
func Quote(in Input) (Breakdown, error) {
	if err := in.validate(); err != nil {
		return Breakdown{}, err
	}

	material := decimal.Zero
	for _, m := range in.Materials {
		material = material.Add(m.Grams.Mul(m.PricePerGram))
	}
	energy := in.PowerWatts.Div(thousand).Mul(in.PrintHours).Mul(in.EnergyPriceKWh)
	labor := in.LaborHours.Mul(in.LaborRate)
	depreciation := in.PrintHours.Mul(in.DepreciationPerHour)

	direct := decimal.Sum(material, energy, labor, depreciation, in.Extras)
	failure := direct.Mul(in.FailureRatePct).Div(hundred)
	cost := direct.Add(failure)
	price := cost.Mul(hundred.Add(in.MarginPct)).Div(hundred)

	cents := func(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
	return Breakdown{
		Material:         cents(material),
		Energy:           cents(energy),
		Labor:            cents(labor),
		Depreciation:     cents(depreciation),
		Extras:           cents(in.Extras),
		FailureAllowance: cents(failure),
		Cost:             cents(cost),
		Price:            cents(price),
		Profit:           cents(price).Sub(cents(cost)),
		MarginPct:        in.MarginPct,
	}, nil
}

func (in Input) validate() error {
	fields := []struct {
		name string
		v    decimal.Decimal
	}{
		{"print hours", in.PrintHours},
		{"power", in.PowerWatts},
		{"energy price", in.EnergyPriceKWh},
		{"labor hours", in.LaborHours},
		{"labor rate", in.LaborRate},
		{"depreciation", in.DepreciationPerHour},
		{"extras", in.Extras},
		{"failure rate", in.FailureRatePct},
		{"margin", in.MarginPct},
	}
	for _, f := range fields {
		if f.v.IsNegative() {
			return fmt.Errorf("%s: %w", f.name, ErrNegative)
		}
	}
	for i, m := range in.Materials {
		if m.Grams.IsNegative() || m.PricePerGram.IsNegative() {
			return fmt.Errorf("material %d: %w", i, ErrNegative)
		}
	}
	return nil
}

// MarginOf reports the profit as a percentage of price, 0 when price is 0.
func MarginOf(cost, price decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return decimal.Zero
	}
	return price.Sub(cost).Div(price).Mul(hundred).Round(2)
}
