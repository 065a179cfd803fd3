package models

import "time"

// Filament kinds. SLA stock is resin measured in ml; FDM stock is filament in grams.
const (
	FilamentFDM = "FDM"
	FilamentSLA = "SLA"
)

// Filament is a spool (or resin bottle) tracked in stock.
type Filament struct {
	ID          string    `json:"id"`
	AccountID   int       `json:"-"`
	Name        string    `json:"nome"`
	Material    string    `json:"material"`  // PLA, PETG, ABS, TPU, resin...
	Type        string    `json:"tipo"`      // FDM | SLA
	ColorHex    string    `json:"corHex"`    // e.g. #1E90FF
	TotalWeight float64   `json:"pesoTotal"` // capacity, g or ml
	Remaining   float64   `json:"pesoAtual"` // what is left, g or ml
	Price       float64   `json:"preco"`     // price paid for the whole spool
	Revision    int64     `json:"revision"`  // bumped on every stock change
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PricePerGram derives the unit cost from the spool price and capacity.
func (f Filament) PricePerGram() float64 {
	if f.TotalWeight <= 0 {
		return 0
	}
	return f.Price / f.TotalWeight
}

// IsLow reports whether the remaining stock is at or below ratio of the capacity.
func (f Filament) IsLow(ratio float64) bool {
	if f.TotalWeight <= 0 {
		return false
	}
	return f.Remaining <= f.TotalWeight*ratio
}
