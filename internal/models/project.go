package models

import (
	"encoding/json"
	"time"
)

// ProjectStatus is the lifecycle stage of a project (budget).
type ProjectStatus string

const (
	StatusDraft      ProjectStatus = "rascunho"
	StatusProduction ProjectStatus = "producao"
	StatusApproved   ProjectStatus = "aprovado"
	StatusFinished   ProjectStatus = "finalizado"
)

// statusOrder is the only path a project may take.
var statusOrder = []ProjectStatus{StatusDraft, StatusProduction, StatusApproved, StatusFinished}

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	return s.rank() >= 0
}

// Next returns the status that follows s, or false when s is terminal or unknown.
func (s ProjectStatus) Next() (ProjectStatus, bool) {
	r := s.rank()
	if r < 0 || r == len(statusOrder)-1 {
		return "", false
	}
	return statusOrder[r+1], true
}

// CanAdvanceTo reports whether next is the immediate successor of s.
func (s ProjectStatus) CanAdvanceTo(next ProjectStatus) bool {
	n, ok := s.Next()
	return ok && n == next
}

func (s ProjectStatus) rank() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Project is a budget that moves from draft to production once approved.
// Data holds the calculator inputs/outputs as an opaque JSON object.
type Project struct {
	ID        string          `json:"id"`
	AccountID int             `json:"-"`
	Name      string          `json:"nome"`
	Client    string          `json:"cliente,omitempty"`
	Status    ProjectStatus   `json:"status"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FilamentUsage is the amount of one filament a project consumes.
// ID may be ManualFilamentID for material that is not tracked in stock.
type FilamentUsage struct {
	ID    string  `json:"id"`
	Grams float64 `json:"peso"`
}

// ManualFilamentID marks a usage typed in by hand; it never touches stock.
const ManualFilamentID = "manual"

// Approval is the input of the budget approval transaction.
type Approval struct {
	AccountID int
	ProjectID string
	PrinterID string
	Usages    []FilamentUsage
	TotalTime float64 // added to the printer counter as-is
}

// StockPolicy decides what happens when an approval asks for more than is left.
type StockPolicy string

const (
	StockPolicyReject StockPolicy = "reject"
	StockPolicyClamp  StockPolicy = "clamp"
)

// Consumption reports what an approval actually deducted from one filament.
type Consumption struct {
	FilamentID string  `json:"id"`
	Requested  float64 `json:"requested"`
	Deducted   float64 `json:"deducted"`
	Remaining  float64 `json:"remaining"`
}

// ApprovalResult is returned after a committed approval.
type ApprovalResult struct {
	ProjectID string        `json:"projectId"`
	Status    ProjectStatus `json:"status"`
	Filaments []Consumption `json:"filaments"`
}
