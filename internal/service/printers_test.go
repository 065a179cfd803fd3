package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"printshop/internal/models"
)

func TestPrinterService_Validation(t *testing.T) {
	repo := &fakePrinterRepo{}
	svc := NewPrinterService(repo)
	ctx := context.Background()

	bad := []models.Printer{
		{Name: "   "},
		{Name: "Ender 3", PowerWatts: -1},
		{Name: "Ender 3", TotalRevenue: math.NaN()},
	}
	for _, p := range bad {
		if _, err := svc.CreatePrinter(ctx, p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("CreatePrinter(%+v) err=%v, want ErrInvalidInput", p, err)
		}
	}
	if len(repo.created) != 0 {
		t.Fatalf("invalid printers reached the repo: %+v", repo.created)
	}

	got, err := svc.CreatePrinter(ctx, models.Printer{Name: "  Bambu P1S ", Model: " P1S ", PowerWatts: 350})
	if err != nil {
		t.Fatalf("CreatePrinter: %v", err)
	}
	if got.Name != "Bambu P1S" || got.Model != "P1S" {
		t.Fatalf("fields not trimmed: %+v", got)
	}
}

func TestPrinterService_UpdateValidates(t *testing.T) {
	repo := &fakePrinterRepo{}
	svc := NewPrinterService(repo)

	if _, err := svc.UpdatePrinter(context.Background(), models.Printer{ID: "p1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdatePrinter(context.Background(), models.Printer{ID: "p1", Name: "X1C"}); err != nil {
		t.Fatalf("UpdatePrinter: %v", err)
	}
	if len(repo.updated) != 1 || repo.updated[0].Name != "X1C" {
		t.Fatalf("unexpected updates: %+v", repo.updated)
	}
}
