package service

import (
	"context"

	"printshop/internal/models"
	"printshop/internal/repository"
)

// fakeFilamentRepo keeps filaments in a map and records what it was asked.
type fakeFilamentRepo struct {
	items map[string]models.Filament
	err   error

	created     []models.Filament
	updated     []models.Filament
	consumed    []float64
	lowRatio    float64
	consumeNote string
}

func newFakeFilamentRepo(fs ...models.Filament) *fakeFilamentRepo {
	r := &fakeFilamentRepo{items: map[string]models.Filament{}}
	for _, f := range fs {
		r.items[f.ID] = f
	}
	return r
}

func (r *fakeFilamentRepo) Create(ctx context.Context, f models.Filament) (models.Filament, error) {
	r.created = append(r.created, f)
	return f, r.err
}

func (r *fakeFilamentRepo) Get(ctx context.Context, accountID int, id string) (models.Filament, error) {
	if r.err != nil {
		return models.Filament{}, r.err
	}
	f, ok := r.items[id]
	if !ok || f.AccountID != accountID {
		return models.Filament{}, repository.ErrFilamentNotFound
	}
	return f, nil
}

func (r *fakeFilamentRepo) List(ctx context.Context, accountID int) ([]models.Filament, error) {
	out := make([]models.Filament, 0, len(r.items))
	for _, f := range r.items {
		out = append(out, f)
	}
	return out, r.err
}

func (r *fakeFilamentRepo) Update(ctx context.Context, f models.Filament) (models.Filament, error) {
	r.updated = append(r.updated, f)
	return f, r.err
}

func (r *fakeFilamentRepo) Delete(ctx context.Context, accountID int, id string) error {
	return r.err
}

func (r *fakeFilamentRepo) Consume(ctx context.Context, accountID int, id string, grams float64, note string) (models.StockMovement, error) {
	r.consumed = append(r.consumed, grams)
	r.consumeNote = note
	return models.StockMovement{FilamentID: id, Grams: -grams}, r.err
}

func (r *fakeFilamentRepo) LowStock(ctx context.Context, accountID int, ratio float64) ([]models.Filament, error) {
	r.lowRatio = ratio
	return nil, r.err
}

type fakePrinterRepo struct {
	items   map[string]models.Printer
	created []models.Printer
	updated []models.Printer
}

func (r *fakePrinterRepo) Create(ctx context.Context, p models.Printer) (models.Printer, error) {
	r.created = append(r.created, p)
	return p, nil
}

func (r *fakePrinterRepo) Get(ctx context.Context, accountID int, id string) (models.Printer, error) {
	p, ok := r.items[id]
	if !ok {
		return models.Printer{}, repository.ErrPrinterNotFound
	}
	return p, nil
}

func (r *fakePrinterRepo) List(ctx context.Context, accountID int) ([]models.Printer, error) {
	return nil, nil
}

func (r *fakePrinterRepo) Update(ctx context.Context, p models.Printer) (models.Printer, error) {
	r.updated = append(r.updated, p)
	return p, nil
}

func (r *fakePrinterRepo) Delete(ctx context.Context, accountID int, id string) error {
	return nil
}

type setStatusCall struct {
	id       string
	from, to models.ProjectStatus
}

type fakeProjectRepo struct {
	items      map[string]models.Project
	statusErr  error
	statusSets []setStatusCall
	listStatus models.ProjectStatus
}

func (r *fakeProjectRepo) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.Status = models.StatusDraft
	return p, nil
}

func (r *fakeProjectRepo) Get(ctx context.Context, accountID int, id string) (models.Project, error) {
	p, ok := r.items[id]
	if !ok {
		return models.Project{}, repository.ErrProjectNotFound
	}
	return p, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, accountID int, status models.ProjectStatus) ([]models.Project, error) {
	r.listStatus = status
	return nil, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, p models.Project) (models.Project, error) {
	return p, nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, accountID int, id string) error {
	return nil
}

func (r *fakeProjectRepo) SetStatus(ctx context.Context, accountID int, id string, from, to models.ProjectStatus) error {
	r.statusSets = append(r.statusSets, setStatusCall{id, from, to})
	if r.statusErr != nil {
		return r.statusErr
	}
	p := r.items[id]
	p.Status = to
	r.items[id] = p
	return nil
}

type fakeApprovalRepo struct {
	got    models.Approval
	policy models.StockPolicy
	calls  int
	err    error
}

func (r *fakeApprovalRepo) Approve(ctx context.Context, a models.Approval, policy models.StockPolicy) (models.ApprovalResult, error) {
	r.calls++
	r.got, r.policy = a, policy
	if r.err != nil {
		return models.ApprovalResult{}, r.err
	}
	return models.ApprovalResult{ProjectID: a.ProjectID, Status: models.StatusProduction}, nil
}
