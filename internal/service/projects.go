package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"printshop/internal/models"
	"printshop/internal/repository"
)

type ProjectService struct {
	repo      repository.ProjectRepo
	approvals repository.ApprovalRepo
	policy    models.StockPolicy
}

func NewProjectService(repo repository.ProjectRepo, approvals repository.ApprovalRepo, policy models.StockPolicy) *ProjectService {
	if policy == "" {
		policy = models.StockPolicyReject
	}
	return &ProjectService{repo: repo, approvals: approvals, policy: policy}
}

func normalizeProject(p *models.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Client = strings.TrimSpace(p.Client)
	if p.Name == "" {
		return fmt.Errorf("%w: nome is required", ErrInvalidInput)
	}
	if len(p.Data) > 0 && !isJSONObject(p.Data) {
		return fmt.Errorf("%w: data must be a JSON object", ErrInvalidInput)
	}
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	return json.Valid(raw) && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}

func (s *ProjectService) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if err := normalizeProject(&p); err != nil {
		return models.Project{}, err
	}
	return s.repo.Create(ctx, p)
}

func (s *ProjectService) GetProject(ctx context.Context, accountID int, id string) (models.Project, error) {
	return s.repo.Get(ctx, accountID, id)
}

func (s *ProjectService) ListProjects(ctx context.Context, accountID int, status models.ProjectStatus) ([]models.Project, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.repo.List(ctx, accountID, status)
}

func (s *ProjectService) UpdateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if err := normalizeProject(&p); err != nil {
		return models.Project{}, err
	}
	return s.repo.Update(ctx, p)
}

func (s *ProjectService) DeleteProject(ctx context.Context, accountID int, id string) error {
	return s.repo.Delete(ctx, accountID, id)
}

// AdvanceStatus moves a project one step forward. Production can only be
// entered through Approve, which also books stock and printer time.
func (s *ProjectService) AdvanceStatus(ctx context.Context, accountID int, id string, to models.ProjectStatus) (models.Project, error) {
	if !to.Valid() {
		return models.Project{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	if to == models.StatusProduction {
		return models.Project{}, fmt.Errorf("%w: use the approve endpoint to start production", repository.ErrInvalidTransition)
	}

	p, err := s.repo.Get(ctx, accountID, id)
	if err != nil {
		return models.Project{}, err
	}
	if !p.Status.CanAdvanceTo(to) {
		return models.Project{}, fmt.Errorf("%w: %s -> %s", repository.ErrInvalidTransition, p.Status, to)
	}
	if err := s.repo.SetStatus(ctx, accountID, id, p.Status, to); err != nil {
		return models.Project{}, err
	}
	return s.repo.Get(ctx, accountID, id)
}

// Approve validates the request and runs the approval transaction with the
// configured stock policy.
func (s *ProjectService) Approve(ctx context.Context, a models.Approval) (models.ApprovalResult, error) {
	a.ProjectID = strings.TrimSpace(a.ProjectID)
	a.PrinterID = strings.TrimSpace(a.PrinterID)
	if a.ProjectID == "" {
		return models.ApprovalResult{}, fmt.Errorf("%w: projectId is required", ErrInvalidInput)
	}
	if math.IsNaN(a.TotalTime) || math.IsInf(a.TotalTime, 0) || a.TotalTime < 0 {
		return models.ApprovalResult{}, fmt.Errorf("%w: totalTime must be a non-negative number", ErrInvalidInput)
	}
	for i, u := range a.Usages {
		if !finiteNonNegative(u.Grams) {
			return models.ApprovalResult{}, fmt.Errorf("%w: filaments[%d].peso must be non-negative", ErrInvalidInput, i)
		}
	}
	return s.approvals.Approve(ctx, a, s.policy)
}
