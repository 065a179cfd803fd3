package repository

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"printshop/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestApprove_HappyPath(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", `{"custo": 12.5}`)
	seedPrinter(t, repo, acc, "pr1", 10)
	seedFilament(t, repo, acc, "f1", 1000, 500)
	seedFilament(t, repo, acc, "f2", 1000, 300)

	res, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc,
		ProjectID: "p1",
		PrinterID: "pr1",
		Usages: []models.FilamentUsage{
			{ID: "f2", Grams: 20},
			{ID: "f1", Grams: 120.5},
			{ID: "f2", Grams: 10},
		},
		TotalTime: 3.5,
	}, models.StockPolicyReject)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if res.Status != models.StatusProduction || len(res.Filaments) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Filaments[0].FilamentID != "f1" || res.Filaments[1].FilamentID != "f2" {
		t.Fatalf("filaments not processed in id order: %+v", res.Filaments)
	}
	if got := mustFilament(t, repo, acc, "f1").Remaining; got != 379.5 {
		t.Fatalf("f1 remaining = %v, want 379.5", got)
	}
	f2 := mustFilament(t, repo, acc, "f2")
	if f2.Remaining != 270 {
		t.Fatalf("f2 remaining = %v, want 270 (duplicates summed)", f2.Remaining)
	}
	if f2.Revision != 1 {
		t.Fatalf("f2 revision = %d, want 1", f2.Revision)
	}
	if got := mustPrinter(t, repo, acc, "pr1").TotalHours; got != 13.5 {
		t.Fatalf("printer hours = %v, want 13.5", got)
	}
	p := mustProject(t, repo, acc, "p1")
	if p.Status != models.StatusProduction {
		t.Fatalf("project status = %s", p.Status)
	}
	if !strings.Contains(string(p.Data), `"custo"`) || strings.Contains(string(p.Data), "status") {
		t.Fatalf("attributes blob changed unexpectedly: %s", p.Data)
	}

	moves, err := repo.Movements.List(testCtx(t), MovementFilter{AccountID: acc, Type: "approval"})
	if err != nil {
		t.Fatalf("List movements: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("want 2 movements, got %d", len(moves))
	}
	for _, m := range moves {
		if m.ProjectID != "p1" || m.Grams >= 0 || m.StockAfter != m.StockBefore+m.Grams {
			t.Fatalf("bad movement: %+v", m)
		}
	}
}

func TestApprove_MissingProjectChangesNothing(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedPrinter(t, repo, acc, "pr1", 7)
	seedFilament(t, repo, acc, "f1", 1000, 400)

	_, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc,
		ProjectID: "nope",
		PrinterID: "pr1",
		Usages:    []models.FilamentUsage{{ID: "f1", Grams: 50}},
		TotalTime: 2,
	}, models.StockPolicyReject)
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("want ErrProjectNotFound, got %v", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ErrProjectNotFound must wrap ErrNotFound")
	}
	if got := mustPrinter(t, repo, acc, "pr1").TotalHours; got != 7 {
		t.Fatalf("printer hours changed: %v", got)
	}
	if got := mustFilament(t, repo, acc, "f1").Remaining; got != 400 {
		t.Fatalf("filament changed: %v", got)
	}
}

func TestApprove_ManualUsageNeverTouchesStock(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")
	seedFilament(t, repo, acc, "f1", 1000, 400)

	res, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc,
		ProjectID: "p1",
		Usages:    []models.FilamentUsage{{ID: models.ManualFilamentID, Grams: 999}},
	}, models.StockPolicyReject)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if len(res.Filaments) != 0 {
		t.Fatalf("manual usage reported as consumption: %+v", res.Filaments)
	}
	f := mustFilament(t, repo, acc, "f1")
	if f.Remaining != 400 || f.Revision != 0 {
		t.Fatalf("filament touched: %+v", f)
	}
	moves, _ := repo.Movements.List(testCtx(t), MovementFilter{AccountID: acc})
	if len(moves) != 0 {
		t.Fatalf("unexpected movements: %+v", moves)
	}
}

func TestApprove_PrinterHoursAddExactly(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")
	seedPrinter(t, repo, acc, "pr1", 120.25)

	_, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc, ProjectID: "p1", PrinterID: "pr1", TotalTime: 0.75,
	}, models.StockPolicyReject)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got := mustPrinter(t, repo, acc, "pr1").TotalHours; got != 120.25+0.75 {
		t.Fatalf("printer hours = %v, want %v", got, 120.25+0.75)
	}
}

func TestApprove_EmptyPrinterIsSkipped(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")
	seedPrinter(t, repo, acc, "pr1", 5)

	if _, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc, ProjectID: "p1", TotalTime: 9,
	}, models.StockPolicyReject); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got := mustPrinter(t, repo, acc, "pr1").TotalHours; got != 5 {
		t.Fatalf("printer hours changed: %v", got)
	}
}

func TestApprove_UnknownPrinterRollsBack(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")
	seedFilament(t, repo, acc, "f1", 1000, 400)

	_, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc,
		ProjectID: "p1",
		PrinterID: "ghost",
		Usages:    []models.FilamentUsage{{ID: "f1", Grams: 10}},
		TotalTime: 1,
	}, models.StockPolicyReject)
	if !errors.Is(err, ErrPrinterNotFound) {
		t.Fatalf("want ErrPrinterNotFound, got %v", err)
	}
	if st := mustProject(t, repo, acc, "p1").Status; st != models.StatusDraft {
		t.Fatalf("status written despite rollback: %s", st)
	}
	if got := mustFilament(t, repo, acc, "f1").Remaining; got != 400 {
		t.Fatalf("filament changed: %v", got)
	}
}

func TestApprove_RejectPolicy(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")
	seedPrinter(t, repo, acc, "pr1", 1)
	seedFilament(t, repo, acc, "f1", 1000, 500)
	seedFilament(t, repo, acc, "f2", 1000, 30)

	_, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc,
		ProjectID: "p1",
		PrinterID: "pr1",
		Usages:    []models.FilamentUsage{{ID: "f1", Grams: 100}, {ID: "f2", Grams: 50}},
		TotalTime: 2,
	}, models.StockPolicyReject)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	if got := mustFilament(t, repo, acc, "f1").Remaining; got != 500 {
		t.Fatalf("f1 changed despite rollback: %v", got)
	}
	if got := mustPrinter(t, repo, acc, "pr1").TotalHours; got != 1 {
		t.Fatalf("printer changed despite rollback: %v", got)
	}
}

func TestApprove_ClampPolicy(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")
	seedFilament(t, repo, acc, "f1", 1000, 30)

	res, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc,
		ProjectID: "p1",
		Usages:    []models.FilamentUsage{{ID: "f1", Grams: 50}},
	}, models.StockPolicyClamp)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	c := res.Filaments[0]
	if c.Requested != 50 || c.Deducted != 30 || c.Remaining != 0 {
		t.Fatalf("unexpected consumption: %+v", c)
	}
	if got := mustFilament(t, repo, acc, "f1").Remaining; got != 0 {
		t.Fatalf("remaining = %v, want 0", got)
	}
	moves, _ := repo.Movements.List(testCtx(t), MovementFilter{AccountID: acc, FilamentID: "f1"})
	if len(moves) != 1 || moves[0].Grams != -30 || !strings.HasPrefix(moves[0].Note, "clamped") {
		t.Fatalf("unexpected movements: %+v", moves)
	}
}

func TestApprove_OnlyDraftsCanBeApproved(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")

	approval := models.Approval{AccountID: acc, ProjectID: "p1"}
	if _, err := repo.Approvals.Approve(testCtx(t), approval, models.StockPolicyReject); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	_, err := repo.Approvals.Approve(testCtx(t), approval, models.StockPolicyReject)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestApprove_UnknownFilament(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")

	_, err := repo.Approvals.Approve(testCtx(t), models.Approval{
		AccountID: acc,
		ProjectID: "p1",
		Usages:    []models.FilamentUsage{{ID: "missing", Grams: 1}},
	}, models.StockPolicyReject)
	if !errors.Is(err, ErrFilamentNotFound) {
		t.Fatalf("want ErrFilamentNotFound, got %v", err)
	}
	if st := mustProject(t, repo, acc, "p1").Status; st != models.StatusDraft {
		t.Fatalf("status written despite rollback: %s", st)
	}
}

func TestApprove_LegacyStatusKeyIsRewritten(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", `{"status":"rascunho","lucro":40}`)

	if _, err := repo.Approvals.Approve(testCtx(t), models.Approval{AccountID: acc, ProjectID: "p1"}, models.StockPolicyReject); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	data := string(mustProject(t, repo, acc, "p1").Data)
	if !strings.Contains(data, `"status":"producao"`) || !strings.Contains(data, `"lucro":40`) {
		t.Fatalf("unexpected blob: %s", data)
	}
}

func TestApprove_OtherAccountIsInvisible(t *testing.T) {
	repo, _, acc := newSQLiteRepo(t)
	seedProject(t, repo, acc, "p1", "")
	other, err := repo.Auth.Create("intruder", "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	_, err = repo.Approvals.Approve(testCtx(t), models.Approval{AccountID: other, ProjectID: "p1"}, models.StockPolicyReject)
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("want ErrProjectNotFound, got %v", err)
	}
}

func TestApprove_StockConflictRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectProjectStatusSQL)).
		WithArgs("p1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("rascunho"))
	mock.ExpectExec(regexp.QuoteMeta(setProjectStatusSQL)).
		WithArgs("producao", "producao", sqlmock.AnyArg(), "p1", 1, "rascunho").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectStockSQL)).
		WithArgs("f1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"peso_atual", "revision"}).AddRow(100.0, 4))
	mock.ExpectExec(regexp.QuoteMeta(updateStockSQL)).
		WithArgs(90.0, sqlmock.AnyArg(), "f1", 1, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = NewApprovalSQLite(db).Approve(testCtx(t), models.Approval{
		AccountID: 1,
		ProjectID: "p1",
		Usages:    []models.FilamentUsage{{ID: "f1", Grams: 10}},
	}, models.StockPolicyReject)
	if !errors.Is(err, ErrStockConflict) {
		t.Fatalf("want ErrStockConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMergeUsages(t *testing.T) {
	got := mergeUsages([]models.FilamentUsage{
		{ID: "b", Grams: 1},
		{ID: "manual", Grams: 50},
		{ID: "a", Grams: 2},
		{ID: "b", Grams: 3},
		{ID: "", Grams: 8},
		{ID: "z", Grams: 0},
	})
	if len(got) != 2 || got[0] != (models.FilamentUsage{ID: "a", Grams: 2}) || got[1] != (models.FilamentUsage{ID: "b", Grams: 4}) {
		t.Fatalf("mergeUsages = %+v", got)
	}
}
