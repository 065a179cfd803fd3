package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"printshop/internal/models"
	"printshop/internal/pricing"
	"printshop/internal/service"
	"printshop/internal/slicer"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockInventory struct {
	filaments []models.Filament
	filament  models.Filament
	movement  models.StockMovement
	err       error
	lowErr    error

	lastAccount int
	lastID      string
	lastSaved   models.Filament
	lastGrams   float64
	lastNote    string
}

func (m *mockInventory) CreateFilament(ctx context.Context, f models.Filament) (models.Filament, error) {
	m.lastSaved = f
	f.ID = "fil-1"
	return f, m.err
}
func (m *mockInventory) GetFilament(ctx context.Context, accountID int, id string) (models.Filament, error) {
	m.lastAccount, m.lastID = accountID, id
	return m.filament, m.err
}
func (m *mockInventory) ListFilaments(ctx context.Context, accountID int) ([]models.Filament, error) {
	m.lastAccount = accountID
	return m.filaments, m.err
}
func (m *mockInventory) UpdateFilament(ctx context.Context, f models.Filament) (models.Filament, error) {
	m.lastSaved = f
	return f, m.err
}
func (m *mockInventory) DeleteFilament(ctx context.Context, accountID int, id string) error {
	m.lastAccount, m.lastID = accountID, id
	return m.err
}
func (m *mockInventory) ConsumeFilament(ctx context.Context, accountID int, id string, grams float64, note string) (models.StockMovement, error) {
	m.lastAccount, m.lastID, m.lastGrams, m.lastNote = accountID, id, grams, note
	return m.movement, m.err
}
func (m *mockInventory) LowStock(ctx context.Context, accountID int) ([]models.Filament, error) {
	m.lastAccount = accountID
	return m.filaments, m.lowErr
}

type mockPrinters struct {
	printers []models.Printer
	printer  models.Printer
	err      error

	lastAccount int
	lastID      string
	lastSaved   models.Printer
}

func (m *mockPrinters) CreatePrinter(ctx context.Context, p models.Printer) (models.Printer, error) {
	m.lastSaved = p
	p.ID = "prn-1"
	return p, m.err
}
func (m *mockPrinters) GetPrinter(ctx context.Context, accountID int, id string) (models.Printer, error) {
	m.lastAccount, m.lastID = accountID, id
	return m.printer, m.err
}
func (m *mockPrinters) ListPrinters(ctx context.Context, accountID int) ([]models.Printer, error) {
	m.lastAccount = accountID
	return m.printers, m.err
}
func (m *mockPrinters) UpdatePrinter(ctx context.Context, p models.Printer) (models.Printer, error) {
	m.lastSaved = p
	return p, m.err
}
func (m *mockPrinters) DeletePrinter(ctx context.Context, accountID int, id string) error {
	m.lastAccount, m.lastID = accountID, id
	return m.err
}

type mockProjects struct {
	projects   []models.Project
	project    models.Project
	result     models.ApprovalResult
	err        error
	approveErr error

	lastAccount  int
	lastID       string
	lastStatus   models.ProjectStatus
	lastSaved    models.Project
	lastApproval models.Approval
}

func (m *mockProjects) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	m.lastSaved = p
	p.ID = "prj-1"
	p.Status = models.StatusDraft
	return p, m.err
}
func (m *mockProjects) GetProject(ctx context.Context, accountID int, id string) (models.Project, error) {
	m.lastAccount, m.lastID = accountID, id
	return m.project, m.err
}
func (m *mockProjects) ListProjects(ctx context.Context, accountID int, status models.ProjectStatus) ([]models.Project, error) {
	m.lastAccount, m.lastStatus = accountID, status
	return m.projects, m.err
}
func (m *mockProjects) UpdateProject(ctx context.Context, p models.Project) (models.Project, error) {
	m.lastSaved = p
	return p, m.err
}
func (m *mockProjects) DeleteProject(ctx context.Context, accountID int, id string) error {
	m.lastAccount, m.lastID = accountID, id
	return m.err
}
func (m *mockProjects) AdvanceStatus(ctx context.Context, accountID int, id string, to models.ProjectStatus) (models.Project, error) {
	m.lastAccount, m.lastID, m.lastStatus = accountID, id, to
	p := m.project
	p.Status = to
	return p, m.err
}
func (m *mockProjects) Approve(ctx context.Context, a models.Approval) (models.ApprovalResult, error) {
	m.lastApproval = a
	return m.result, m.approveErr
}

type mockMovements struct {
	resp []models.StockMovement
	err  error

	lastAccount int
	lastFilter  service.LogFilter
}

func (m *mockMovements) ListMovements(ctx context.Context, accountID int, f service.LogFilter) ([]models.StockMovement, error) {
	m.lastAccount = accountID
	m.lastFilter = f
	return m.resp, m.err
}

type mockFiles struct {
	report       slicer.Report
	lastFilename string
	lastData     []byte
}

func (m *mockFiles) AnalyzeFile(filename string, data []byte) slicer.Report {
	m.lastFilename = filename
	m.lastData = data
	return m.report
}

type mockQuotes struct {
	breakdown   pricing.Breakdown
	err         error
	lastAccount int
	lastReq     service.QuoteRequest
}

func (m *mockQuotes) Quote(ctx context.Context, accountID int, req service.QuoteRequest) (pricing.Breakdown, error) {
	m.lastAccount = accountID
	m.lastReq = req
	return m.breakdown, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, 0)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func serve(r http.Handler, method, target string, body io.Reader, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}
