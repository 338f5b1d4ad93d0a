package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"manage-rtc/backend/internal/dto"
	"manage-rtc/backend/internal/model"
	"manage-rtc/backend/internal/service"
	"manage-rtc/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock ResignationService ──

type mockResignationService struct {
	statsResult   *dto.ResignationStatsResponse
	statsErr      error
	listResult    *dto.ResignationListResponse
	listErr       error
	getResult     *model.Resignation
	getErr        error
	createResult  *dto.ResignationMutationResult
	createErr     error
	updateErr     error
	deleteResult  int64
	deleteErr     error
	approveResult *dto.ResignationMutationResult
	approveErr    error
	rejectResult  *dto.ResignationMutationResult
	rejectErr     error
	processErr    error
	processedDue  int
	processDueErr error
	deptsResult   []dto.DepartmentOption
	deptsErr      error
	empsResult    []dto.EmployeeOption
	empsErr       error
}

func (m *mockResignationService) Stats(_ context.Context, _ string) (*dto.ResignationStatsResponse, error) {
	return m.statsResult, m.statsErr
}
func (m *mockResignationService) List(_ context.Context, _ string, _ *dto.ListResignationsRequest) (*dto.ResignationListResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockResignationService) Get(_ context.Context, _, _ string) (*model.Resignation, error) {
	return m.getResult, m.getErr
}
func (m *mockResignationService) Create(_ context.Context, _ string, _ *dto.CreateResignationRequest, _ *dto.Actor) (*dto.ResignationMutationResult, error) {
	return m.createResult, m.createErr
}
func (m *mockResignationService) Update(_ context.Context, _ string, _ *dto.UpdateResignationRequest) error {
	return m.updateErr
}
func (m *mockResignationService) Delete(_ context.Context, _ string, _ []string) (int64, error) {
	return m.deleteResult, m.deleteErr
}
func (m *mockResignationService) Approve(_ context.Context, _, _ string, _ *dto.Actor) (*dto.ResignationMutationResult, error) {
	return m.approveResult, m.approveErr
}
func (m *mockResignationService) Reject(_ context.Context, _, _ string, _ *dto.Actor, _ string) (*dto.ResignationMutationResult, error) {
	return m.rejectResult, m.rejectErr
}
func (m *mockResignationService) ProcessEffectiveDate(_ context.Context, _, _ string) error {
	return m.processErr
}
func (m *mockResignationService) ProcessDue(_ context.Context, _ string) (int, error) {
	return m.processedDue, m.processDueErr
}
func (m *mockResignationService) Departments(_ context.Context, _ string) ([]dto.DepartmentOption, error) {
	return m.deptsResult, m.deptsErr
}
func (m *mockResignationService) EmployeesByDepartment(_ context.Context, _, _ string) ([]dto.EmployeeOption, error) {
	return m.empsResult, m.empsErr
}

// ── 测试辅助 ──

// fakeAuth 模拟 JWT 中间件注入的认证上下文
func fakeAuth(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("user_name", "Test User")
		c.Set("role", role)
		c.Set("company_id", "company-1")
		c.Next()
	}
}

func newTestRouter(mock *mockResignationService, role string) *gin.Engine {
	h := NewResignationHandler(mock, nil, zap.NewNop())
	r := gin.New()
	g := r.Group("", fakeAuth(role))
	g.GET("/resignations/stats", h.Stats)
	g.GET("/resignations", h.List)
	g.GET("/resignations/:id", h.Get)
	g.POST("/resignations", h.Create)
	g.PUT("/resignations/:id", h.Update)
	g.DELETE("/resignations", h.Delete)
	g.POST("/resignations/:id/approve", h.Approve)
	g.POST("/resignations/:id/reject", h.Reject)
	g.POST("/resignations/:id/process", h.Process)
	g.GET("/departments", h.Departments)
	g.GET("/departments/:id/employees", h.Employees)
	return r
}

func jsonBody(v interface{}) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ── 认证上下文缺失 ──

func TestResignationHandler_MissingAuthContext(t *testing.T) {
	h := NewResignationHandler(&mockResignationService{}, nil, zap.NewNop())
	r := gin.New()
	r.GET("/resignations/stats", h.Stats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/resignations/stats", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Done {
		t.Error("expected done=false")
	}
}

// ── Stats ──

func TestResignationHandler_Stats_Success(t *testing.T) {
	mock := &mockResignationService{
		statsResult: &dto.ResignationStatsResponse{
			TotalResignations:  "5",
			RecentResignations: "2",
			Pending:            1,
		},
	}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/resignations/stats", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if !resp.Done {
		t.Error("expected done=true")
	}
}

// ── Create ──

func TestResignationHandler_Create_Success(t *testing.T) {
	mock := &mockResignationService{
		createResult: &dto.ResignationMutationResult{
			Resignation: &model.Resignation{ResignationID: "res-1"},
		},
	}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/resignations", jsonBody(dto.CreateResignationRequest{
		EmployeeID: "emp-1",
	}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if !resp.Done {
		t.Error("expected done=true")
	}
}

func TestResignationHandler_Create_BadJSON(t *testing.T) {
	mock := &mockResignationService{}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/resignations", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestResignationHandler_Create_FieldError(t *testing.T) {
	mock := &mockResignationService{
		createErr: &service.FieldError{Field: "employee_id", Message: "该员工已有进行中的离职流程"},
	}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/resignations", jsonBody(dto.CreateResignationRequest{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Done {
		t.Error("expected done=false")
	}
	if resp.Errors["employee_id"] != "该员工已有进行中的离职流程" {
		t.Errorf("expected field error for employee_id, got %v", resp.Errors)
	}
}

// ── 错误映射 ──

func TestResignationHandler_Get_NotFound(t *testing.T) {
	mock := &mockResignationService{getErr: service.ErrResignationNotFound}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/resignations/res-x", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestResignationHandler_Approve_Conflict(t *testing.T) {
	mock := &mockResignationService{approveErr: service.ErrOnlyPendingApprove}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/resignations/res-1/approve", nil))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestResignationHandler_Approve_WrongManagerForbidden(t *testing.T) {
	mock := &mockResignationService{approveErr: service.ErrNotAssignedManager}
	r := newTestRouter(mock, "manager")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/resignations/res-1/approve", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

// ── Reject ──

func TestResignationHandler_Reject_EmptyBodyAllowed(t *testing.T) {
	mock := &mockResignationService{
		rejectResult: &dto.ResignationMutationResult{
			Resignation: &model.Resignation{ResignationID: "res-1"},
		},
	}
	r := newTestRouter(mock, "hr")

	// 驳回原因可选，空 body 不应 400
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/resignations/res-1/reject", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ── Delete ──

func TestResignationHandler_Delete_MissingIDs(t *testing.T) {
	mock := &mockResignationService{}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/resignations", jsonBody(map[string]interface{}{}))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// binding required,min=1 拦截空列表
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ── 下拉数据 ──

func TestResignationHandler_Employees_Success(t *testing.T) {
	mock := &mockResignationService{
		empsResult: []dto.EmployeeOption{{EmployeeID: "emp-1", EmployeeName: "Arjun Mehta"}},
	}
	r := newTestRouter(mock, "hr")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/departments/dept-1/employees", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
