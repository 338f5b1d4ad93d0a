package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"manage-rtc/backend/internal/model"
	"manage-rtc/backend/internal/repository"
)

// ── Mock ResignationRepository ──

type mockResignationRepo struct {
	records map[string]*model.Resignation

	countErr error // 注入统计类查询的失败
	saveErr  error
}

func newMockResignationRepo() *mockResignationRepo {
	return &mockResignationRepo{records: make(map[string]*model.Resignation)}
}

func (m *mockResignationRepo) Create(_ context.Context, r *model.Resignation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *r
	m.records[r.ResignationID] = &cp
	return nil
}

func (m *mockResignationRepo) GetByResignationID(_ context.Context, id string) (*model.Resignation, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResignationRepo) FindByResignationIDs(_ context.Context, ids []string) ([]model.Resignation, error) {
	var result []model.Resignation
	for _, id := range ids {
		if r, ok := m.records[id]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockResignationRepo) Save(_ context.Context, r *model.Resignation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *r
	m.records[r.ResignationID] = &cp
	return nil
}

func (m *mockResignationRepo) DeleteByResignationIDs(_ context.Context, ids []string) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := m.records[id]; ok {
			delete(m.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *mockResignationRepo) CountAll(_ context.Context) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.records)), nil
}

func (m *mockResignationRepo) CountByStatuses(_ context.Context, statuses ...string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, r := range m.records {
		for _, s := range statuses {
			if r.ResignationStatus == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (m *mockResignationRepo) CountNoticeDateInRange(_ context.Context, startYMD, endYMD string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, r := range m.records {
		if r.NoticeDate >= startYMD && r.NoticeDate < endYMD {
			n++
		}
	}
	return n, nil
}

func (m *mockResignationRepo) CountActiveByEmployee(_ context.Context, employeeID, excludeResignationID string) (int64, error) {
	var n int64
	for _, r := range m.records {
		if r.EmployeeID != employeeID {
			continue
		}
		if excludeResignationID != "" && r.ResignationID == excludeResignationID {
			continue
		}
		if r.IsPending() || r.IsOnNotice() {
			n++
		}
	}
	return n, nil
}

func (m *mockResignationRepo) List(_ context.Context, startYMD, endYMD string) ([]repository.ResignationListRow, error) {
	var rows []repository.ResignationListRow
	for _, r := range m.records {
		if startYMD != "" && endYMD != "" {
			if r.NoticeDate < startYMD || r.NoticeDate >= endYMD {
				continue
			}
		}
		rows = append(rows, repository.ResignationListRow{
			ResignationID:        r.ResignationID,
			EmployeeID:           r.EmployeeID,
			ResignationStatus:    r.ResignationStatus,
			NoticeDate:           r.NoticeDate,
			ResignationDate:      r.ResignationDate,
			ReportingManagerName: r.ReportingManagerName,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].NoticeDate > rows[j].NoticeDate })
	return rows, nil
}

func (m *mockResignationRepo) FindDue(_ context.Context, todayYMD string) ([]model.Resignation, error) {
	var due []model.Resignation
	for _, r := range m.records {
		if r.IsOnNotice() && r.ResignationDate != "" && r.ResignationDate <= todayYMD {
			due = append(due, *r)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ResignationID < due[j].ResignationID })
	return due, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee

	statusErr error // 注入状态更新的失败
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, employeeID string) (*model.Employee, error) {
	if e, ok := m.employees[employeeID]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByAccountUserID(_ context.Context, accountUserID string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.AccountUserID != nil && *e.AccountUserID == accountUserID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetActiveByID(_ context.Context, employeeID string) (*model.Employee, error) {
	if e, ok := m.employees[employeeID]; ok && strings.EqualFold(e.Status, model.EmployeeStatusActive) {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListActiveByDepartment(_ context.Context, departmentID string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if e.DepartmentID == departmentID && strings.EqualFold(e.Status, model.EmployeeStatusActive) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FirstName < result[j].FirstName })
	return result, nil
}

func (m *mockEmployeeRepo) UpdateStatus(_ context.Context, employeeID, status string) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	e, ok := m.employees[employeeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = status
	return nil
}

func (m *mockEmployeeRepo) MarkResigned(_ context.Context, employeeID string, lastWorkingDate time.Time) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	e, ok := m.employees[employeeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Status = model.EmployeeStatusResigned
	e.LastWorkingDate = &lastWorkingDate
	return nil
}

func (m *mockEmployeeRepo) RevertToActive(_ context.Context, employeeIDs []string) (int64, error) {
	var n int64
	for _, id := range employeeIDs {
		if e, ok := m.employees[id]; ok {
			e.Status = model.EmployeeStatusActive
			e.NoticeDate = nil
			e.LastWorkingDate = nil
			n++
		}
	}
	return n, nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, departmentID string) (*model.Department, error) {
	if d, ok := m.departments[departmentID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock PromotionRepository ──

type mockPromotionRepo struct {
	promotions map[string]*model.Promotion

	cancelErr error
}

func newMockPromotionRepo() *mockPromotionRepo {
	return &mockPromotionRepo{promotions: make(map[string]*model.Promotion)}
}

func (m *mockPromotionRepo) CancelPendingByEmployee(_ context.Context, employeeID string, updatedByUserID, updatedByName *string) (int64, error) {
	if m.cancelErr != nil {
		return 0, m.cancelErr
	}
	var n int64
	for _, p := range m.promotions {
		if p.EmployeeID == employeeID && p.Status == model.PromotionStatusPending {
			p.Status = model.PromotionStatusCancelled
			p.Notes = "Auto-cancelled due to resignation request"
			p.UpdatedByUserID = updatedByUserID
			p.UpdatedByName = updatedByName
			n++
		}
	}
	return n, nil
}

func (m *mockPromotionRepo) CountPendingByEmployee(_ context.Context, employeeID string) (int64, error) {
	var n int64
	for _, p := range m.promotions {
		if p.EmployeeID == employeeID && p.Status == model.PromotionStatusPending {
			n++
		}
	}
	return n, nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	created []*model.Notification

	createErr error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, n)
	return nil
}

// ── Mock Manager ──

// mockTenant 单个公司的全套 mock 仓储
type mockTenant struct {
	resignations  *mockResignationRepo
	employees     *mockEmployeeRepo
	departments   *mockDepartmentRepo
	promotions    *mockPromotionRepo
	notifications *mockNotificationRepo
}

func newMockTenant() *mockTenant {
	return &mockTenant{
		resignations:  newMockResignationRepo(),
		employees:     newMockEmployeeRepo(),
		departments:   newMockDepartmentRepo(),
		promotions:    newMockPromotionRepo(),
		notifications: newMockNotificationRepo(),
	}
}

func (t *mockTenant) repository() *repository.Repository {
	return &repository.Repository{
		Resignation:  t.resignations,
		Employee:     t.employees,
		Department:   t.departments,
		Promotion:    t.promotions,
		Notification: t.notifications,
	}
}

type mockManager struct {
	tenants   map[string]*mockTenant
	companies []model.Company

	companiesErr error
	brokenTenant string // 该公司的 ForCompany 直接报错
}

func newMockManager() *mockManager {
	return &mockManager{tenants: make(map[string]*mockTenant)}
}

func (m *mockManager) addCompany(companyID, name string, active bool) *mockTenant {
	t := newMockTenant()
	m.tenants[companyID] = t
	m.companies = append(m.companies, model.Company{CompanyID: companyID, Name: name, IsActive: active})
	return t
}

func (m *mockManager) ForCompany(_ context.Context, companyID string) (*repository.Repository, error) {
	if companyID == m.brokenTenant && companyID != "" {
		return nil, errors.New("租户库连接失败")
	}
	if t, ok := m.tenants[companyID]; ok {
		return t.repository(), nil
	}
	return nil, errors.New("公司不存在: " + companyID)
}

func (m *mockManager) ActiveCompanies(_ context.Context) ([]model.Company, error) {
	if m.companiesErr != nil {
		return nil, m.companiesErr
	}
	var active []model.Company
	for _, c := range m.companies {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}
