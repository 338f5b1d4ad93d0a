package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"manage-rtc/backend/internal/model"
)

// legacyEmployeeIDPattern 旧库兼容过滤：employee_id 必须是合法的 UUID 文本。
// 历史数据中存在 "EMP-8984" 之类的工号引用，联表前先排除，
// 否则无法与 employees 表的 uuid 主键对齐。
const legacyEmployeeIDPattern = `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`

// ResignationListRow 列表查询的联表结果行。
// employee/department/designation/manager 引用均已解析；
// manager 解析失败时回退到记录上的快照字段。
type ResignationListRow struct {
	ResignationID        string     `gorm:"column:resignation_id"         json:"resignation_id"`
	ResignationDate      string     `gorm:"column:resignation_date"       json:"resignation_date"`
	EffectiveDate        string     `gorm:"column:effective_date"         json:"effective_date"`
	NoticeDate           string     `gorm:"column:notice_date"            json:"notice_date"`
	Reason               string     `gorm:"column:reason"                 json:"reason"`
	Status               string     `gorm:"column:status"                 json:"status"`
	ResignationStatus    string     `gorm:"column:resignation_status"     json:"resignation_status"`
	ApprovedBy           *string    `gorm:"column:approved_by"            json:"approved_by,omitempty"`
	ApprovedAt           *time.Time `gorm:"column:approved_at"            json:"approved_at,omitempty"`
	RejectedBy           *string    `gorm:"column:rejected_by"            json:"rejected_by,omitempty"`
	RejectedAt           *time.Time `gorm:"column:rejected_at"            json:"rejected_at,omitempty"`
	RejectionReason      *string    `gorm:"column:rejection_reason"       json:"rejection_reason,omitempty"`
	ProcessedAt          *time.Time `gorm:"column:processed_at"           json:"processed_at,omitempty"`
	CreatedAt            time.Time  `gorm:"column:created_at"             json:"created_at"`
	EmployeeID           string     `gorm:"column:employee_id"            json:"employee_id"`   // 员工主键
	EmployeeCode         string     `gorm:"column:employee_code"          json:"employee_code"` // 工号
	EmployeeName         string     `gorm:"column:employee_name"          json:"employee_name"`
	EmployeeImage        string     `gorm:"column:employee_image"         json:"employee_image,omitempty"`
	DepartmentID         string     `gorm:"column:department_id"          json:"department_id,omitempty"`
	Department           string     `gorm:"column:department"             json:"department,omitempty"`
	Designation          string     `gorm:"column:designation"            json:"designation,omitempty"`
	ReportingManagerID   string     `gorm:"column:reporting_manager_id"   json:"reporting_manager_id,omitempty"`
	ReportingManagerName string     `gorm:"column:reporting_manager_name" json:"reporting_manager_name,omitempty"`
}

// ResignationRepository 离职记录数据访问接口
type ResignationRepository interface {
	Create(ctx context.Context, r *model.Resignation) error
	GetByResignationID(ctx context.Context, resignationID string) (*model.Resignation, error)
	FindByResignationIDs(ctx context.Context, resignationIDs []string) ([]model.Resignation, error)
	Save(ctx context.Context, r *model.Resignation) error
	DeleteByResignationIDs(ctx context.Context, resignationIDs []string) (int64, error)

	CountAll(ctx context.Context) (int64, error)
	CountByStatuses(ctx context.Context, statuses ...string) (int64, error)
	CountNoticeDateInRange(ctx context.Context, startYMD, endYMD string) (int64, error)
	// CountActiveByEmployee 统计员工未走完的离职流程（pending / on_notice），
	// 供生命周期校验使用；excludeResignationID 非空时排除指定记录
	CountActiveByEmployee(ctx context.Context, employeeID, excludeResignationID string) (int64, error)

	// List 按 notice_date 半开区间 [startYMD, endYMD) 联表查询；
	// 两个参数均为空串时不做日期过滤。
	List(ctx context.Context, startYMD, endYMD string) ([]ResignationListRow, error)

	// FindDue 查找通知期已满的记录：on_notice（含历史 approved）
	// 且 resignation_date <= todayYMD
	FindDue(ctx context.Context, todayYMD string) ([]model.Resignation, error)
}

// resignationRepo ResignationRepository 的 GORM 实现
type resignationRepo struct {
	db *gorm.DB
}

// NewResignationRepo 创建 ResignationRepository 实例
func NewResignationRepo(db *gorm.DB) ResignationRepository {
	return &resignationRepo{db: db}
}

func (r *resignationRepo) Create(ctx context.Context, rec *model.Resignation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *resignationRepo) GetByResignationID(ctx context.Context, resignationID string) (*model.Resignation, error) {
	var rec model.Resignation
	err := r.db.WithContext(ctx).
		Where("resignation_id = ?", resignationID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *resignationRepo) FindByResignationIDs(ctx context.Context, resignationIDs []string) ([]model.Resignation, error) {
	var recs []model.Resignation
	err := r.db.WithContext(ctx).
		Where("resignation_id IN ?", resignationIDs).
		Find(&recs).Error
	return recs, err
}

func (r *resignationRepo) Save(ctx context.Context, rec *model.Resignation) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *resignationRepo) DeleteByResignationIDs(ctx context.Context, resignationIDs []string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("resignation_id IN ?", resignationIDs).
		Delete(&model.Resignation{})
	return result.RowsAffected, result.Error
}

// ── 统计 ──

func (r *resignationRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Resignation{}).Count(&count).Error
	return count, err
}

func (r *resignationRepo) CountByStatuses(ctx context.Context, statuses ...string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Resignation{}).
		Where("resignation_status IN ?", statuses).
		Count(&count).Error
	return count, err
}

func (r *resignationRepo) CountNoticeDateInRange(ctx context.Context, startYMD, endYMD string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Resignation{}).
		Where("notice_date >= ? AND notice_date < ?", startYMD, endYMD).
		Count(&count).Error
	return count, err
}

func (r *resignationRepo) CountActiveByEmployee(ctx context.Context, employeeID, excludeResignationID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Resignation{}).
		Where("employee_id = ?", employeeID).
		Where("resignation_status IN ?", []string{
			model.ResignationStatusPending,
			model.ResignationStatusOnNotice,
			model.ResignationStatusLegacyApproved,
		})
	if excludeResignationID != "" {
		query = query.Where("resignation_id <> ?", excludeResignationID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// ── 列表联查 ──

func (r *resignationRepo) List(ctx context.Context, startYMD, endYMD string) ([]ResignationListRow, error) {
	query := r.db.WithContext(ctx).
		Table("resignation AS r").
		Select(`r.resignation_id,
			r.resignation_date,
			r.effective_date,
			r.notice_date,
			r.reason,
			r.status,
			r.resignation_status,
			r.approved_by,
			r.approved_at,
			r.rejected_by,
			r.rejected_at,
			r.rejection_reason,
			r.processed_at,
			r.created_at,
			e.employee_id::text AS employee_id,
			e.employee_code,
			COALESCE(NULLIF(TRIM(e.first_name || ' ' || COALESCE(e.last_name, '')), ''), e.employee_code) AS employee_name,
			COALESCE(e.avatar_url, '') AS employee_image,
			COALESCE(d.department_id::text, '') AS department_id,
			COALESCE(d.name, '') AS department,
			COALESCE(g.name, '') AS designation,
			COALESCE(m.employee_id::text, r.reporting_manager_id) AS reporting_manager_id,
			COALESCE(NULLIF(TRIM(m.first_name || ' ' || COALESCE(m.last_name, '')), ''), r.reporting_manager_name) AS reporting_manager_name`).
		// 内联 employees：引用解析失败的记录直接剔除，而不是渲染空行
		Joins("JOIN employees e ON e.employee_id::text = r.employee_id AND e.deleted_at IS NULL").
		Joins("LEFT JOIN departments d ON d.department_id = e.department_id AND d.deleted_at IS NULL").
		Joins("LEFT JOIN designations g ON g.designation_id = e.designation_id AND g.deleted_at IS NULL").
		Joins("LEFT JOIN employees m ON m.employee_id::text = r.reporting_manager_id AND m.deleted_at IS NULL").
		// legacy 兼容过滤：非 UUID 格式的 employee_id 一律排除
		Where("r.employee_id ~ ?", legacyEmployeeIDPattern)

	if startYMD != "" && endYMD != "" {
		query = query.Where("r.notice_date >= ? AND r.notice_date < ?", startYMD, endYMD)
	}

	var rows []ResignationListRow
	err := query.
		Order("r.notice_date DESC, r.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ── 调度查询 ──

func (r *resignationRepo) FindDue(ctx context.Context, todayYMD string) ([]model.Resignation, error) {
	var recs []model.Resignation
	err := r.db.WithContext(ctx).
		Where("resignation_status IN ?", []string{
			model.ResignationStatusOnNotice,
			model.ResignationStatusLegacyApproved,
		}).
		Where("resignation_date <= ?", todayYMD).
		Find(&recs).Error
	return recs, err
}
