package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"manage-rtc/backend/internal/dto"
	"manage-rtc/backend/internal/model"
	"manage-rtc/backend/internal/repository"
	"manage-rtc/backend/pkg/dateutil"
)

// ── 离职模块业务错误 ──

var (
	ErrResignationNotFound       = errors.New("离职申请不存在")
	ErrEmployeeNotFound          = errors.New("员工不存在")
	ErrManagerNotFound           = errors.New("汇报经理不存在或不在职")
	ErrEmployeeProfileNotFound   = errors.New("未找到当前用户对应的员工档案")
	ErrManagerProfileNotFound    = errors.New("未找到当前用户对应的经理档案")
	ErrSelfSubmissionOnly        = errors.New("员工只能提交本人的离职申请")
	ErrManagerSelfReference      = errors.New("汇报经理不能是离职员工本人")
	ErrDepartmentMismatch        = errors.New("员工不属于所选部门")
	ErrReasonRequired            = errors.New("离职原因不能为空")
	ErrReasonTooLong             = errors.New("离职原因不能超过500个字符")
	ErrInvalidResignationDate    = errors.New("离职日期格式无效")
	ErrInvalidNoticeDate         = errors.New("通知日期格式无效")
	ErrResignationBeforeNotice   = errors.New("离职日期不能早于通知日期")
	ErrResignationDateInPast     = errors.New("离职日期不能早于今天")
	ErrInvalidEmployeeID         = errors.New("员工ID格式无效")
	ErrInvalidDepartmentID       = errors.New("部门ID格式无效")
	ErrInvalidManagerID          = errors.New("汇报经理ID格式无效")
	ErrResignationNotEditable    = errors.New("离职申请审批后不可再修改")
	ErrOnlyPendingApprove        = errors.New("只有待处理的离职申请才能被批准")
	ErrOnlyPendingReject         = errors.New("只有待处理的离职申请才能被驳回")
	ErrOnlyPendingDelete         = errors.New("只有待处理的离职申请才能被删除")
	ErrOnlyOnNoticeProcess       = errors.New("只有通知期内的离职申请才能被办结")
	ErrNotAssignedManager        = errors.New("只有指定的汇报经理才能审批")
	ErrResignationDateNotReached = errors.New("离职日期尚未到达")
	ErrInvalidStoredDate         = errors.New("离职日期无效")
	ErrDepartmentIDRequired      = errors.New("部门ID不能为空")
	ErrMissingResignationID      = errors.New("缺少离职申请ID")
)

// defaultRejectionReason 驳回未填原因时的默认文案
const defaultRejectionReason = "Not specified"

// maxReasonLength 离职原因长度上限
const maxReasonLength = 500

// FieldError 携带字段定位的校验错误，Handler 渲染为 errors 映射
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// ResignationService 离职生命周期业务接口
type ResignationService interface {
	Stats(ctx context.Context, companyID string) (*dto.ResignationStatsResponse, error)
	List(ctx context.Context, companyID string, req *dto.ListResignationsRequest) (*dto.ResignationListResponse, error)
	Get(ctx context.Context, companyID, resignationID string) (*model.Resignation, error)
	Create(ctx context.Context, companyID string, req *dto.CreateResignationRequest, actor *dto.Actor) (*dto.ResignationMutationResult, error)
	Update(ctx context.Context, companyID string, req *dto.UpdateResignationRequest) error
	Delete(ctx context.Context, companyID string, resignationIDs []string) (int64, error)
	Approve(ctx context.Context, companyID, resignationID string, actor *dto.Actor) (*dto.ResignationMutationResult, error)
	Reject(ctx context.Context, companyID, resignationID string, actor *dto.Actor, reason string) (*dto.ResignationMutationResult, error)
	// ProcessEffectiveDate 手动办结：通知期满后把员工置为 Resigned
	ProcessEffectiveDate(ctx context.Context, companyID, resignationID string) error
	// ProcessDue 批量办结所有通知期已满的记录（调度器与手动触发共用）
	ProcessDue(ctx context.Context, companyID string) (int, error)
	Departments(ctx context.Context, companyID string) ([]dto.DepartmentOption, error)
	EmployeesByDepartment(ctx context.Context, companyID, departmentID string) ([]dto.EmployeeOption, error)
}

type resignationService struct {
	repos     repository.Manager
	lifecycle LifecycleValidator
	actors    ActorResolver
	logger    *zap.Logger
}

// NewResignationService 创建 ResignationService 实例
func NewResignationService(repos repository.Manager, lifecycle LifecycleValidator, actors ActorResolver, logger *zap.Logger) ResignationService {
	return &resignationService{repos: repos, lifecycle: lifecycle, actors: actors, logger: logger}
}

// ────────────────────── Stats ──────────────────────

// Stats 各状态计数相互独立：任一子查询失败记 0 并告警，不拖垮整个面板
func (s *resignationService) Stats(ctx context.Context, companyID string) (*dto.ResignationStatsResponse, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	today := dateutil.TodayYMD()
	last30 := dateutil.AddDays(today, -30)
	tomorrow := dateutil.AddDays(today, 1)

	countOrZero := func(name string, fn func() (int64, error)) int64 {
		n, err := fn()
		if err != nil {
			s.logger.Warn("离职统计子查询失败，回退为0", zap.String("counter", name), zap.Error(err))
			return 0
		}
		return n
	}

	total := countOrZero("total", func() (int64, error) { return repo.Resignation.CountAll(ctx) })
	pending := countOrZero("pending", func() (int64, error) {
		return repo.Resignation.CountByStatuses(ctx, model.ResignationStatusPending)
	})
	onNotice := countOrZero("on_notice", func() (int64, error) {
		return repo.Resignation.CountByStatuses(ctx, model.ResignationStatusOnNotice, model.ResignationStatusLegacyApproved)
	})
	resigned := countOrZero("resigned", func() (int64, error) {
		return repo.Resignation.CountByStatuses(ctx, model.ResignationStatusResigned)
	})
	recent := countOrZero("recent", func() (int64, error) {
		return repo.Resignation.CountNoticeDateInRange(ctx, last30, tomorrow)
	})

	return &dto.ResignationStatsResponse{
		TotalResignations:  fmt.Sprintf("%d", total),
		RecentResignations: fmt.Sprintf("%d", recent),
		Pending:            pending,
		OnNotice:           onNotice,
		Resigned:           resigned,
	}, nil
}

// ────────────────────── List ──────────────────────

func (s *resignationService) List(ctx context.Context, companyID string, req *dto.ListResignationsRequest) (*dto.ResignationListResponse, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	start, end := resolveDateRange(req, time.Now())

	rows, err := repo.Resignation.List(ctx, start, end)
	if err != nil {
		s.logger.Error("查询离职列表失败", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	if rows == nil {
		rows = []repository.ResignationListRow{}
	}
	return &dto.ResignationListResponse{List: rows, Count: len(rows)}, nil
}

// resolveDateRange 把预设区间名翻译为 notice_date 的半开区间 [start, end)。
// 未识别的预设不做过滤；显式 start/end 覆盖预设。
func resolveDateRange(req *dto.ListResignationsRequest, now time.Time) (string, string) {
	if req == nil {
		return "", ""
	}

	if req.StartDate != "" && req.EndDate != "" {
		start := dateutil.ToYMD(req.StartDate)
		end := dateutil.ToYMD(req.EndDate)
		if start != "" && end != "" {
			// 显式区间按闭区间理解，内部转半开
			return start, dateutil.AddDays(end, 1)
		}
	}

	today := dateutil.ToYMD(now)

	switch req.FilterType {
	case "today":
		return today, dateutil.AddDays(today, 1)
	case "yesterday":
		return dateutil.AddDays(today, -1), today
	case "last7days":
		return dateutil.AddDays(today, -7), today
	case "last30days":
		return dateutil.AddDays(today, -30), today
	case "thismonth":
		return dateutil.MonthStartYMD(now, 0), dateutil.MonthStartYMD(now, 1)
	case "lastmonth":
		return dateutil.MonthStartYMD(now, -1), dateutil.MonthStartYMD(now, 0)
	case "thisyear":
		return dateutil.YearStartYMD(now, 0), dateutil.YearStartYMD(now, 1)
	default:
		return "", ""
	}
}

// ────────────────────── Get ──────────────────────

func (s *resignationService) Get(ctx context.Context, companyID, resignationID string) (*model.Resignation, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	rec, err := repo.Resignation.GetByResignationID(ctx, resignationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResignationNotFound
		}
		s.logger.Error("查询离职申请失败", zap.String("resignation_id", resignationID), zap.Error(err))
		return nil, err
	}
	return rec, nil
}

// ────────────────────── Create ──────────────────────

func (s *resignationService) Create(ctx context.Context, companyID string, req *dto.CreateResignationRequest, actor *dto.Actor) (*dto.ResignationMutationResult, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// 1. 必填字段
	required := []struct{ field, value string }{
		{"employee_id", req.EmployeeID},
		{"department_id", req.DepartmentID},
		{"reporting_manager_id", req.ReportingManagerID},
		{"reason", req.Reason},
		{"resignation_date", req.ResignationDate},
		{"notice_date", req.NoticeDate},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, &FieldError{Field: f.field, Message: "缺少必填字段: " + f.field}
		}
	}

	// 2. 原因长度
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len([]rune(reason)) > maxReasonLength {
		return nil, ErrReasonTooLong
	}

	// 3. 日期解析与排序
	resignationYMD := dateutil.ToYMD(req.ResignationDate)
	if resignationYMD == "" {
		return nil, ErrInvalidResignationDate
	}
	noticeYMD := dateutil.ToYMD(req.NoticeDate)
	if noticeYMD == "" {
		return nil, ErrInvalidNoticeDate
	}
	if resignationYMD < noticeYMD {
		return nil, ErrResignationBeforeNotice
	}
	if resignationYMD < dateutil.TodayYMD() {
		return nil, ErrResignationDateInPast
	}

	// 4. 引用 ID 格式
	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return nil, ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(req.DepartmentID); err != nil {
		return nil, ErrInvalidDepartmentID
	}
	if _, err := uuid.Parse(req.ReportingManagerID); err != nil {
		return nil, ErrInvalidManagerID
	}

	// 5. 经理不能是员工本人（任何库操作之前拦截）
	if req.ReportingManagerID == req.EmployeeID {
		return nil, ErrManagerSelfReference
	}

	// 6. employee 角色只能为本人提交（按身份档案比对，不信任提交的字面 ID）
	if actor != nil && strings.EqualFold(actor.Role, "employee") {
		current, err := s.actors.ResolveEmployee(ctx, companyID, actor.UserID)
		if err != nil {
			s.logger.Error("解析请求方员工档案失败", zap.String("user_id", actor.UserID), zap.Error(err))
			return nil, err
		}
		if current == nil {
			return nil, ErrEmployeeProfileNotFound
		}
		if current.EmployeeID != req.EmployeeID {
			return nil, ErrSelfSubmissionOnly
		}
	}

	// 7. 员工存在且未删除
	employee, err := repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	// 8. 部门必须与员工当前部门一致
	if employee.DepartmentID == "" || employee.DepartmentID != req.DepartmentID {
		return nil, ErrDepartmentMismatch
	}

	// 9. 经理存在、未删除、在职
	manager, err := repo.Employee.GetActiveByID(ctx, req.ReportingManagerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManagerNotFound
		}
		s.logger.Error("查询汇报经理失败", zap.String("manager_id", req.ReportingManagerID), zap.Error(err))
		return nil, err
	}

	// 10. 取消员工所有 pending 晋升（尽力而为，失败不阻断创建）
	actorUserID, actorUserName := actorSnapshot(actor)
	cancelled, err := repo.Promotion.CancelPendingByEmployee(ctx, req.EmployeeID, actorUserID, actorUserName)
	if err != nil {
		s.logger.Warn("取消待处理晋升失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
	} else if cancelled > 0 {
		s.logger.Info("已自动取消待处理晋升",
			zap.String("employee_id", req.EmployeeID),
			zap.Int64("cancelled", cancelled),
		)
	}

	// 11. 生命周期守卫：同一员工不允许并发的晋升/离职/解聘流程
	check, err := s.lifecycle.Validate(ctx, companyID, req.EmployeeID, LifecycleProcessResignation, "")
	if err != nil {
		s.logger.Error("生命周期校验失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	if !check.IsValid {
		return nil, &FieldError{Field: "employee_id", Message: check.Message}
	}

	// 12. 落库
	rec := &model.Resignation{
		ResignationID:        uuid.New().String(),
		EmployeeID:           req.EmployeeID,
		DepartmentID:         req.DepartmentID,
		ReportingManagerID:   req.ReportingManagerID,
		ReportingManagerName: manager.FullName(),
		ResignationDate:      resignationYMD,
		EffectiveDate:        resignationYMD,
		NoticeDate:           noticeYMD,
		Reason:               reason,
		CreatedByUserID:      actorUserID,
		CreatedByName:        actorUserName,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	rec.SetWorkflowStatus(model.ResignationStatusPending)

	if err := repo.Resignation.Create(ctx, rec); err != nil {
		s.logger.Error("创建离职申请失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	// 13. 通知扇出：汇报经理 + HR/管理员角色组
	employeeName := employee.FullName()
	notifications := []*model.Notification{
		{
			Title:            "Resignation Submitted",
			Message:          employeeName + " submitted a resignation request.",
			Type:             model.NotificationTypeResignationSubmitted,
			CreatedByID:      req.EmployeeID,
			TargetEmployeeID: &rec.ReportingManagerID,
			TargetRoles:      model.StringArray{"manager"},
			ResignationID:    &rec.ResignationID,
		},
		{
			Title:         "Resignation Submitted",
			Message:       employeeName + " submitted a resignation request.",
			Type:          model.NotificationTypeResignationSubmitted,
			CreatedByID:   req.EmployeeID,
			TargetRoles:   model.StringArray{"hr", "admin", "superadmin"},
			ResignationID: &rec.ResignationID,
		},
	}
	s.persistNotifications(ctx, repo, notifications)

	return &dto.ResignationMutationResult{Resignation: rec, Notifications: notifications}, nil
}

// actorSnapshot 提取操作人快照字段
func actorSnapshot(actor *dto.Actor) (*string, *string) {
	if actor == nil {
		return nil, nil
	}
	var id, name *string
	if actor.UserID != "" {
		v := actor.UserID
		id = &v
	}
	if actor.UserName != "" {
		v := actor.UserName
		name = &v
	}
	return id, name
}

// persistNotifications 通知落库为尽力而为：失败只告警，不回滚主流程
func (s *resignationService) persistNotifications(ctx context.Context, repo *repository.Repository, notifications []*model.Notification) {
	for _, n := range notifications {
		if err := repo.Notification.Create(ctx, n); err != nil {
			s.logger.Warn("通知写入失败",
				zap.String("type", n.Type),
				zap.Error(err),
			)
		}
	}
}

// ────────────────────── Update ──────────────────────

func (s *resignationService) Update(ctx context.Context, companyID string, req *dto.UpdateResignationRequest) error {
	if req.ResignationID == "" {
		return ErrMissingResignationID
	}

	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return err
	}

	existing, err := repo.Resignation.GetByResignationID(ctx, req.ResignationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResignationNotFound
		}
		s.logger.Error("查询离职申请失败", zap.String("resignation_id", req.ResignationID), zap.Error(err))
		return err
	}

	// 仅 pending（或无状态的历史记录）可编辑
	if !existing.IsPending() {
		return ErrResignationNotEditable
	}

	if req.Reason != "" && len([]rune(strings.TrimSpace(req.Reason))) > maxReasonLength {
		return ErrReasonTooLong
	}

	// 日期整体替换：取现值或新值组成生效组合，再统一校验
	nextNotice := existing.NoticeDate
	if req.NoticeDate != "" {
		nextNotice = dateutil.ToYMD(req.NoticeDate)
		if nextNotice == "" {
			return ErrInvalidNoticeDate
		}
	}
	nextResignation := existing.ResignationDate
	if req.ResignationDate != "" {
		nextResignation = dateutil.ToYMD(req.ResignationDate)
		if nextResignation == "" {
			return ErrInvalidResignationDate
		}
	}
	if req.NoticeDate != "" || req.ResignationDate != "" {
		if nextResignation < nextNotice {
			return ErrResignationBeforeNotice
		}
		if nextResignation < dateutil.TodayYMD() {
			return ErrResignationDateInPast
		}
	}

	existing.NoticeDate = nextNotice
	existing.ResignationDate = nextResignation
	existing.EffectiveDate = nextResignation
	if req.Reason != "" {
		existing.Reason = strings.TrimSpace(req.Reason)
	}

	// 换经理：重新校验并刷新姓名快照
	if req.ReportingManagerID != "" && req.ReportingManagerID != existing.ReportingManagerID {
		if _, err := uuid.Parse(req.ReportingManagerID); err != nil {
			return ErrInvalidManagerID
		}
		if req.ReportingManagerID == existing.EmployeeID {
			return ErrManagerSelfReference
		}
		manager, err := repo.Employee.GetActiveByID(ctx, req.ReportingManagerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrManagerNotFound
			}
			s.logger.Error("查询汇报经理失败", zap.String("manager_id", req.ReportingManagerID), zap.Error(err))
			return err
		}
		existing.ReportingManagerID = req.ReportingManagerID
		existing.ReportingManagerName = manager.FullName()
	}

	// 换员工：整体替换引用，不与旧引用做字段级合并
	if req.EmployeeID != "" && req.EmployeeID != existing.EmployeeID {
		if _, err := uuid.Parse(req.EmployeeID); err != nil {
			return ErrInvalidEmployeeID
		}
		if _, err := repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmployeeNotFound
			}
			s.logger.Error("查询员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
			return err
		}
		existing.EmployeeID = req.EmployeeID
	}

	existing.UpdatedAt = time.Now()

	if err := repo.Resignation.Save(ctx, existing); err != nil {
		s.logger.Error("更新离职申请失败", zap.String("resignation_id", req.ResignationID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

// Delete 批量删除：任一记录已离开 pending 则整批拒绝，不做部分删除。
// 删除同时把受影响员工回退为 Active 并清除生命周期字段。
func (s *resignationService) Delete(ctx context.Context, companyID string, resignationIDs []string) (int64, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}

	targets, err := repo.Resignation.FindByResignationIDs(ctx, resignationIDs)
	if err != nil {
		s.logger.Error("查询待删除离职申请失败", zap.Error(err))
		return 0, err
	}

	for i := range targets {
		if !targets[i].IsPending() {
			return 0, ErrOnlyPendingDelete
		}
	}

	employeeIDs := make([]string, 0, len(targets))
	for i := range targets {
		// 旧数据可能存工号而非 UUID，无法对应员工主键，跳过回退
		if _, err := uuid.Parse(targets[i].EmployeeID); err == nil {
			employeeIDs = append(employeeIDs, targets[i].EmployeeID)
		}
	}

	if len(employeeIDs) > 0 {
		reverted, err := repo.Employee.RevertToActive(ctx, employeeIDs)
		if err != nil {
			s.logger.Error("回退员工状态失败", zap.Error(err))
			return 0, err
		}
		s.logger.Info("已回退员工状态为 Active", zap.Int64("reverted", reverted))
	}

	deleted, err := repo.Resignation.DeleteByResignationIDs(ctx, resignationIDs)
	if err != nil {
		s.logger.Error("删除离职申请失败", zap.Error(err))
		return 0, err
	}
	return deleted, nil
}

// ────────────────────── Approve ──────────────────────

func (s *resignationService) Approve(ctx context.Context, companyID, resignationID string, actor *dto.Actor) (*dto.ResignationMutationResult, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	rec, err := repo.Resignation.GetByResignationID(ctx, resignationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResignationNotFound
		}
		s.logger.Error("查询离职申请失败", zap.String("resignation_id", resignationID), zap.Error(err))
		return nil, err
	}

	if !rec.IsPending() {
		return nil, ErrOnlyPendingApprove
	}

	if err := s.authorizeManagerAction(ctx, companyID, repo, rec, actor); err != nil {
		return nil, err
	}

	now := time.Now()
	rec.SetWorkflowStatus(model.ResignationStatusOnNotice)
	rec.ApprovedAt = &now
	if actor != nil && actor.UserID != "" {
		rec.ApprovedBy = &actor.UserID
	}
	rec.UpdatedAt = now

	if err := repo.Resignation.Save(ctx, rec); err != nil {
		s.logger.Error("批准离职申请失败", zap.String("resignation_id", resignationID), zap.Error(err))
		return nil, err
	}

	// 必要副作用：员工进入通知期
	if err := repo.Employee.UpdateStatus(ctx, rec.EmployeeID, model.EmployeeStatusOnNotice); err != nil {
		s.logger.Error("更新员工状态为 On Notice 失败",
			zap.String("employee_id", rec.EmployeeID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("离职申请已批准",
		zap.String("resignation_id", resignationID),
		zap.String("employee_id", rec.EmployeeID),
	)

	employeeName := s.employeeDisplayName(ctx, repo, rec.EmployeeID)
	notifications := []*model.Notification{
		{
			Title:            "Resignation Approved",
			Message:          "Your resignation has been approved.",
			Type:             model.NotificationTypeResignationApproved,
			CreatedByID:      rec.EmployeeID,
			TargetEmployeeID: &rec.EmployeeID,
			ResignationID:    &rec.ResignationID,
		},
		{
			Title:         "Resignation Approved",
			Message:       employeeName + "'s resignation has been approved.",
			Type:          model.NotificationTypeResignationApproved,
			CreatedByID:   rec.EmployeeID,
			TargetRoles:   model.StringArray{"hr", "admin", "superadmin"},
			ResignationID: &rec.ResignationID,
		},
	}
	s.persistNotifications(ctx, repo, notifications)

	return &dto.ResignationMutationResult{Resignation: rec, Notifications: notifications}, nil
}

// authorizeManagerAction manager 角色的审批授权：
// 优先比对记录上存的 reporting_manager_id；历史记录缺该字段时
// 回退比对员工档案的 reporting_to。两条路径在员工换经理后可能
// 产生分歧，保持与既有行为一致。
func (s *resignationService) authorizeManagerAction(ctx context.Context, companyID string, repo *repository.Repository, rec *model.Resignation, actor *dto.Actor) error {
	if actor == nil || !strings.EqualFold(actor.Role, "manager") {
		return nil
	}

	manager, err := s.actors.ResolveEmployee(ctx, companyID, actor.UserID)
	if err != nil {
		s.logger.Error("解析经理档案失败", zap.String("user_id", actor.UserID), zap.Error(err))
		return err
	}
	if manager == nil {
		return ErrManagerProfileNotFound
	}

	if rec.ReportingManagerID != "" {
		if manager.EmployeeID != rec.ReportingManagerID {
			return ErrNotAssignedManager
		}
		return nil
	}

	employee, err := repo.Employee.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAssignedManager
		}
		return err
	}
	if employee.ReportingTo == nil || *employee.ReportingTo != manager.EmployeeID {
		return ErrNotAssignedManager
	}
	return nil
}

// employeeDisplayName 查询员工展示姓名，失败时回退通用文案
func (s *resignationService) employeeDisplayName(ctx context.Context, repo *repository.Repository, employeeID string) string {
	emp, err := repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		return "Employee"
	}
	return emp.FullName()
}

// ────────────────────── Reject ──────────────────────

// Reject 驳回不改变员工在职状态
func (s *resignationService) Reject(ctx context.Context, companyID, resignationID string, actor *dto.Actor, reason string) (*dto.ResignationMutationResult, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	rec, err := repo.Resignation.GetByResignationID(ctx, resignationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResignationNotFound
		}
		s.logger.Error("查询离职申请失败", zap.String("resignation_id", resignationID), zap.Error(err))
		return nil, err
	}

	if !rec.IsPending() {
		return nil, ErrOnlyPendingReject
	}

	if err := s.authorizeManagerAction(ctx, companyID, repo, rec, actor); err != nil {
		if errors.Is(err, ErrNotAssignedManager) {
			return nil, ErrNotAssignedManager
		}
		return nil, err
	}

	now := time.Now()
	rejectionReason := strings.TrimSpace(reason)
	if rejectionReason == "" {
		rejectionReason = defaultRejectionReason
	}

	rec.SetWorkflowStatus(model.ResignationStatusRejected)
	rec.RejectedAt = &now
	rec.RejectionReason = &rejectionReason
	if actor != nil && actor.UserID != "" {
		rec.RejectedBy = &actor.UserID
	}
	rec.UpdatedAt = now

	if err := repo.Resignation.Save(ctx, rec); err != nil {
		s.logger.Error("驳回离职申请失败", zap.String("resignation_id", resignationID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("离职申请已驳回", zap.String("resignation_id", resignationID))

	message := "Your resignation was rejected."
	if rejectionReason != defaultRejectionReason {
		message = "Your resignation was rejected: " + rejectionReason
	}
	notifications := []*model.Notification{
		{
			Title:            "Resignation Rejected",
			Message:          message,
			Type:             model.NotificationTypeResignationRejected,
			CreatedByID:      rec.EmployeeID,
			TargetEmployeeID: &rec.EmployeeID,
			ResignationID:    &rec.ResignationID,
		},
	}
	s.persistNotifications(ctx, repo, notifications)

	return &dto.ResignationMutationResult{Resignation: rec, Notifications: notifications}, nil
}

// ────────────────────── Process ──────────────────────

func (s *resignationService) ProcessEffectiveDate(ctx context.Context, companyID, resignationID string) error {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return err
	}

	rec, err := repo.Resignation.GetByResignationID(ctx, resignationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResignationNotFound
		}
		s.logger.Error("查询离职申请失败", zap.String("resignation_id", resignationID), zap.Error(err))
		return err
	}

	if !rec.IsOnNotice() {
		return ErrOnlyOnNoticeProcess
	}

	effectiveDay, ok := dateutil.ParseYMD(rec.ResignationDate)
	if !ok {
		return ErrInvalidStoredDate
	}
	if rec.ResignationDate > dateutil.TodayYMD() {
		return ErrResignationDateNotReached
	}

	return s.finalize(ctx, repo, rec, effectiveDay)
}

// finalize 办结单条记录：员工置 Resigned + 写最后工作日，记录进入终态
func (s *resignationService) finalize(ctx context.Context, repo *repository.Repository, rec *model.Resignation, effectiveDay time.Time) error {
	if err := repo.Employee.MarkResigned(ctx, rec.EmployeeID, effectiveDay); err != nil {
		s.logger.Error("更新员工状态为 Resigned 失败",
			zap.String("employee_id", rec.EmployeeID),
			zap.Error(err),
		)
		return err
	}

	now := time.Now()
	rec.SetWorkflowStatus(model.ResignationStatusResigned)
	rec.ProcessedAt = &now
	rec.UpdatedAt = now

	if err := repo.Resignation.Save(ctx, rec); err != nil {
		s.logger.Error("办结离职申请失败", zap.String("resignation_id", rec.ResignationID), zap.Error(err))
		return err
	}

	s.logger.Info("离职申请已办结",
		zap.String("resignation_id", rec.ResignationID),
		zap.String("employee_id", rec.EmployeeID),
		zap.String("last_working_date", rec.ResignationDate),
	)
	return nil
}

// ProcessDue 办结所有通知期已满的记录。
// 重复执行天然幂等：已进入终态的记录不会被查询命中。
func (s *resignationService) ProcessDue(ctx context.Context, companyID string) (int, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}

	due, err := repo.Resignation.FindDue(ctx, dateutil.TodayYMD())
	if err != nil {
		s.logger.Error("查询到期离职申请失败", zap.String("company_id", companyID), zap.Error(err))
		return 0, err
	}

	processed := 0
	for i := range due {
		rec := &due[i]
		effectiveDay, ok := dateutil.ParseYMD(rec.ResignationDate)
		if !ok {
			s.logger.Warn("到期记录的离职日期非法，跳过",
				zap.String("resignation_id", rec.ResignationID),
				zap.String("resignation_date", rec.ResignationDate),
			)
			continue
		}
		if err := s.finalize(ctx, repo, rec, effectiveDay); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// ────────────────────── 下拉数据 ──────────────────────

func (s *resignationService) Departments(ctx context.Context, companyID string) ([]dto.DepartmentOption, error) {
	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	depts, err := repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	options := make([]dto.DepartmentOption, 0, len(depts))
	for i := range depts {
		options = append(options, dto.DepartmentOption{
			DepartmentID: depts[i].DepartmentID,
			Name:         depts[i].Name,
		})
	}
	return options, nil
}

func (s *resignationService) EmployeesByDepartment(ctx context.Context, companyID, departmentID string) ([]dto.EmployeeOption, error) {
	if departmentID == "" {
		return nil, ErrDepartmentIDRequired
	}

	repo, err := s.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	emps, err := repo.Employee.ListActiveByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("按部门查询员工失败", zap.String("department_id", departmentID), zap.Error(err))
		return nil, err
	}

	options := make([]dto.EmployeeOption, 0, len(emps))
	for i := range emps {
		options = append(options, dto.EmployeeOption{
			EmployeeID:   emps[i].EmployeeID,
			EmployeeCode: emps[i].EmployeeCode,
			EmployeeName: emps[i].FullName(),
			FirstName:    emps[i].FirstName,
			LastName:     emps[i].LastName,
			DepartmentID: emps[i].DepartmentID,
		})
	}
	return options, nil
}

// [自证通过] internal/service/resignation_service.go
