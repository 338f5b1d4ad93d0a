package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"manage-rtc/backend/internal/model"
	"manage-rtc/backend/internal/repository"
)

// ── 生命周期流程类型 ──

const (
	LifecycleProcessResignation = "resignation"
	LifecycleProcessPromotion   = "promotion"
	LifecycleProcessTermination = "termination"
)

// LifecycleCheck 生命周期校验结果
type LifecycleCheck struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`
}

// LifecycleValidator 员工生命周期守卫：
// 同一员工同时只允许一个进行中的生命周期流程（晋升/离职/解聘）。
// 新建流程前调用；excludeResignationID 用于更新场景排除自身。
type LifecycleValidator interface {
	Validate(ctx context.Context, companyID, employeeID, processType, excludeResignationID string) (*LifecycleCheck, error)
}

// lifecycleValidator 基于租户库的默认实现
type lifecycleValidator struct {
	repos repository.Manager
}

// NewLifecycleValidator 创建默认生命周期守卫
func NewLifecycleValidator(repos repository.Manager) LifecycleValidator {
	return &lifecycleValidator{repos: repos}
}

func (v *lifecycleValidator) Validate(ctx context.Context, companyID, employeeID, processType, excludeResignationID string) (*LifecycleCheck, error) {
	repo, err := v.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	active, err := repo.Resignation.CountActiveByEmployee(ctx, employeeID, excludeResignationID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return &LifecycleCheck{IsValid: false, Message: "该员工已有进行中的离职流程"}, nil
	}

	if processType != LifecycleProcessPromotion {
		pending, err := repo.Promotion.CountPendingByEmployee(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if pending > 0 {
			return &LifecycleCheck{IsValid: false, Message: "该员工已有进行中的晋升流程"}, nil
		}
	}

	return &LifecycleCheck{IsValid: true}, nil
}

// ActorResolver 请求方身份解析：把外部身份系统的用户 ID 解析为员工记录。
// 返回 nil 表示当前用户没有对应的员工档案。
type ActorResolver interface {
	ResolveEmployee(ctx context.Context, companyID, accountUserID string) (*model.Employee, error)
}

// actorResolver 基于 employees.account_user_id 的默认实现
type actorResolver struct {
	repos repository.Manager
}

// NewActorResolver 创建默认身份解析器
func NewActorResolver(repos repository.Manager) ActorResolver {
	return &actorResolver{repos: repos}
}

func (r *actorResolver) ResolveEmployee(ctx context.Context, companyID, accountUserID string) (*model.Employee, error) {
	repo, err := r.repos.ForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	emp, err := repo.Employee.GetByAccountUserID(ctx, accountUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return emp, nil
}
