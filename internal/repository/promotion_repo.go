package repository

import (
	"context"

	"gorm.io/gorm"

	"manage-rtc/backend/internal/model"
)

// autoCancelNote 晋升被离职流程自动取消时写入的备注
const autoCancelNote = "Auto-cancelled due to resignation request"

// PromotionRepository 晋升记录数据访问接口
type PromotionRepository interface {
	// CancelPendingByEmployee 取消员工所有 pending 晋升，返回受影响行数。
	// updatedByUserID / updatedByName 可为空（如定时任务触发）。
	CancelPendingByEmployee(ctx context.Context, employeeID string, updatedByUserID, updatedByName *string) (int64, error)
	CountPendingByEmployee(ctx context.Context, employeeID string) (int64, error)
}

// promotionRepo PromotionRepository 的 GORM 实现
type promotionRepo struct {
	db *gorm.DB
}

// NewPromotionRepo 创建 PromotionRepository 实例
func NewPromotionRepo(db *gorm.DB) PromotionRepository {
	return &promotionRepo{db: db}
}

func (r *promotionRepo) CancelPendingByEmployee(ctx context.Context, employeeID string, updatedByUserID, updatedByName *string) (int64, error) {
	updates := map[string]interface{}{
		"status":     model.PromotionStatusCancelled,
		"notes":      autoCancelNote,
		"updated_at": gorm.Expr("NOW()"),
	}
	if updatedByUserID != nil || updatedByName != nil {
		updates["updated_by_user_id"] = updatedByUserID
		updates["updated_by_name"] = updatedByName
	}

	result := r.db.WithContext(ctx).
		Model(&model.Promotion{}).
		Where("employee_id = ? AND status = ?", employeeID, model.PromotionStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *promotionRepo) CountPendingByEmployee(ctx context.Context, employeeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Promotion{}).
		Where("employee_id = ? AND status = ?", employeeID, model.PromotionStatusPending).
		Count(&count).Error
	return count, err
}
