package repository

import (
	"context"

	"gorm.io/gorm"

	"manage-rtc/backend/internal/model"
)

// NotificationRepository 通知数据访问接口
// 实时推送由下游广播器消费 notifications 表，此处只负责写入
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
}

// notificationRepo NotificationRepository 的 GORM 实现
type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}
