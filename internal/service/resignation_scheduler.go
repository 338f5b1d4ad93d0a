package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"manage-rtc/backend/internal/repository"
)

// defaultSchedulerSpec 每天 00:00 执行一次
const defaultSchedulerSpec = "0 0 * * *"

// SchedulerLocker 跨实例互斥锁，多副本部署时保证每日扫描只执行一次
type SchedulerLocker interface {
	AcquireSchedulerLock(ctx context.Context, instanceID string, ttl time.Duration) (bool, error)
	ReleaseSchedulerLock(ctx context.Context, instanceID string) error
}

// ResignationScheduler 每日扫描各公司到期的离职申请并自动办结。
// 运行状态归属于实例；同一实例的上一轮未结束时跳过本轮。
type ResignationScheduler struct {
	repos      repository.Manager
	service    ResignationService
	logger     *zap.Logger
	spec       string
	timeout    time.Duration
	locker     SchedulerLocker
	instanceID string

	cron *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewResignationScheduler 创建调度器，spec 为空时使用每日零点
func NewResignationScheduler(repos repository.Manager, service ResignationService, logger *zap.Logger, spec string) *ResignationScheduler {
	if spec == "" {
		spec = defaultSchedulerSpec
	}
	return &ResignationScheduler{
		repos:      repos,
		service:    service,
		logger:     logger,
		spec:       spec,
		timeout:    10 * time.Minute,
		instanceID: uuid.New().String(),
	}
}

// WithLocker 启用跨实例分布式锁（可选，单实例部署可不设置）
func (s *ResignationScheduler) WithLocker(locker SchedulerLocker) *ResignationScheduler {
	s.locker = locker
	return s
}

// Start 注册定时任务并启动调度
func (s *ResignationScheduler) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	s.logger.Info("离职调度器已启动", zap.String("spec", s.spec))
	return nil
}

// Stop 停止调度并等待进行中的任务结束
func (s *ResignationScheduler) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("离职调度器已停止")
}

func (s *ResignationScheduler) runOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("上一轮离职扫描尚未结束，跳过本轮")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.locker != nil {
		ok, err := s.locker.AcquireSchedulerLock(ctx, s.instanceID, s.timeout)
		if err != nil {
			// 锁不可用时退化为本地执行，避免 Redis 故障阻断扫描
			s.logger.Warn("获取调度锁失败，继续本地执行", zap.Error(err))
		} else if !ok {
			s.logger.Info("其他实例正在执行离职扫描，跳过本轮")
			return
		} else {
			defer func() {
				if err := s.locker.ReleaseSchedulerLock(ctx, s.instanceID); err != nil {
					s.logger.Warn("释放调度锁失败", zap.Error(err))
				}
			}()
		}
	}

	processed, failed := s.RunAll(ctx)
	s.logger.Info("离职到期扫描完成",
		zap.Int("processed", processed),
		zap.Int("failed_companies", failed),
	)
}

// RunAll 扫描全部启用公司。单个公司失败只记日志，不影响其余公司。
// 返回办结总数与失败公司数。
func (s *ResignationScheduler) RunAll(ctx context.Context) (processed, failed int) {
	companies, err := s.repos.ActiveCompanies(ctx)
	if err != nil {
		s.logger.Error("查询启用公司列表失败", zap.Error(err))
		return 0, 0
	}

	for i := range companies {
		companyID := companies[i].CompanyID
		n, err := s.service.ProcessDue(ctx, companyID)
		processed += n
		if err != nil {
			failed++
			s.logger.Error("公司离职扫描失败",
				zap.String("company_id", companyID),
				zap.String("company", companies[i].Name),
				zap.Error(err),
			)
			continue
		}
		if n > 0 {
			s.logger.Info("公司离职扫描完成",
				zap.String("company_id", companyID),
				zap.Int("processed", n),
			)
		}
	}
	return processed, failed
}

// TriggerCompany 手动触发单个公司的到期扫描
func (s *ResignationScheduler) TriggerCompany(ctx context.Context, companyID string) (int, error) {
	return s.service.ProcessDue(ctx, companyID)
}
