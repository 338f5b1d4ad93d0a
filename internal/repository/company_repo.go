package repository

import (
	"context"

	"gorm.io/gorm"

	"manage-rtc/backend/internal/model"
)

// CompanyRepository 公司注册表数据访问接口（system 库）
type CompanyRepository interface {
	GetByID(ctx context.Context, companyID string) (*model.Company, error)
	ListActive(ctx context.Context) ([]model.Company, error)
}

// companyRepo CompanyRepository 的 GORM 实现
type companyRepo struct {
	db *gorm.DB
}

// NewCompanyRepo 创建 CompanyRepository 实例
func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByID(ctx context.Context, companyID string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *companyRepo) ListActive(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&companies).Error
	return companies, err
}
