package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"household-planner/internal/model"
)

// TemplateRepository handles CRUD for recurrence templates.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.Template) error {
	if err := r.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*model.Template, error) {
	var tpl model.Template
	if err := r.db.WithContext(ctx).First(&tpl, id).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// List returns templates by display order; activeOnly drops deactivated ones.
func (r *TemplateRepository) List(ctx context.Context, activeOnly bool) ([]model.Template, error) {
	var templates []model.Template
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	if err := db.Order("sort_order ASC, id ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Save writes every column, including zero values such as Active=false.
func (r *TemplateRepository) Save(ctx context.Context, tpl *model.Template) error {
	if err := r.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}
