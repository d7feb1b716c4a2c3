package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"household-planner/internal/model"
)

// OccurrenceRepository handles per-day task records, live and frozen.
type OccurrenceRepository struct {
	db *gorm.DB
}

func NewOccurrenceRepository(db *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

func (r *OccurrenceRepository) Create(ctx context.Context, occ *model.Occurrence) error {
	if err := r.db.WithContext(ctx).Create(occ).Error; err != nil {
		return fmt.Errorf("create occurrence: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts a live templated occurrence unless one already
// exists for the same template and day. In that case the stored record is
// loaded into occ and false is returned.
func (r *OccurrenceRepository) CreateIfAbsent(ctx context.Context, occ *model.Occurrence) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(occ)
	if res.Error != nil {
		return false, fmt.Errorf("create occurrence: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	if occ.TemplateID == nil {
		return false, fmt.Errorf("create occurrence: conflict on one-off task")
	}

	var existing model.Occurrence
	// Locking read so a row committed by a concurrent writer is visible.
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("template_id = ? AND scheduled_date = ? AND permanence = ?", *occ.TemplateID, occ.ScheduledDate, occ.Permanence).
		First(&existing).Error; err != nil {
		return false, fmt.Errorf("load conflicting occurrence: %w", err)
	}
	*occ = existing
	return false, nil
}

func (r *OccurrenceRepository) FindByID(ctx context.Context, id uint) (*model.Occurrence, error) {
	var occ model.Occurrence
	if err := r.db.WithContext(ctx).First(&occ, id).Error; err != nil {
		return nil, err
	}
	return &occ, nil
}

// ListByDate returns the records of one day with the given permanence.
func (r *OccurrenceRepository) ListByDate(ctx context.Context, date model.Date, permanence model.Permanence) ([]model.Occurrence, error) {
	var occurrences []model.Occurrence
	if err := r.db.WithContext(ctx).
		Where("scheduled_date = ? AND permanence = ?", date, permanence).
		Order("sort_order ASC, id ASC").
		Find(&occurrences).Error; err != nil {
		return nil, err
	}
	return occurrences, nil
}

// FindLive returns the ephemeral occurrence of a template on a day, or
// gorm.ErrRecordNotFound.
func (r *OccurrenceRepository) FindLive(ctx context.Context, templateID uint, date model.Date) (*model.Occurrence, error) {
	var occ model.Occurrence
	if err := r.db.WithContext(ctx).
		Where("template_id = ? AND scheduled_date = ? AND permanence = ?", templateID, date, model.PermanenceEphemeral).
		First(&occ).Error; err != nil {
		return nil, err
	}
	return &occ, nil
}

// ListLiveByTemplateFrom returns the ephemeral occurrences of a template
// scheduled on or after from.
func (r *OccurrenceRepository) ListLiveByTemplateFrom(ctx context.Context, templateID uint, from model.Date) ([]model.Occurrence, error) {
	var occurrences []model.Occurrence
	if err := r.db.WithContext(ctx).
		Where("template_id = ? AND scheduled_date >= ? AND permanence = ?", templateID, from, model.PermanenceEphemeral).
		Order("scheduled_date ASC").
		Find(&occurrences).Error; err != nil {
		return nil, err
	}
	return occurrences, nil
}

func (r *OccurrenceRepository) CountSnapshots(ctx context.Context, date model.Date) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Occurrence{}).
		Where("scheduled_date = ? AND permanence = ?", date, model.PermanenceSnapshot).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return count, nil
}

func (r *OccurrenceRepository) Save(ctx context.Context, occ *model.Occurrence) error {
	if err := r.db.WithContext(ctx).Save(occ).Error; err != nil {
		return fmt.Errorf("save occurrence: %w", err)
	}
	return nil
}

func (r *OccurrenceRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Occurrence{}, id).Error; err != nil {
		return fmt.Errorf("delete occurrence: %w", err)
	}
	return nil
}

// DeleteSnapshots removes the frozen records of a day and reports how many were removed.
func (r *OccurrenceRepository) DeleteSnapshots(ctx context.Context, date model.Date) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("scheduled_date = ? AND permanence = ?", date, model.PermanenceSnapshot).
		Delete(&model.Occurrence{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete snapshots: %w", res.Error)
	}
	return res.RowsAffected, nil
}
