package repository

import (
	"context"
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserActivityCount is one row of the "top active users" aggregate.
type UserActivityCount struct {
	UserID uuid.UUID
	Count  int64
}

type ActivityLogRepositoryInterface interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]model.ActivityLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.ActivityLog, error)
	CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error)
	TopUsers(ctx context.Context, limit int) ([]UserActivityCount, error)
}

type ActivityLogRepository struct {
	db *gorm.DB
}

var _ ActivityLogRepositoryInterface = (*ActivityLogRepository)(nil)

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ActivityLogRepository) List(ctx context.Context, limit, offset int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, err
}

func (r *ActivityLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *ActivityLogRepository) CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ActivityLog{}).
		Where("created_at >= ?", since).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func (r *ActivityLogRepository) TopUsers(ctx context.Context, limit int) ([]UserActivityCount, error) {
	var rows []UserActivityCount
	err := r.db.WithContext(ctx).Model(&model.ActivityLog{}).
		Select("user_id AS user_id, COUNT(*) AS count").
		Group("user_id").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
