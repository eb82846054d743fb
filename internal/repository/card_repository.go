package repository

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepositoryInterface interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	GetByListID(ctx context.Context, listID uuid.UUID) ([]model.Card, error)
	Update(ctx context.Context, card *model.Card) error
	UpdatePositions(ctx context.Context, positions map[uuid.UUID]float64) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AddAssignee(ctx context.Context, card *model.Card, user *model.User) error
	RemoveAssignee(ctx context.Context, card *model.Card, user *model.User) error
	SearchInBoards(ctx context.Context, boardIDs []uuid.UUID, query string, limit int) ([]model.Card, error)
	CountAll(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountArchived(ctx context.Context) (int64, error)
	CountAssignedTo(ctx context.Context, userID uuid.UUID) (int64, error)
}

type CardRepository struct {
	db *gorm.DB
}

var _ CardRepositoryInterface = (*CardRepository)(nil)

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).Scopes(notDeleted).
		Preload("Assignees").
		Where("id = ?", id).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) GetByListID(ctx context.Context, listID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).Scopes(notDeleted, byPosition).
		Preload("Assignees").
		Where("list_id = ?", listID).Find(&cards).Error
	return cards, err
}

func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Omit("Assignees", "List").Save(card).Error
}

func (r *CardRepository) UpdatePositions(ctx context.Context, positions map[uuid.UUID]float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, pos := range positions {
			if err := tx.Model(&model.Card{}).Where("id = ?", id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete flags the card and cascades the flag to its comments.
func (r *CardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Card{}).Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).Where("card_id = ?", id).
			Update("is_deleted", true).Error
	})
}

func (r *CardRepository) AddAssignee(ctx context.Context, card *model.Card, user *model.User) error {
	return r.db.WithContext(ctx).Model(card).Association("Assignees").Append(user)
}

func (r *CardRepository) RemoveAssignee(ctx context.Context, card *model.Card, user *model.User) error {
	return r.db.WithContext(ctx).Model(card).Association("Assignees").Delete(user)
}

func (r *CardRepository) SearchInBoards(ctx context.Context, boardIDs []uuid.UUID, query string, limit int) ([]model.Card, error) {
	if len(boardIDs) == 0 {
		return nil, nil
	}
	var cards []model.Card
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Preload("Assignees").
		Joins("JOIN lists ON lists.id = cards.list_id").
		Where("cards.is_deleted = ? AND lists.is_deleted = ?", false, false).
		Where("lists.board_id IN ?", boardIDs).
		Where("cards.title ILIKE ? OR cards.description ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&cards).Error
	return cards, err
}

func (r *CardRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Scopes(notDeleted).Count(&count).Error
	return count, err
}

func (r *CardRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Scopes(notDeleted).
		Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *CardRepository) CountArchived(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Scopes(notDeleted).
		Where("is_archived = ?", true).Count(&count).Error
	return count, err
}

func (r *CardRepository) CountAssignedTo(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Card{}).Scopes(notDeleted).
		Joins("JOIN card_assignees ca ON ca.card_id = cards.id").
		Where("ca.user_id = ?", userID).
		Count(&count).Error
	return count, err
}
