package repository

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepositoryInterface interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, board *model.Board, user *model.User) error
	RemoveMember(ctx context.Context, board *model.Board, user *model.User) error
	AddAdmin(ctx context.Context, board *model.Board, user *model.User) error
	RemoveAdmin(ctx context.Context, board *model.Board, user *model.User) error
	SearchForUser(ctx context.Context, userID uuid.UUID, query string, limit int) ([]model.Board, error)
	CountAll(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountByPrivacy(ctx context.Context, private bool) (int64, error)
	CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error)
	AverageMembersPerBoard(ctx context.Context) (float64, error)
}

type BoardRepository struct {
	db *gorm.DB
}

var _ BoardRepositoryInterface = (*BoardRepository)(nil)

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create persists the board together with its admin and member
// associations in a single transaction, so the owner-inclusion invariant
// established by model.NewBoard cannot be half-applied.
func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).Scopes(notDeleted).
		Preload("Owner").Preload("Admins").Preload("Members").
		Where("id = ?", id).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// GetForUser returns boards the user owns or is a member of.
func (r *BoardRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).Scopes(notDeleted).
		Preload("Owner").Preload("Admins").Preload("Members").
		Where("owner_id = ? OR id IN (?)", userID,
			r.db.Table("board_members").Select("board_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Omit("Admins", "Members", "Owner").Save(board).Error
}

// SoftDelete flags the board and cascades the flag to its lists. Cards stay
// untouched; they become unreachable through their deleted list.
func (r *BoardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Board{}).Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&model.List{}).Where("board_id = ?", id).
			Update("is_deleted", true).Error
	})
}

func (r *BoardRepository) AddMember(ctx context.Context, board *model.Board, user *model.User) error {
	return r.db.WithContext(ctx).Model(board).Association("Members").Append(user)
}

// RemoveMember drops the user from the members set and, in the same
// transaction, from the admins set. Demote-on-remove keeps admins ⊆ members.
func (r *BoardRepository) RemoveMember(ctx context.Context, board *model.Board, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(board).Association("Members").Delete(user); err != nil {
			return err
		}
		return tx.Model(board).Association("Admins").Delete(user)
	})
}

func (r *BoardRepository) AddAdmin(ctx context.Context, board *model.Board, user *model.User) error {
	return r.db.WithContext(ctx).Model(board).Association("Admins").Append(user)
}

func (r *BoardRepository) RemoveAdmin(ctx context.Context, board *model.Board, user *model.User) error {
	return r.db.WithContext(ctx).Model(board).Association("Admins").Delete(user)
}

func (r *BoardRepository) SearchForUser(ctx context.Context, userID uuid.UUID, query string, limit int) ([]model.Board, error) {
	var boards []model.Board
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).Scopes(notDeleted).
		Preload("Owner").Preload("Members").
		Where("owner_id = ? OR id IN (?)", userID,
			r.db.Table("board_members").Select("board_id").Where("user_id = ?", userID)).
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Scopes(notDeleted).Count(&count).Error
	return count, err
}

func (r *BoardRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Scopes(notDeleted).
		Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *BoardRepository) CountByPrivacy(ctx context.Context, private bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Scopes(notDeleted).
		Where("is_private = ?", private).Count(&count).Error
	return count, err
}

func (r *BoardRepository) CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Scopes(notDeleted).
		Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *BoardRepository) AverageMembersPerBoard(ctx context.Context) (float64, error) {
	var avg struct {
		Avg float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(AVG(member_count), 0) AS avg FROM (
			SELECT COUNT(bm.user_id) AS member_count
			FROM boards b
			LEFT JOIN board_members bm ON bm.board_id = b.id
			WHERE b.is_deleted = false
			GROUP BY b.id
		) counts`).Scan(&avg).Error
	return avg.Avg, err
}
