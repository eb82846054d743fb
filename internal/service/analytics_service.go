package service

import (
	"context"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type ActiveUser struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	BoardCount   int64     `json:"board_count"`
	CardCount    int64     `json:"card_count"`
	CommentCount int64     `json:"comment_count"`
}

type BoardStats struct {
	TotalPublic            int64   `json:"total_public"`
	TotalPrivate           int64   `json:"total_private"`
	AverageMembersPerBoard float64 `json:"average_members_per_board"`
}

// Analytics is the admin dashboard payload. ArchivedCards and
// CompletedCards are distinct fields even though both currently derive from
// the archived flag; see DESIGN.md for why they are kept separate.
type Analytics struct {
	TotalUsers             int64        `json:"total_users"`
	TotalBoards            int64        `json:"total_boards"`
	TotalCards             int64        `json:"total_cards"`
	TotalComments          int64        `json:"total_comments"`
	ActiveUsersToday       int64        `json:"active_users_today"`
	ActiveUsersThisWeek    int64        `json:"active_users_this_week"`
	BoardsCreatedThisMonth int64        `json:"boards_created_this_month"`
	CardsCreatedThisMonth  int64        `json:"cards_created_this_month"`
	ArchivedCards          int64        `json:"archived_cards"`
	CompletedCards         int64        `json:"completed_cards"`
	UserGrowth             []DailyCount `json:"user_growth"`
	TopActiveUsers         []ActiveUser `json:"top_active_users"`
	BoardStats             BoardStats   `json:"board_stats"`
}

type AnalyticsService struct {
	users    repository.UserRepositoryInterface
	boards   repository.BoardRepositoryInterface
	cards    repository.CardRepositoryInterface
	comments repository.CommentRepositoryInterface
	activity repository.ActivityLogRepositoryInterface
	log      *logrus.Logger
	now      func() time.Time
}

func NewAnalyticsService(
	users repository.UserRepositoryInterface,
	boards repository.BoardRepositoryInterface,
	cards repository.CardRepositoryInterface,
	comments repository.CommentRepositoryInterface,
	activity repository.ActivityLogRepositoryInterface,
	log *logrus.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		users:    users,
		boards:   boards,
		cards:    cards,
		comments: comments,
		activity: activity,
		log:      log,
		now:      time.Now,
	}
}

// Analytics aggregates the admin dashboard. System-admin only.
func (s *AnalyticsService) Analytics(ctx context.Context, caller *model.User) (*Analytics, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := access.RequireSystemAdmin(caller); err != nil {
		return nil, err
	}

	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := now.Add(-7 * 24 * time.Hour)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := &Analytics{}
	var err error

	if out.TotalUsers, err = s.users.CountAll(ctx); err != nil {
		return nil, err
	}
	if out.TotalBoards, err = s.boards.CountAll(ctx); err != nil {
		return nil, err
	}
	if out.TotalCards, err = s.cards.CountAll(ctx); err != nil {
		return nil, err
	}
	if out.TotalComments, err = s.comments.CountAll(ctx); err != nil {
		return nil, err
	}
	if out.ActiveUsersToday, err = s.activity.CountActiveUsersSince(ctx, startOfToday); err != nil {
		return nil, err
	}
	if out.ActiveUsersThisWeek, err = s.activity.CountActiveUsersSince(ctx, startOfWeek); err != nil {
		return nil, err
	}
	if out.BoardsCreatedThisMonth, err = s.boards.CountCreatedSince(ctx, startOfMonth); err != nil {
		return nil, err
	}
	if out.CardsCreatedThisMonth, err = s.cards.CountCreatedSince(ctx, startOfMonth); err != nil {
		return nil, err
	}
	archived, err := s.cards.CountArchived(ctx)
	if err != nil {
		return nil, err
	}
	out.ArchivedCards = archived
	out.CompletedCards = archived

	// User growth, last 7 days.
	for i := 6; i >= 0; i-- {
		day := now.Add(-time.Duration(i) * 24 * time.Hour)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.Add(24 * time.Hour)
		count, err := s.users.CountCreatedBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}
		out.UserGrowth = append(out.UserGrowth, DailyCount{
			Date:  start.Format("2006-01-02"),
			Count: count,
		})
	}

	top, err := s.activity.TopUsers(ctx, 10)
	if err != nil {
		return nil, err
	}
	for _, row := range top {
		user, err := s.users.GetByID(ctx, row.UserID)
		if err != nil {
			return nil, err
		}
		entry := ActiveUser{ID: row.UserID, Name: "Unknown"}
		if user != nil {
			entry.Name = user.Name
			entry.Email = user.Email
		}
		if entry.BoardCount, err = s.boards.CountOwned(ctx, row.UserID); err != nil {
			return nil, err
		}
		if entry.CardCount, err = s.cards.CountAssignedTo(ctx, row.UserID); err != nil {
			return nil, err
		}
		if entry.CommentCount, err = s.comments.CountByAuthor(ctx, row.UserID); err != nil {
			return nil, err
		}
		out.TopActiveUsers = append(out.TopActiveUsers, entry)
	}

	if out.BoardStats.TotalPublic, err = s.boards.CountByPrivacy(ctx, false); err != nil {
		return nil, err
	}
	if out.BoardStats.TotalPrivate, err = s.boards.CountByPrivacy(ctx, true); err != nil {
		return nil, err
	}
	if out.BoardStats.AverageMembersPerBoard, err = s.boards.AverageMembersPerBoard(ctx); err != nil {
		return nil, err
	}

	return out, nil
}

// ActivityLogs lists the global audit trail. System-admin only.
func (s *AnalyticsService) ActivityLogs(ctx context.Context, caller *model.User, limit, offset int) ([]model.ActivityLog, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := access.RequireSystemAdmin(caller); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.activity.List(ctx, limit, offset)
}

// UserActivityLogs lists one user's audit trail; admins can see anyone,
// other callers only themselves.
func (s *AnalyticsService) UserActivityLogs(ctx context.Context, caller *model.User, userID uuid.UUID, limit int) ([]model.ActivityLog, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if caller.Role != model.SystemRoleAdmin && caller.ID != userID {
		return nil, access.RequireSystemAdmin(caller)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.activity.ListByUser(ctx, userID, limit)
}
