package service

import (
	"context"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/events"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CreateBoardInput struct {
	Title           string
	Description     string
	BackgroundColor string
	IsPrivate       bool
}

// UpdateBoardInput enumerates exactly the mutable board fields. Nil means
// "leave unchanged".
type UpdateBoardInput struct {
	Title           *string
	Description     *string
	BackgroundColor *string
	IsPrivate       *bool
}

type BoardService struct {
	boards repository.BoardRepositoryInterface
	users  repository.UserRepositoryInterface
	bus    *events.Bus
	log    *logrus.Logger
	activityRecorder
}

func NewBoardService(
	boards repository.BoardRepositoryInterface,
	users repository.UserRepositoryInterface,
	activity repository.ActivityLogRepositoryInterface,
	bus *events.Bus,
	log *logrus.Logger,
) *BoardService {
	return &BoardService{
		boards:           boards,
		users:            users,
		bus:              bus,
		log:              log,
		activityRecorder: activityRecorder{activity: activity, log: log},
	}
}

func (s *BoardService) loadBoard(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperr.NotFound("Board")
	}
	return board, nil
}

func (s *BoardService) Create(ctx context.Context, caller *model.User, input CreateBoardInput) (*model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, apperr.Validation("Board title is required", map[string]string{"title": "is required"})
	}
	if input.BackgroundColor != "" && !model.ValidHexColor(input.BackgroundColor) {
		return nil, apperr.Validation("Invalid color format. Use hex color (e.g., #0079BF)", map[string]string{
			"backgroundColor": "must match #RRGGBB",
		})
	}

	board := model.NewBoard(input.Title, input.Description, *caller, input.BackgroundColor, input.IsPrivate)
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, err
	}

	s.record(ctx, caller.ID, "board_created", "board", board.ID, map[string]string{"title": board.Title})
	return s.loadBoard(ctx, board.ID)
}

// Get is membership-gated: non-members cannot see the board at all.
func (s *BoardService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	board, err := s.loadBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}
	return board, nil
}

// ListForUser returns the caller's owned-or-member boards.
func (s *BoardService) ListForUser(ctx context.Context, caller *model.User) ([]model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.boards.GetForUser(ctx, caller.ID)
}

func (s *BoardService) Update(ctx context.Context, caller *model.User, id uuid.UUID, input UpdateBoardInput) (*model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	board, err := s.loadBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwner(board, caller.ID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperr.Validation("Board title is required", map[string]string{"title": "is required"})
		}
		board.Title = *input.Title
	}
	if input.Description != nil {
		board.Description = *input.Description
	}
	if input.BackgroundColor != nil {
		if !model.ValidHexColor(*input.BackgroundColor) {
			return nil, apperr.Validation("Invalid color format. Use hex color (e.g., #0079BF)", map[string]string{
				"backgroundColor": "must match #RRGGBB",
			})
		}
		board.BackgroundColor = *input.BackgroundColor
	}
	if input.IsPrivate != nil {
		board.IsPrivate = *input.IsPrivate
	}

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, err
	}

	board, err = s.loadBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TopicBoardUpdated, events.Scope(board.ID), board)
	s.record(ctx, caller.ID, "board_updated", "board", board.ID, nil)
	return board, nil
}

// Delete soft-deletes the board and cascades the flag to its lists.
func (s *BoardService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	board, err := s.loadBoard(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CheckOwner(board, caller.ID); err != nil {
		return err
	}

	if err := s.boards.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, caller.ID, "board_deleted", "board", id, nil)
	return nil
}

func (s *BoardService) AddMember(ctx context.Context, caller *model.User, boardID, userID uuid.UUID) (*model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	board, err := s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAdmin(board, caller.ID); err != nil {
		return nil, err
	}

	if board.HasMember(userID) {
		return nil, apperr.Validation("User is already a member of this board", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}

	if err := s.boards.AddMember(ctx, board, user); err != nil {
		return nil, err
	}

	board, err = s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicBoardUpdated, events.Scope(board.ID), board)
	s.record(ctx, caller.ID, "member_added", "board", boardID, map[string]string{"member_id": userID.String()})
	return board, nil
}

// RemoveMember demotes the target from admins in the same step when needed;
// the owner can never be removed.
func (s *BoardService) RemoveMember(ctx context.Context, caller *model.User, boardID, userID uuid.UUID) (*model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	board, err := s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAdmin(board, caller.ID); err != nil {
		return nil, err
	}

	if board.IsOwner(userID) {
		return nil, apperr.Validation("Cannot remove board owner", nil)
	}
	if !board.HasMember(userID) {
		return nil, apperr.Validation("User is not a member of this board", nil)
	}

	if err := s.boards.RemoveMember(ctx, board, &model.User{ID: userID}); err != nil {
		return nil, err
	}

	board, err = s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicBoardUpdated, events.Scope(board.ID), board)
	s.record(ctx, caller.ID, "member_removed", "board", boardID, map[string]string{"member_id": userID.String()})
	return board, nil
}

// AddAdmin promotes an existing member. Promotion requires prior membership.
func (s *BoardService) AddAdmin(ctx context.Context, caller *model.User, boardID, userID uuid.UUID) (*model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	board, err := s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAdmin(board, caller.ID); err != nil {
		return nil, err
	}

	if !board.HasMember(userID) {
		return nil, apperr.Validation("User must be a board member before becoming an admin", nil)
	}
	if board.HasAdmin(userID) {
		return nil, apperr.Validation("User is already an admin of this board", nil)
	}

	if err := s.boards.AddAdmin(ctx, board, &model.User{ID: userID}); err != nil {
		return nil, err
	}

	board, err = s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicBoardUpdated, events.Scope(board.ID), board)
	s.record(ctx, caller.ID, "admin_added", "board", boardID, map[string]string{"admin_id": userID.String()})
	return board, nil
}

func (s *BoardService) RemoveAdmin(ctx context.Context, caller *model.User, boardID, userID uuid.UUID) (*model.Board, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	board, err := s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAdmin(board, caller.ID); err != nil {
		return nil, err
	}

	if board.IsOwner(userID) {
		return nil, apperr.Validation("Cannot demote board owner", nil)
	}
	if !board.HasAdmin(userID) {
		return nil, apperr.Validation("User is not an admin of this board", nil)
	}

	if err := s.boards.RemoveAdmin(ctx, board, &model.User{ID: userID}); err != nil {
		return nil, err
	}

	board, err = s.loadBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicBoardUpdated, events.Scope(board.ID), board)
	s.record(ctx, caller.ID, "admin_removed", "board", boardID, map[string]string{"admin_id": userID.String()})
	return board, nil
}
