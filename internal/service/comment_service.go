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

type CreateCommentInput struct {
	CardID  uuid.UUID
	Content string
}

type CommentService struct {
	comments repository.CommentRepositoryInterface
	cards    repository.CardRepositoryInterface
	lists    repository.ListRepositoryInterface
	boards   repository.BoardRepositoryInterface
	bus      *events.Bus
	notifier Notifier
	log      *logrus.Logger
	activityRecorder
}

func NewCommentService(
	comments repository.CommentRepositoryInterface,
	cards repository.CardRepositoryInterface,
	lists repository.ListRepositoryInterface,
	boards repository.BoardRepositoryInterface,
	activity repository.ActivityLogRepositoryInterface,
	bus *events.Bus,
	notifier Notifier,
	log *logrus.Logger,
) *CommentService {
	return &CommentService{
		comments:         comments,
		cards:            cards,
		lists:            lists,
		boards:           boards,
		bus:              bus,
		notifier:         notifier,
		log:              log,
		activityRecorder: activityRecorder{activity: activity, log: log},
	}
}

// boardOfCard walks card -> list -> board for access checks.
func (s *CommentService) boardOfCard(ctx context.Context, cardID uuid.UUID) (*model.Card, *model.Board, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, nil, err
	}
	if card == nil {
		return nil, nil, apperr.NotFound("Card")
	}
	list, err := s.lists.GetByID(ctx, card.ListID)
	if err != nil {
		return nil, nil, err
	}
	if list == nil {
		return nil, nil, apperr.NotFound("List")
	}
	board, err := s.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return nil, nil, err
	}
	if board == nil {
		return nil, nil, apperr.NotFound("Board")
	}
	return card, board, nil
}

func (s *CommentService) Comments(ctx context.Context, caller *model.User, cardID uuid.UUID) ([]model.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	_, board, err := s.boardOfCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}
	return s.comments.GetByCardID(ctx, cardID)
}

func (s *CommentService) Create(ctx context.Context, caller *model.User, input CreateCommentInput) (*model.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if input.Content == "" {
		return nil, apperr.Validation("Comment content is required", map[string]string{"content": "is required"})
	}

	card, board, err := s.boardOfCard(ctx, input.CardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		CardID:   input.CardID,
		AuthorID: caller.ID,
		Content:  input.Content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	comment, err = s.comments.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TopicCommentAdded, events.Scope(input.CardID), comment)
	for _, assignee := range card.Assignees {
		if assignee.ID == caller.ID {
			continue
		}
		s.notifier.Notify(ctx, &model.Notification{
			RecipientID: assignee.ID,
			SenderID:    &caller.ID,
			Type:        model.NotificationComment,
			Title:       "New comment",
			Message:     caller.Name + " commented on \"" + card.Title + "\"",
			EntityType:  "card",
			EntityID:    &card.ID,
		})
	}
	s.record(ctx, caller.ID, "comment_created", "comment", comment.ID, nil)
	return comment, nil
}

// Update is restricted to the comment's author; board role is irrelevant.
func (s *CommentService) Update(ctx context.Context, caller *model.User, id uuid.UUID, content string) (*model.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, apperr.Validation("Comment content is required", map[string]string{"content": "is required"})
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound("Comment")
	}
	if comment.AuthorID != caller.ID {
		return nil, apperr.Authorization("Only comment author can update the comment")
	}

	comment.Content = content
	comment.IsEdited = true
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	comment, err = s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(events.TopicCommentUpdated, events.Scope(comment.CardID), comment)
	s.record(ctx, caller.ID, "comment_updated", "comment", id, nil)
	return comment, nil
}

// Delete is restricted to the comment's author.
func (s *CommentService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound("Comment")
	}
	if comment.AuthorID != caller.ID {
		return apperr.Authorization("Only comment author can delete the comment")
	}

	if err := s.comments.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(events.TopicCommentDeleted, events.Scope(comment.CardID), comment.ID)
	s.record(ctx, caller.ID, "comment_deleted", "comment", id, nil)
	return nil
}
