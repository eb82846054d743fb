package service

import (
	"context"
	"time"

	"taskboard/internal/access"
	"taskboard/internal/apperr"
	"taskboard/internal/events"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type CreateCardInput struct {
	Title       string
	ListID      uuid.UUID
	Description string
	Position    *float64
	DueDate     *time.Time
	Labels      []string
	Priority    model.CardPriority
}

type UpdateCardInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	Labels      *[]string
	Priority    *model.CardPriority
	IsArchived  *bool
}

type MoveCardInput struct {
	CardID       uuid.UUID
	TargetListID uuid.UUID
	Position     float64
}

// Notifier delivers direct notifications; implementations are
// fire-and-forget and must never fail the calling mutation.
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification)
}

type CardService struct {
	cards    repository.CardRepositoryInterface
	lists    repository.ListRepositoryInterface
	boards   repository.BoardRepositoryInterface
	bus      *events.Bus
	notifier Notifier
	log      *logrus.Logger
	activityRecorder
}

func NewCardService(
	cards repository.CardRepositoryInterface,
	lists repository.ListRepositoryInterface,
	boards repository.BoardRepositoryInterface,
	activity repository.ActivityLogRepositoryInterface,
	bus *events.Bus,
	notifier Notifier,
	log *logrus.Logger,
) *CardService {
	return &CardService{
		cards:            cards,
		lists:            lists,
		boards:           boards,
		bus:              bus,
		notifier:         notifier,
		log:              log,
		activityRecorder: activityRecorder{activity: activity, log: log},
	}
}

func cardEntries(cards []model.Card) []ordering.Entry {
	entries := make([]ordering.Entry, len(cards))
	for i, c := range cards {
		entries[i] = ordering.Entry{ID: c.ID, Position: c.Position, CreatedAt: c.CreatedAt}
	}
	return entries
}

func (s *CardService) rebalanceIfNeeded(ctx context.Context, listID uuid.UUID) error {
	siblings, err := s.cards.GetByListID(ctx, listID)
	if err != nil {
		return err
	}
	entries := cardEntries(siblings)
	ordering.Sort(entries)
	if !ordering.NeedsRebalance(entries) {
		return nil
	}
	changed := ordering.Rebalance(entries)
	positions := make(map[uuid.UUID]float64, len(changed))
	for _, e := range changed {
		positions[e.ID] = e.Position
	}
	s.log.WithFields(logrus.Fields{"list_id": listID, "renumbered": len(changed)}).
		Info("card positions rebalanced")
	return s.cards.UpdatePositions(ctx, positions)
}

// loadCard resolves the card together with its owning list and board.
func (s *CardService) loadCard(ctx context.Context, id uuid.UUID) (*model.Card, *model.List, *model.Board, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if card == nil {
		return nil, nil, nil, apperr.NotFound("Card")
	}
	list, err := s.lists.GetByID(ctx, card.ListID)
	if err != nil {
		return nil, nil, nil, err
	}
	if list == nil {
		return nil, nil, nil, apperr.NotFound("List")
	}
	board, err := s.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return nil, nil, nil, err
	}
	if board == nil {
		return nil, nil, nil, apperr.NotFound("Board")
	}
	return card, list, board, nil
}

func (s *CardService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Card, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	card, _, board, err := s.loadCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) Cards(ctx context.Context, caller *model.User, listID uuid.UUID) ([]model.Card, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.NotFound("List")
	}
	board, err := s.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperr.NotFound("Board")
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}
	return s.cards.GetByListID(ctx, listID)
}

func (s *CardService) Create(ctx context.Context, caller *model.User, input CreateCardInput) (*model.Card, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, apperr.Validation("Card title is required", map[string]string{"title": "is required"})
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperr.Validation("Invalid priority", map[string]string{"priority": "must be LOW, MEDIUM or HIGH"})
	}

	list, err := s.lists.GetByID(ctx, input.ListID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperr.NotFound("List")
	}
	board, err := s.boards.GetByID(ctx, list.BoardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperr.NotFound("Board")
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}

	var position float64
	if input.Position != nil {
		position = *input.Position
	} else {
		siblings, err := s.cards.GetByListID(ctx, input.ListID)
		if err != nil {
			return nil, err
		}
		entries := cardEntries(siblings)
		ordering.Sort(entries)
		position = ordering.Append(entries)
	}

	card := &model.Card{
		ListID:      input.ListID,
		Title:       input.Title,
		Description: input.Description,
		Position:    position,
		DueDate:     input.DueDate,
		Labels:      input.Labels,
		Priority:    priority,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	if err := s.rebalanceIfNeeded(ctx, input.ListID); err != nil {
		return nil, err
	}

	card, err = s.cards.GetByID(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TopicCardCreated, events.Scope(board.ID), card)
	s.record(ctx, caller.ID, "card_created", "card", card.ID, map[string]string{"title": card.Title})
	return card, nil
}

// Update edits card content; stricter than Create and Move, it requires
// board admin.
func (s *CardService) Update(ctx context.Context, caller *model.User, id uuid.UUID, input UpdateCardInput) (*model.Card, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	card, _, board, err := s.loadCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAdmin(board, caller.ID); err != nil {
		return nil, err
	}

	dueDateSet := false
	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperr.Validation("Card title is required", map[string]string{"title": "is required"})
		}
		card.Title = *input.Title
	}
	if input.Description != nil {
		card.Description = *input.Description
	}
	if input.DueDate != nil {
		card.DueDate = input.DueDate
		dueDateSet = true
	} else if input.ClearDue {
		card.DueDate = nil
	}
	if input.Labels != nil {
		card.Labels = *input.Labels
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperr.Validation("Invalid priority", map[string]string{"priority": "must be LOW, MEDIUM or HIGH"})
		}
		card.Priority = *input.Priority
	}
	if input.IsArchived != nil {
		card.IsArchived = *input.IsArchived
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, err
	}

	card, err = s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TopicCardUpdated, events.Scope(board.ID), card)
	if dueDateSet {
		for _, assignee := range card.Assignees {
			if assignee.ID == caller.ID {
				continue
			}
			s.notifier.Notify(ctx, &model.Notification{
				RecipientID: assignee.ID,
				SenderID:    &caller.ID,
				Type:        model.NotificationDueDate,
				Title:       "Due date changed",
				Message:     caller.Name + " set a due date on \"" + card.Title + "\"",
				EntityType:  "card",
				EntityID:    &card.ID,
			})
		}
	}
	s.record(ctx, caller.ID, "card_updated", "card", card.ID, nil)
	return card, nil
}

// Move relocates a card, possibly across lists; the list reference and the
// new position change together. Moving needs board membership only — a
// deliberately lighter bar than editing content.
func (s *CardService) Move(ctx context.Context, caller *model.User, input MoveCardInput) (*model.Card, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	card, err := s.cards.GetByID(ctx, input.CardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperr.NotFound("Card")
	}

	targetList, err := s.lists.GetByID(ctx, input.TargetListID)
	if err != nil {
		return nil, err
	}
	if targetList == nil {
		return nil, apperr.NotFound("Target list")
	}
	board, err := s.boards.GetByID(ctx, targetList.BoardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperr.NotFound("Board")
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}

	card.ListID = input.TargetListID
	card.Position = input.Position
	if err := s.cards.Update(ctx, card); err != nil {
		return nil, err
	}

	if err := s.rebalanceIfNeeded(ctx, input.TargetListID); err != nil {
		return nil, err
	}

	card, err = s.cards.GetByID(ctx, input.CardID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.TopicCardMoved, events.Scope(board.ID), card)
	s.record(ctx, caller.ID, "card_moved", "card", card.ID, map[string]string{
		"target_list_id": input.TargetListID.String(),
	})
	return card, nil
}

// Delete soft-deletes the card and cascades the flag to its comments.
func (s *CardService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	card, _, board, err := s.loadCard(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CheckAdmin(board, caller.ID); err != nil {
		return err
	}

	if err := s.cards.SoftDelete(ctx, card.ID); err != nil {
		return err
	}

	s.bus.Publish(events.TopicCardDeleted, events.Scope(board.ID), card.ID)
	s.record(ctx, caller.ID, "card_deleted", "card", id, nil)
	return nil
}

// Assign adds a board member to the card's assignees. Assigning an already
// assigned user is a no-op.
func (s *CardService) Assign(ctx context.Context, caller *model.User, cardID, userID uuid.UUID) (*model.Card, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	card, _, board, err := s.loadCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}
	if !board.IsMember(userID) {
		return nil, apperr.Validation("Assignee must be a board member", nil)
	}

	if !card.HasAssignee(userID) {
		if err := s.cards.AddAssignee(ctx, card, &model.User{ID: userID}); err != nil {
			return nil, err
		}
		if userID != caller.ID {
			s.notifier.Notify(ctx, &model.Notification{
				RecipientID: userID,
				SenderID:    &caller.ID,
				Type:        model.NotificationAssignment,
				Title:       "Card assigned to you",
				Message:     caller.Name + " assigned you to \"" + card.Title + "\"",
				EntityType:  "card",
				EntityID:    &card.ID,
			})
		}
		s.record(ctx, caller.ID, "card_assigned", "card", cardID, map[string]string{"assignee_id": userID.String()})
	}

	return s.cards.GetByID(ctx, cardID)
}

// Unassign removes a user from the card's assignees. Unassigning a user
// who is not assigned is a no-op.
func (s *CardService) Unassign(ctx context.Context, caller *model.User, cardID, userID uuid.UUID) (*model.Card, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	card, _, board, err := s.loadCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := access.CheckMember(board, caller.ID); err != nil {
		return nil, err
	}

	if card.HasAssignee(userID) {
		if err := s.cards.RemoveAssignee(ctx, card, &model.User{ID: userID}); err != nil {
			return nil, err
		}
		s.record(ctx, caller.ID, "card_unassigned", "card", cardID, map[string]string{"assignee_id": userID.String()})
	}

	return s.cards.GetByID(ctx, cardID)
}
