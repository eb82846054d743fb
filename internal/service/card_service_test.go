package service_test

import (
	"testing"
	"time"

	"taskboard/internal/apperr"
	"taskboard/internal/events"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCardService_Create_AppendsToEnd(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)

	first, err := e.cardSvc.Create(e.ctx, e.member, service.CreateCardInput{Title: "First", ListID: list.ID})
	assert.NoError(t, err)
	assert.Equal(t, float64(0), first.Position)
	assert.Equal(t, model.PriorityMedium, first.Priority)

	second, err := e.cardSvc.Create(e.ctx, e.member, service.CreateCardInput{Title: "Second", ListID: list.ID})
	assert.NoError(t, err)
	assert.Equal(t, float64(1), second.Position)
}

func TestCardService_Create_Checks(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)

	_, err := e.cardSvc.Create(e.ctx, e.member, service.CreateCardInput{Title: "", ListID: list.ID})
	assertCode(t, err, apperr.CodeValidation)

	_, err = e.cardSvc.Create(e.ctx, e.member, service.CreateCardInput{Title: "X", ListID: uuid.New()})
	assertCode(t, err, apperr.CodeNotFound)

	_, err = e.cardSvc.Create(e.ctx, e.outsider, service.CreateCardInput{Title: "X", ListID: list.ID})
	assertCode(t, err, apperr.CodeForbidden)
}

func TestCardService_Update_RequiresAdmin(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)
	title := "Edited"

	// Plain members can move cards but not edit their content.
	_, err := e.cardSvc.Update(e.ctx, e.member, card.ID, service.UpdateCardInput{Title: &title})
	assertCode(t, err, apperr.CodeForbidden)

	updated, err := e.cardSvc.Update(e.ctx, e.admin, card.ID, service.UpdateCardInput{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
}

func TestCardService_Update_DueDateNotifiesAssignees(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)
	card.Assignees = []model.User{*e.member, *e.admin}

	due := time.Now().Add(48 * time.Hour)
	_, err := e.cardSvc.Update(e.ctx, e.admin, card.ID, service.UpdateCardInput{DueDate: &due})
	assert.NoError(t, err)

	// The acting admin is also an assignee and must not be notified.
	assert.Len(t, e.notifier.sent, 1)
	assert.Equal(t, e.member.ID, e.notifier.sent[0].RecipientID)
	assert.Equal(t, model.NotificationDueDate, e.notifier.sent[0].Type)
}

func TestCardService_Update_ClearDueDate(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)
	due := time.Now()
	card.DueDate = &due

	updated, err := e.cardSvc.Update(e.ctx, e.admin, card.ID, service.UpdateCardInput{ClearDue: true})
	assert.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	// Clearing produces no due-date notification.
	assert.Empty(t, e.notifier.sent)
}

func TestCardService_Move_AcrossLists(t *testing.T) {
	e := newEnv(t)
	source := e.seedList("Todo", 0)
	target := e.seedList("Doing", 1)
	card := e.seedCard(source.ID, "Task", 0)
	e.seedCard(target.ID, "Other", 0)

	moved, cancelMoved := e.bus.Subscribe(events.TopicCardMoved, events.Scope(e.board.ID))
	defer cancelMoved()
	updated, cancelUpdated := e.bus.Subscribe(events.TopicCardUpdated, events.Scope(e.board.ID))
	defer cancelUpdated()

	result, err := e.cardSvc.Move(e.ctx, e.member, service.MoveCardInput{
		CardID:       card.ID,
		TargetListID: target.ID,
		Position:     1,
	})
	assert.NoError(t, err)
	assert.Equal(t, target.ID, result.ListID)
	assert.Equal(t, float64(1), result.Position)

	// One move, one event: card_moved only, never a parallel card_updated.
	msg := <-moved
	assert.Equal(t, events.TopicCardMoved, msg.Topic)
	assert.Empty(t, moved)
	assert.Empty(t, updated)
}

func TestCardService_Move_RebalancesCollapsedGaps(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	a := e.seedCard(list.ID, "A", 0)
	e.seedCard(list.ID, "B", ordering.Epsilon/4)
	c := e.seedCard(list.ID, "C", 1)

	// Moving into the collapsed region forces integer renumbering.
	_, err := e.cardSvc.Move(e.ctx, e.member, service.MoveCardInput{
		CardID:       c.ID,
		TargetListID: list.ID,
		Position:     ordering.Epsilon / 8,
	})
	assert.NoError(t, err)

	cards, err := e.cardSvc.Cards(e.ctx, e.member, list.ID)
	assert.NoError(t, err)
	assert.Len(t, cards, 3)
	for i, card := range cards {
		assert.Equal(t, float64(i), card.Position)
	}
	// Order survives the renumbering: A, C, B by position and tie-breaks.
	assert.Equal(t, a.ID, cards[0].ID)
}

func TestCardService_Move_MemberOnlyGate(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)

	_, err := e.cardSvc.Move(e.ctx, e.outsider, service.MoveCardInput{
		CardID:       card.ID,
		TargetListID: list.ID,
		Position:     5,
	})
	assertCode(t, err, apperr.CodeForbidden)
}

func TestCardService_Delete(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)

	err := e.cardSvc.Delete(e.ctx, e.member, card.ID)
	assertCode(t, err, apperr.CodeForbidden)

	assert.NoError(t, e.cardSvc.Delete(e.ctx, e.admin, card.ID))

	_, err = e.cardSvc.Get(e.ctx, e.admin, card.ID)
	assertCode(t, err, apperr.CodeNotFound)
}

func TestCardService_Assign(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)

	result, err := e.cardSvc.Assign(e.ctx, e.admin, card.ID, e.member.ID)
	assert.NoError(t, err)
	assert.True(t, result.HasAssignee(e.member.ID))

	assert.Len(t, e.notifier.sent, 1)
	assert.Equal(t, e.member.ID, e.notifier.sent[0].RecipientID)
	assert.Equal(t, model.NotificationAssignment, e.notifier.sent[0].Type)

	// Assigning again is a no-op: no duplicate entry, no second notification.
	result, err = e.cardSvc.Assign(e.ctx, e.admin, card.ID, e.member.ID)
	assert.NoError(t, err)
	assert.Len(t, result.Assignees, 1)
	assert.Len(t, e.notifier.sent, 1)
}

func TestCardService_Assign_SelfSkipsNotification(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)

	_, err := e.cardSvc.Assign(e.ctx, e.member, card.ID, e.member.ID)
	assert.NoError(t, err)
	assert.Empty(t, e.notifier.sent)
}

func TestCardService_Assign_RequiresBoardMembership(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)

	_, err := e.cardSvc.Assign(e.ctx, e.admin, card.ID, e.outsider.ID)
	assertCode(t, err, apperr.CodeValidation)
}

func TestCardService_Unassign_Idempotent(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	card := e.seedCard(list.ID, "Task", 0)

	_, err := e.cardSvc.Assign(e.ctx, e.admin, card.ID, e.member.ID)
	assert.NoError(t, err)

	result, err := e.cardSvc.Unassign(e.ctx, e.admin, card.ID, e.member.ID)
	assert.NoError(t, err)
	assert.False(t, result.HasAssignee(e.member.ID))

	// Unassigning an unassigned user succeeds silently.
	result, err = e.cardSvc.Unassign(e.ctx, e.admin, card.ID, e.member.ID)
	assert.NoError(t, err)
	assert.Empty(t, result.Assignees)
}

func TestCardService_Cards_SortedByPosition(t *testing.T) {
	e := newEnv(t)
	list := e.seedList("Todo", 0)
	e.seedCard(list.ID, "Third", 2)
	e.seedCard(list.ID, "First", 0)
	e.seedCard(list.ID, "Second", 1)

	cards, err := e.cardSvc.Cards(e.ctx, e.member, list.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"First", "Second", "Third"}, []string{cards[0].Title, cards[1].Title, cards[2].Title})
}
