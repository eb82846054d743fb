package handler

import (
	"context"
	"net/http"
	"time"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardService *service.CardService
}

func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required"`
	ListID      string     `json:"list_id" binding:"required,uuid"`
	Description string     `json:"description"`
	Position    *float64   `json:"position"`
	DueDate     *time.Time `json:"due_date"`
	Labels      []string   `json:"labels"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
}

type UpdateCardRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due_date"`
	Labels      *[]string  `json:"labels"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	IsArchived  *bool      `json:"is_archived"`
}

type MoveCardRequest struct {
	CardID       string  `json:"card_id" binding:"required,uuid"`
	TargetListID string  `json:"target_list_id" binding:"required,uuid"`
	Position     float64 `json:"position"`
}

type AssignCardRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// GetByID returns one card, board member only
// @Summary  Get a card
// @Tags     Cards
// @Security BearerAuth
// @Param    id path string true "Card ID"
// @Success  200 {object} CardResponse
// @Router   /cards/{id} [get]
func (h *CardHandler) GetByID(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	card, err := h.cardService.Get(c.Request.Context(), user, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

// GetByListID returns a list's cards in canonical order
// @Summary  List cards of a list
// @Tags     Cards
// @Security BearerAuth
// @Param    id path string true "List ID"
// @Success  200 {array} CardResponse
// @Router   /lists/{id}/cards [get]
func (h *CardHandler) GetByListID(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	cards, err := h.cardService.Cards(c.Request.Context(), user, listID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = toCardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create creates a card, board member only
// @Summary  Create a card
// @Tags     Cards
// @Security BearerAuth
// @Success  201 {object} CardResponse
// @Router   /cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid list_id format"))
		return
	}
	priority, valid := model.ParsePriority(req.Priority)
	if !valid {
		respondError(c, apperr.Validation("Invalid priority", map[string]string{"priority": "must be LOW, MEDIUM or HIGH"}))
		return
	}

	card, err := h.cardService.Create(c.Request.Context(), user, service.CreateCardInput{
		Title:       req.Title,
		ListID:      listID,
		Description: req.Description,
		Position:    req.Position,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
		Priority:    priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCardResponse(card))
}

// Update edits card content, board admin only
// @Summary  Update a card
// @Tags     Cards
// @Security BearerAuth
// @Param    id path string true "Card ID"
// @Success  200 {object} CardResponse
// @Router   /cards/{id} [put]
func (h *CardHandler) Update(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := service.UpdateCardInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
		Labels:      req.Labels,
		IsArchived:  req.IsArchived,
	}
	if req.Priority != nil {
		priority, valid := model.ParsePriority(*req.Priority)
		if !valid {
			respondError(c, apperr.Validation("Invalid priority", map[string]string{"priority": "must be LOW, MEDIUM or HIGH"}))
			return
		}
		input.Priority = &priority
	}

	card, err := h.cardService.Update(c.Request.Context(), user, cardID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

// Move relocates a card (possibly across lists), board member only
// @Summary  Move a card
// @Tags     Cards
// @Security BearerAuth
// @Success  200 {object} CardResponse
// @Router   /cards/move [post]
func (h *CardHandler) Move(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid card_id format"))
		return
	}
	targetListID, err := uuid.Parse(req.TargetListID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid target_list_id format"))
		return
	}

	card, err := h.cardService.Move(c.Request.Context(), user, service.MoveCardInput{
		CardID:       cardID,
		TargetListID: targetListID,
		Position:     req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

// Delete soft-deletes a card and its comments, board admin only
// @Summary  Delete a card
// @Tags     Cards
// @Security BearerAuth
// @Param    id path string true "Card ID"
// @Success  200 {object} map[string]bool
// @Router   /cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cardService.Delete(c.Request.Context(), user, cardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Assign adds an assignee to a card; idempotent
// @Summary  Assign a user to a card
// @Tags     Cards
// @Security BearerAuth
// @Param    id path string true "Card ID"
// @Success  200 {object} CardResponse
// @Router   /cards/{id}/assign [post]
func (h *CardHandler) Assign(c *gin.Context) {
	h.assignMutation(c, h.cardService.Assign)
}

// Unassign removes an assignee from a card; idempotent
// @Summary  Unassign a user from a card
// @Tags     Cards
// @Security BearerAuth
// @Param    id path string true "Card ID"
// @Success  200 {object} CardResponse
// @Router   /cards/{id}/assign [delete]
func (h *CardHandler) Unassign(c *gin.Context) {
	h.assignMutation(c, h.cardService.Unassign)
}

type assigneeMutation func(ctx context.Context, caller *model.User, cardID, userID uuid.UUID) (*model.Card, error)

func (h *CardHandler) assignMutation(c *gin.Context, op assigneeMutation) {
	user, ok := caller(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid user_id format"))
		return
	}

	card, err := op(c.Request.Context(), user, cardID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}
