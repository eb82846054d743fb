package handler

import (
	"net/http"

	"taskboard/internal/apperr"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CreateCommentRequest struct {
	CardID  string `json:"card_id" binding:"required,uuid"`
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetByCardID returns a card's comments oldest-first
// @Summary  List comments of a card
// @Tags     Comments
// @Security BearerAuth
// @Param    id path string true "Card ID"
// @Success  200 {array} CommentResponse
// @Router   /cards/{id}/comments [get]
func (h *CommentHandler) GetByCardID(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.Comments(c.Request.Context(), user, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CommentResponse, len(comments))
	for i := range comments {
		response[i] = toCommentResponse(&comments[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create adds a comment, board member only
// @Summary  Create a comment
// @Tags     Comments
// @Security BearerAuth
// @Success  201 {object} CommentResponse
// @Router   /comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid card_id format"))
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), user, service.CreateCommentInput{
		CardID:  cardID,
		Content: req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Update edits a comment, author only
// @Summary  Update a comment
// @Tags     Comments
// @Security BearerAuth
// @Param    id path string true "Comment ID"
// @Success  200 {object} CommentResponse
// @Router   /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), user, commentID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete soft-deletes a comment, author only
// @Summary  Delete a comment
// @Tags     Comments
// @Security BearerAuth
// @Param    id path string true "Comment ID"
// @Success  200 {object} map[string]bool
// @Router   /comments/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), user, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
