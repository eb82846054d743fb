package handler

import (
	"net/http"

	"taskboard/internal/apperr"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListHandler struct {
	listService *service.ListService
}

func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

type CreateListRequest struct {
	Title    string   `json:"title" binding:"required"`
	BoardID  string   `json:"board_id" binding:"required,uuid"`
	Position *float64 `json:"position"`
}

type UpdateListRequest struct {
	Title      *string `json:"title"`
	IsArchived *bool   `json:"is_archived"`
}

type MoveListRequest struct {
	ListID   string  `json:"list_id" binding:"required,uuid"`
	Position float64 `json:"position"`
}

// GetByBoardID returns the board's lists in canonical order
// @Summary  List lists of a board
// @Tags     Lists
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Success  200 {array} ListResponse
// @Router   /boards/{id}/lists [get]
func (h *ListHandler) GetByBoardID(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	lists, err := h.listService.Lists(c.Request.Context(), user, boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ListResponse, len(lists))
	for i := range lists {
		response[i] = toListResponse(&lists[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create creates a list on a board, board admin only
// @Summary  Create a list
// @Tags     Lists
// @Security BearerAuth
// @Success  201 {object} ListResponse
// @Router   /lists [post]
func (h *ListHandler) Create(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid board_id format"))
		return
	}

	list, err := h.listService.Create(c.Request.Context(), user, service.CreateListInput{
		Title:    req.Title,
		BoardID:  boardID,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toListResponse(list))
}

// Update modifies a list, board admin only
// @Summary  Update a list
// @Tags     Lists
// @Security BearerAuth
// @Param    id path string true "List ID"
// @Success  200 {object} ListResponse
// @Router   /lists/{id} [put]
func (h *ListHandler) Update(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.listService.Update(c.Request.Context(), user, listID, service.UpdateListInput{
		Title:      req.Title,
		IsArchived: req.IsArchived,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(list))
}

// Move repositions a list within its board, board member only
// @Summary  Move a list
// @Tags     Lists
// @Security BearerAuth
// @Success  200 {object} ListResponse
// @Router   /lists/move [post]
func (h *ListHandler) Move(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req MoveListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	listID, err := uuid.Parse(req.ListID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid list_id format"))
		return
	}

	list, err := h.listService.Move(c.Request.Context(), user, service.MoveListInput{
		ListID:   listID,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(list))
}

// Delete soft-deletes a list and its cards, board admin only
// @Summary  Delete a list
// @Tags     Lists
// @Security BearerAuth
// @Param    id path string true "List ID"
// @Success  200 {object} map[string]bool
// @Router   /lists/{id} [delete]
func (h *ListHandler) Delete(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.listService.Delete(c.Request.Context(), user, listID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
