package handler

import (
	"context"
	"net/http"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// membershipMutation is the shared shape of the four add/remove
// member/admin service calls.
type membershipMutation func(ctx context.Context, caller *model.User, boardID, userID uuid.UUID) (*model.Board, error)

type BoardHandler struct {
	boardService *service.BoardService
}

func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

type CreateBoardRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	BackgroundColor string `json:"background_color"`
	IsPrivate       bool   `json:"is_private"`
}

type UpdateBoardRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	BackgroundColor *string `json:"background_color"`
	IsPrivate       *bool   `json:"is_private"`
}

type MemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// Create creates a new board owned by the caller
// @Summary  Create a board
// @Tags     Boards
// @Security BearerAuth
// @Success  201 {object} BoardResponse
// @Router   /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	board, err := h.boardService.Create(c.Request.Context(), user, service.CreateBoardInput{
		Title:           req.Title,
		Description:     req.Description,
		BackgroundColor: req.BackgroundColor,
		IsPrivate:       req.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetAll returns the caller's owned-or-member boards
// @Summary  List boards
// @Tags     Boards
// @Security BearerAuth
// @Success  200 {array} BoardResponse
// @Router   /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListForUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = toBoardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns one board, membership-gated
// @Summary  Get a board
// @Tags     Boards
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	board, err := h.boardService.Get(c.Request.Context(), user, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}

// Update modifies board fields, owner only
// @Summary  Update a board
// @Tags     Boards
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	board, err := h.boardService.Update(c.Request.Context(), user, boardID, service.UpdateBoardInput{
		Title:           req.Title,
		Description:     req.Description,
		BackgroundColor: req.BackgroundColor,
		IsPrivate:       req.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}

// Delete soft-deletes a board, owner only
// @Summary  Delete a board
// @Tags     Boards
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Success  200 {object} map[string]bool
// @Router   /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.boardService.Delete(c.Request.Context(), user, boardID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AddMember adds a user to the board's members
// @Summary  Add a board member
// @Tags     Boards
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id}/members [post]
func (h *BoardHandler) AddMember(c *gin.Context) {
	h.memberMutation(c, h.boardService.AddMember)
}

// RemoveMember removes a user from the board's members (and admins)
// @Summary  Remove a board member
// @Tags     Boards
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Param    user_id path string true "User ID"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id}/members/{user_id} [delete]
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	h.memberParamMutation(c, h.boardService.RemoveMember)
}

// AddAdmin promotes a member to board admin
// @Summary  Add a board admin
// @Tags     Boards
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id}/admins [post]
func (h *BoardHandler) AddAdmin(c *gin.Context) {
	h.memberMutation(c, h.boardService.AddAdmin)
}

// RemoveAdmin demotes a board admin
// @Summary  Remove a board admin
// @Tags     Boards
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Param    user_id path string true "User ID"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id}/admins/{user_id} [delete]
func (h *BoardHandler) RemoveAdmin(c *gin.Context) {
	h.memberParamMutation(c, h.boardService.RemoveAdmin)
}

func (h *BoardHandler) memberMutation(c *gin.Context, op membershipMutation) {
	user, ok := caller(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid user_id format"))
		return
	}

	board, err := op(c.Request.Context(), user, boardID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *BoardHandler) memberParamMutation(c *gin.Context, op membershipMutation) {
	user, ok := caller(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}

	board, err := op(c.Request.Context(), user, boardID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}
