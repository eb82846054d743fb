package handler

import (
	"net/http"
	"strings"

	"taskboard/internal/apperr"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

type SearchResponse struct {
	Boards []BoardResponse `json:"boards"`
	Cards  []CardResponse  `json:"cards"`
}

// Search matches boards and cards by title or description across the
// caller's boards.
// @Summary  Search boards and cards
// @Tags     Search
// @Security BearerAuth
// @Param    q query string true "Search query"
// @Success  200 {object} SearchResponse
// @Router   /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, apperr.BadRequest("Search query is required"))
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), user, query)
	if err != nil {
		respondError(c, err)
		return
	}

	response := SearchResponse{
		Boards: make([]BoardResponse, len(result.Boards)),
		Cards:  make([]CardResponse, len(result.Cards)),
	}
	for i := range result.Boards {
		response.Boards[i] = toBoardResponse(&result.Boards[i])
	}
	for i := range result.Cards {
		response.Cards[i] = toCardResponse(&result.Cards[i])
	}
	c.JSON(http.StatusOK, response)
}
