package service

import (
	"context"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
)

const (
	searchBoardLimit = 20
	searchCardLimit  = 50
)

type SearchResult struct {
	Boards []model.Board `json:"boards"`
	Cards  []model.Card  `json:"cards"`
}

// SearchService matches boards and cards by title/description, scoped to
// the caller's boards. It never reaches outside the caller's membership.
type SearchService struct {
	boards repository.BoardRepositoryInterface
	cards  repository.CardRepositoryInterface
}

func NewSearchService(boards repository.BoardRepositoryInterface, cards repository.CardRepositoryInterface) *SearchService {
	return &SearchService{boards: boards, cards: cards}
}

func (s *SearchService) Search(ctx context.Context, caller *model.User, query string) (*SearchResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, apperr.Validation("Search query is required", map[string]string{"query": "is required"})
	}

	matchedBoards, err := s.boards.SearchForUser(ctx, caller.ID, query, searchBoardLimit)
	if err != nil {
		return nil, err
	}

	memberBoards, err := s.boards.GetForUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	boardIDs := make([]uuid.UUID, len(memberBoards))
	for i, b := range memberBoards {
		boardIDs[i] = b.ID
	}

	matchedCards, err := s.cards.SearchInBoards(ctx, boardIDs, query, searchCardLimit)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Boards: matchedBoards, Cards: matchedCards}, nil
}
