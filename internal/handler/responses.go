package handler

import (
	"time"

	"taskboard/internal/model"
)

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}

type BoardResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Owner           UserResponse   `json:"owner"`
	Admins          []UserResponse `json:"admins"`
	Members         []UserResponse `json:"members"`
	BackgroundColor string         `json:"background_color"`
	IsPrivate       bool           `json:"is_private"`
	CreatedAt       string         `json:"created_at"`
}

func toBoardResponse(b *model.Board) BoardResponse {
	return BoardResponse{
		ID:              b.ID.String(),
		Title:           b.Title,
		Description:     b.Description,
		Owner:           toUserResponse(&b.Owner),
		Admins:          toUserResponses(b.Admins),
		Members:         toUserResponses(b.Members),
		BackgroundColor: b.BackgroundColor,
		IsPrivate:       b.IsPrivate,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

type ListResponse struct {
	ID         string  `json:"id"`
	BoardID    string  `json:"board_id"`
	Title      string  `json:"title"`
	Position   float64 `json:"position"`
	IsArchived bool    `json:"is_archived"`
	CreatedAt  string  `json:"created_at"`
}

func toListResponse(l *model.List) ListResponse {
	return ListResponse{
		ID:         l.ID.String(),
		BoardID:    l.BoardID.String(),
		Title:      l.Title,
		Position:   l.Position,
		IsArchived: l.IsArchived,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
}

type CardResponse struct {
	ID          string         `json:"id"`
	ListID      string         `json:"list_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Position    float64        `json:"position"`
	Assignees   []UserResponse `json:"assignees"`
	DueDate     *string        `json:"due_date,omitempty"`
	Labels      []string       `json:"labels"`
	Priority    string         `json:"priority"`
	IsArchived  bool           `json:"is_archived"`
	CreatedAt   string         `json:"created_at"`
}

// toCardResponse translates the stored card to its wire shape; the
// priority leaves the store lower-case and crosses the boundary upper-case.
func toCardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:          card.ID.String(),
		ListID:      card.ListID.String(),
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
		Assignees:   toUserResponses(card.Assignees),
		Labels:      card.Labels,
		Priority:    card.Priority.External(),
		IsArchived:  card.IsArchived,
		CreatedAt:   card.CreatedAt.Format(time.RFC3339),
	}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	if card.DueDate != nil {
		due := card.DueDate.Format(time.RFC3339)
		resp.DueDate = &due
	}
	return resp
}

type CommentResponse struct {
	ID        string       `json:"id"`
	CardID    string       `json:"card_id"`
	Author    UserResponse `json:"author"`
	Content   string       `json:"content"`
	IsEdited  bool         `json:"is_edited"`
	CreatedAt string       `json:"created_at"`
}

func toCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID.String(),
		CardID:    comment.CardID.String(),
		Author:    toUserResponse(&comment.Author),
		Content:   comment.Content,
		IsEdited:  comment.IsEdited,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
}

type NotificationResponse struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Title      string        `json:"title"`
	Message    string        `json:"message"`
	Sender     *UserResponse `json:"sender,omitempty"`
	EntityType string        `json:"entity_type,omitempty"`
	EntityID   *string       `json:"entity_id,omitempty"`
	IsRead     bool          `json:"is_read"`
	CreatedAt  string        `json:"created_at"`
}

func toNotificationResponse(n *model.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:         n.ID.String(),
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
	if n.Sender != nil {
		sender := toUserResponse(n.Sender)
		resp.Sender = &sender
	}
	if n.EntityID != nil {
		id := n.EntityID.String()
		resp.EntityID = &id
	}
	return resp
}
