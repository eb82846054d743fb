package service_test

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// In-memory repository fakes. They mirror the semantics the GORM-backed
// implementations provide: nil for missing or soft-deleted rows, position
// ordering for sibling queries, membership demotion on removal.

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

var _ repository.UserRepositoryInterface = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.IsDeleted {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, u := range r.users {
		if !u.CreatedAt.Before(from) && u.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type fakeBoardRepo struct {
	boards map[uuid.UUID]*model.Board
}

var _ repository.BoardRepositoryInterface = (*fakeBoardRepo)(nil)

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: make(map[uuid.UUID]*model.Board)}
}

func (r *fakeBoardRepo) Create(_ context.Context, board *model.Board) error {
	if board.ID == uuid.Nil {
		board.ID = uuid.New()
	}
	r.boards[board.ID] = board
	return nil
}

func (r *fakeBoardRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	b, ok := r.boards[id]
	if !ok || b.IsDeleted {
		return nil, nil
	}
	return b, nil
}

func (r *fakeBoardRepo) GetForUser(_ context.Context, userID uuid.UUID) ([]model.Board, error) {
	var out []model.Board
	for _, b := range r.boards {
		if b.IsDeleted {
			continue
		}
		if b.IsOwner(userID) || b.HasMember(userID) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) Update(_ context.Context, board *model.Board) error {
	r.boards[board.ID] = board
	return nil
}

func (r *fakeBoardRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if b, ok := r.boards[id]; ok {
		b.IsDeleted = true
	}
	return nil
}

func (r *fakeBoardRepo) AddMember(_ context.Context, board *model.Board, user *model.User) error {
	b := r.boards[board.ID]
	b.Members = append(b.Members, *user)
	return nil
}

// RemoveMember also drops the user from the admins set, matching the
// demote-on-remove transaction of the real repository.
func (r *fakeBoardRepo) RemoveMember(_ context.Context, board *model.Board, user *model.User) error {
	b := r.boards[board.ID]
	b.Members = removeUser(b.Members, user.ID)
	b.Admins = removeUser(b.Admins, user.ID)
	return nil
}

func (r *fakeBoardRepo) AddAdmin(_ context.Context, board *model.Board, user *model.User) error {
	b := r.boards[board.ID]
	b.Admins = append(b.Admins, *user)
	return nil
}

func (r *fakeBoardRepo) RemoveAdmin(_ context.Context, board *model.Board, user *model.User) error {
	b := r.boards[board.ID]
	b.Admins = removeUser(b.Admins, user.ID)
	return nil
}

func (r *fakeBoardRepo) SearchForUser(ctx context.Context, userID uuid.UUID, query string, limit int) ([]model.Board, error) {
	boards, _ := r.GetForUser(ctx, userID)
	var out []model.Board
	for _, b := range boards {
		if len(out) >= limit {
			break
		}
		if containsFold(b.Title, query) || containsFold(b.Description, query) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) CountAll(_ context.Context) (int64, error) {
	var n int64
	for _, b := range r.boards {
		if !b.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *fakeBoardRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, b := range r.boards {
		if !b.IsDeleted && !b.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBoardRepo) CountByPrivacy(_ context.Context, private bool) (int64, error) {
	var n int64
	for _, b := range r.boards {
		if !b.IsDeleted && b.IsPrivate == private {
			n++
		}
	}
	return n, nil
}

func (r *fakeBoardRepo) CountOwned(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.boards {
		if !b.IsDeleted && b.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBoardRepo) AverageMembersPerBoard(_ context.Context) (float64, error) {
	if len(r.boards) == 0 {
		return 0, nil
	}
	var total int
	for _, b := range r.boards {
		total += len(b.Members)
	}
	return float64(total) / float64(len(r.boards)), nil
}

type fakeListRepo struct {
	lists map[uuid.UUID]*model.List
}

var _ repository.ListRepositoryInterface = (*fakeListRepo)(nil)

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{lists: make(map[uuid.UUID]*model.List)}
}

func (r *fakeListRepo) Create(_ context.Context, list *model.List) error {
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now()
	}
	r.lists[list.ID] = list
	return nil
}

func (r *fakeListRepo) GetByID(_ context.Context, id uuid.UUID) (*model.List, error) {
	l, ok := r.lists[id]
	if !ok || l.IsDeleted {
		return nil, nil
	}
	return l, nil
}

func (r *fakeListRepo) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.List, error) {
	var out []model.List
	for _, l := range r.lists {
		if l.BoardID == boardID && !l.IsDeleted {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeListRepo) Update(_ context.Context, list *model.List) error {
	r.lists[list.ID] = list
	return nil
}

func (r *fakeListRepo) UpdatePositions(_ context.Context, positions map[uuid.UUID]float64) error {
	for id, pos := range positions {
		if l, ok := r.lists[id]; ok {
			l.Position = pos
		}
	}
	return nil
}

func (r *fakeListRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if l, ok := r.lists[id]; ok {
		l.IsDeleted = true
	}
	return nil
}

type fakeCardRepo struct {
	cards map[uuid.UUID]*model.Card
}

var _ repository.CardRepositoryInterface = (*fakeCardRepo)(nil)

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[uuid.UUID]*model.Card)}
}

func (r *fakeCardRepo) Create(_ context.Context, card *model.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}
	r.cards[card.ID] = card
	return nil
}

func (r *fakeCardRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	c, ok := r.cards[id]
	if !ok || c.IsDeleted {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCardRepo) GetByListID(_ context.Context, listID uuid.UUID) ([]model.Card, error) {
	var out []model.Card
	for _, c := range r.cards {
		if c.ListID == listID && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeCardRepo) Update(_ context.Context, card *model.Card) error {
	r.cards[card.ID] = card
	return nil
}

func (r *fakeCardRepo) UpdatePositions(_ context.Context, positions map[uuid.UUID]float64) error {
	for id, pos := range positions {
		if c, ok := r.cards[id]; ok {
			c.Position = pos
		}
	}
	return nil
}

func (r *fakeCardRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.cards[id]; ok {
		c.IsDeleted = true
	}
	return nil
}

func (r *fakeCardRepo) AddAssignee(_ context.Context, card *model.Card, user *model.User) error {
	c := r.cards[card.ID]
	c.Assignees = append(c.Assignees, *user)
	return nil
}

func (r *fakeCardRepo) RemoveAssignee(_ context.Context, card *model.Card, user *model.User) error {
	c := r.cards[card.ID]
	c.Assignees = removeUser(c.Assignees, user.ID)
	return nil
}

func (r *fakeCardRepo) SearchInBoards(_ context.Context, boardIDs []uuid.UUID, query string, limit int) ([]model.Card, error) {
	var out []model.Card
	for _, c := range r.cards {
		if c.IsDeleted || len(out) >= limit {
			continue
		}
		if containsFold(c.Title, query) || containsFold(c.Description, query) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) CountAll(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.cards {
		if !c.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *fakeCardRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, c := range r.cards {
		if !c.IsDeleted && !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeCardRepo) CountArchived(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.cards {
		if !c.IsDeleted && c.IsArchived {
			n++
		}
	}
	return n, nil
}

func (r *fakeCardRepo) CountAssignedTo(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.cards {
		if !c.IsDeleted && c.HasAssignee(userID) {
			n++
		}
	}
	return n, nil
}

type fakeCommentRepo struct {
	comments map[uuid.UUID]*model.Comment
}

var _ repository.CommentRepositoryInterface = (*fakeCommentRepo)(nil)

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]*model.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		// Strictly increasing timestamps keep insertion order deterministic.
		comment.CreatedAt = time.Now().Add(time.Duration(len(r.comments)) * time.Millisecond)
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	c, ok := r.comments[id]
	if !ok || c.IsDeleted {
		return nil, nil
	}
	return c, nil
}

func (r *fakeCommentRepo) GetByCardID(_ context.Context, cardID uuid.UUID) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range r.comments {
		if c.CardID == cardID && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *model.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.comments[id]; ok {
		c.IsDeleted = true
	}
	return nil
}

func (r *fakeCommentRepo) CountAll(_ context.Context) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if !c.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) CountByAuthor(_ context.Context, authorID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if !c.IsDeleted && c.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]*model.Notification
}

var _ repository.NotificationRepositoryInterface = (*fakeNotificationRepo)(nil)

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]*model.Notification)}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.notifications[n.ID] = n
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id, recipientID uuid.UUID) (*model.Notification, error) {
	n, ok := r.notifications[id]
	if !ok || n.IsDeleted || n.RecipientID != recipientID {
		return nil, nil
	}
	return n, nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsDeleted {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	for _, item := range r.notifications {
		if item.RecipientID == recipientID && !item.IsDeleted && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	if n, ok := r.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if n, ok := r.notifications[id]; ok {
		n.IsDeleted = true
	}
	return nil
}

type fakeActivityRepo struct {
	entries []model.ActivityLog
}

var _ repository.ActivityLogRepositoryInterface = (*fakeActivityRepo)(nil)

func (r *fakeActivityRepo) Create(_ context.Context, entry *model.ActivityLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeActivityRepo) List(_ context.Context, limit, offset int) ([]model.ActivityLog, error) {
	if offset >= len(r.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.entries) {
		end = len(r.entries)
	}
	return r.entries[offset:end], nil
}

func (r *fakeActivityRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.ActivityLog, error) {
	var out []model.ActivityLog
	for _, e := range r.entries {
		if e.UserID == userID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) CountActiveUsersSince(_ context.Context, since time.Time) (int64, error) {
	seen := make(map[uuid.UUID]struct{})
	for _, e := range r.entries {
		if !e.CreatedAt.Before(since) {
			seen[e.UserID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeActivityRepo) TopUsers(_ context.Context, limit int) ([]repository.UserActivityCount, error) {
	counts := make(map[uuid.UUID]int64)
	for _, e := range r.entries {
		counts[e.UserID]++
	}
	var out []repository.UserActivityCount
	for id, n := range counts {
		out = append(out, repository.UserActivityCount{UserID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeActivityRepo) actions() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

type fakeNotifier struct {
	sent []*model.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, notification *model.Notification) {
	n.sent = append(n.sent, notification)
}

func removeUser(users []model.User, id uuid.UUID) []model.User {
	out := users[:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
