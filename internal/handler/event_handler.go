package handler

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"taskboard/internal/events"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// heartbeatInterval keeps intermediaries from closing idle SSE streams.
const heartbeatInterval = 25 * time.Second

var boardStreamTopics = []events.Topic{
	events.TopicBoardUpdated,
	events.TopicCardCreated,
	events.TopicCardUpdated,
	events.TopicCardMoved,
	events.TopicCardDeleted,
}

var cardStreamTopics = []events.Topic{
	events.TopicCommentAdded,
	events.TopicCommentUpdated,
	events.TopicCommentDeleted,
}

// EventHandler serves the Server-Sent Events streams. Access is checked
// once at subscribe time; a client removed from a board afterwards keeps
// its stream until it disconnects.
type EventHandler struct {
	bus          *events.Bus
	boardService *service.BoardService
	cardService  *service.CardService
}

func NewEventHandler(bus *events.Bus, boardService *service.BoardService, cardService *service.CardService) *EventHandler {
	return &EventHandler{bus: bus, boardService: boardService, cardService: cardService}
}

// subscribeAll fans several topic subscriptions into one channel. The
// merged channel closes after cancel is called and all forwarders drain.
func (h *EventHandler) subscribeAll(topics []events.Topic, scope string) (<-chan events.Message, func()) {
	merged := make(chan events.Message, subscriberBufferHint)
	cancels := make([]func(), 0, len(topics))
	var wg sync.WaitGroup

	for _, topic := range topics {
		ch, cancel := h.bus.Subscribe(topic, scope)
		cancels = append(cancels, cancel)
		wg.Add(1)
		go func(ch <-chan events.Message) {
			defer wg.Done()
			for msg := range ch {
				select {
				case merged <- msg:
				default: // reader gone or saturated, same drop policy as the bus
				}
			}
		}(ch)
	}

	var once sync.Once
	cancelAll := func() {
		once.Do(func() {
			for _, cancel := range cancels {
				cancel()
			}
			go func() {
				wg.Wait()
				close(merged)
			}()
		})
	}
	return merged, cancelAll
}

const subscriberBufferHint = 16

// BoardStream streams board and card events of one board.
// @Summary  Subscribe to a board's events
// @Tags     Events
// @Security BearerAuth
// @Param    id path string true "Board ID"
// @Produce  text/event-stream
// @Router   /events/boards/{id} [get]
func (h *EventHandler) BoardStream(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	boardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// Membership gate; reuses the read path's access semantics.
	if _, err := h.boardService.Get(c.Request.Context(), user, boardID); err != nil {
		respondError(c, err)
		return
	}

	messages, cancel := h.subscribeAll(boardStreamTopics, events.Scope(boardID))
	defer cancel()
	h.stream(c, messages)
}

// CardStream streams comment events of one card.
// @Summary  Subscribe to a card's events
// @Tags     Events
// @Security BearerAuth
// @Param    id path string true "Card ID"
// @Produce  text/event-stream
// @Router   /events/cards/{id} [get]
func (h *EventHandler) CardStream(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.cardService.Get(c.Request.Context(), user, cardID); err != nil {
		respondError(c, err)
		return
	}

	messages, cancel := h.subscribeAll(cardStreamTopics, events.Scope(cardID))
	defer cancel()
	h.stream(c, messages)
}

// NotificationStream streams the caller's private notification channel.
// @Summary  Subscribe to own notifications
// @Tags     Events
// @Security BearerAuth
// @Produce  text/event-stream
// @Router   /events/notifications [get]
func (h *EventHandler) NotificationStream(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	messages, cancel := h.bus.Subscribe(events.TopicNotification, events.Scope(user.ID))
	defer cancel()
	h.stream(c, messages)
}

func (h *EventHandler) stream(c *gin.Context, messages <-chan events.Message) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, open := <-messages:
			if !open {
				return false
			}
			data, err := json.Marshal(msg.Payload)
			if err != nil {
				return true
			}
			c.SSEvent(string(msg.Topic), string(data))
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
