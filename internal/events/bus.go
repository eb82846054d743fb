// Package events implements the in-process publish/subscribe bus that
// decouples mutation completion from real-time delivery. Topics are coarse
// event types shared by every scope; each message carries a scope
// discriminator (board, card or recipient ID) and the router discards
// messages whose scope does not match a subscriber's requested scope.
package events

import (
	"sync"

	"github.com/google/uuid"
)

type Topic string

const (
	TopicCardCreated    Topic = "card_created"
	TopicCardUpdated    Topic = "card_updated"
	TopicCardMoved      Topic = "card_moved"
	TopicCardDeleted    Topic = "card_deleted"
	TopicCommentAdded   Topic = "comment_added"
	TopicCommentUpdated Topic = "comment_updated"
	TopicCommentDeleted Topic = "comment_deleted"
	TopicBoardUpdated   Topic = "board_updated"
	// TopicNotification is the private per-recipient channel; its scope is
	// the recipient's user ID, never a board or card ID.
	TopicNotification Topic = "notification"
)

type Message struct {
	Topic   Topic  `json:"topic"`
	Scope   string `json:"-"`
	Payload any    `json:"payload"`
}

// Scope converts an entity ID into the scope discriminator carried by
// messages and subscriptions.
func Scope(id uuid.UUID) string { return id.String() }

const subscriberBuffer = 16

type subscriber struct {
	scope string
	ch    chan Message
}

// Bus is safe for concurrent use. Publishing never blocks: a subscriber
// whose buffer is full misses the message rather than stalling the
// publisher or other subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic]map[*subscriber]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[*subscriber]struct{})}
}

// Subscribe registers interest in one topic filtered to one scope value.
// The returned cancel func must be called on disconnect; it removes the
// handle and closes the channel.
func (b *Bus) Subscribe(topic Topic, scope string) (<-chan Message, func()) {
	sub := &subscriber{scope: scope, ch: make(chan Message, subscriberBuffer)}
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*subscriber]struct{})
	}
	b.subs[topic][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if subs, ok := b.subs[topic]; ok {
				delete(subs, sub)
				if len(subs) == 0 {
					delete(b.subs, topic)
				}
			}
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers the message to every subscriber of the topic whose scope
// matches. Delivery is FIFO per subscriber and fire-and-forget for the
// publisher.
func (b *Bus) Publish(topic Topic, scope string, payload any) {
	msg := Message{Topic: topic, Scope: scope, Payload: payload}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[topic] {
		if sub.scope != scope {
			continue
		}
		select {
		case sub.ch <- msg:
		default: // drop if slow
		}
	}
}

// SubscriberCount reports the number of live handles on a topic; used by
// tests and the health endpoint.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
