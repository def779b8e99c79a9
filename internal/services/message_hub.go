package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/inkwellhq/inkwell-backend/internal/database"
)

// MessageEvent is the payload broadcast over Redis and WebSocket when a
// direct message is sent.
type MessageEvent struct {
	Type           string    `json:"type"`
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	SenderID       string    `json:"sender_id"`
	SenderUsername string    `json:"sender_username,omitempty"`
	RecipientID    string    `json:"recipient_id"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

const messageEventsChannel = "dm_events"

// messageHub fans Redis-delivered events out to locally connected WebSocket
// clients, keyed by user id.
type messageHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan MessageEvent]struct{}
}

var (
	dmHub = &messageHub{
		subscribers: make(map[string]map[chan MessageEvent]struct{}),
	}
	dmSubscriberOnce sync.Once
)

// SubscribeMessages registers a local subscription for events addressed to
// the given user. The returned function removes the subscription and closes
// the channel.
func SubscribeMessages(userID string) (<-chan MessageEvent, func()) {
	ch := make(chan MessageEvent, 16)

	dmHub.mu.Lock()
	if dmHub.subscribers[userID] == nil {
		dmHub.subscribers[userID] = make(map[chan MessageEvent]struct{})
	}
	dmHub.subscribers[userID][ch] = struct{}{}
	dmHub.mu.Unlock()

	unsubscribe := func() {
		dmHub.mu.Lock()
		if subs, ok := dmHub.subscribers[userID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(dmHub.subscribers, userID)
			}
		}
		dmHub.mu.Unlock()
	}

	return ch, unsubscribe
}

// fanOutMessageEvent delivers an event to local subscribers of both
// participants (the sender gets an echo for multi-device views). Slow
// consumers are skipped rather than blocking the hub.
func fanOutMessageEvent(event MessageEvent) {
	targets := []string{event.RecipientID, event.SenderID}

	dmHub.mu.RLock()
	defer dmHub.mu.RUnlock()

	seen := map[chan MessageEvent]struct{}{}
	for _, target := range targets {
		for ch := range dmHub.subscribers[target] {
			if _, dup := seen[ch]; dup {
				continue
			}
			seen[ch] = struct{}{}
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// PublishMessageEvent broadcasts a message event via Redis Pub/Sub so every
// server instance can deliver it to its own connected clients.
func PublishMessageEvent(ctx context.Context, event MessageEvent) {
	if event.Type == "" {
		event.Type = "message"
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := database.RedisClient.Publish(ctx, messageEventsChannel, payload).Err(); err != nil {
		log.Printf("⚠️  Failed to publish message event: %v", err)
	}
}

// StartMessageSubscriber launches the Redis subscriber feeding the local hub.
// Safe to call more than once; only the first call starts the goroutine.
func StartMessageSubscriber(ctx context.Context) {
	dmSubscriberOnce.Do(func() {
		go func() {
			pubsub := database.RedisClient.Subscribe(ctx, messageEventsChannel)
			defer pubsub.Close()

			for msg := range pubsub.Channel() {
				var event MessageEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				fanOutMessageEvent(event)
			}
		}()
	})
}
