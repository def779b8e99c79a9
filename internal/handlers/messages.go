package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/inkwellhq/inkwell-backend/internal/models"
	"github.com/inkwellhq/inkwell-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

type SendMessageResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	MessageID string    `json:"messageId"`
	Timestamp time.Time `json:"timestamp"`
}

type ConversationListResponse struct {
	Success       bool                      `json:"success"`
	Conversations []models.ConversationView `json:"conversations"`
}

// SendMessage delivers a direct message from the authenticated user to the
// recipient and publishes the event so connected WebSocket clients see it
// in real time.
func SendMessage(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeMessage(w, http.StatusBadRequest, "Message content is required")
		return
	}
	if len(content) > models.MaxMessageLength {
		writeMessage(w, http.StatusBadRequest, "Message too long (max 1000 characters)")
		return
	}

	senderID, ok := parseObjectID(w, claims.UserID, "user ID")
	if !ok {
		return
	}
	recipientID, ok := parseObjectID(w, req.RecipientID, "recipient ID")
	if !ok {
		return
	}
	if recipientID == senderID {
		writeMessage(w, http.StatusBadRequest, "Cannot send a message to yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	message, err := services.SendMessage(ctx, senderID, recipientID, content)
	if err == services.ErrNotFound {
		writeMessage(w, http.StatusNotFound, "Recipient not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	services.PublishMessageEvent(ctx, services.MessageEvent{
		Type:           "message",
		MessageID:      message.ID.Hex(),
		SenderID:       senderID.Hex(),
		SenderUsername: claims.Username,
		RecipientID:    recipientID.Hex(),
		Content:        message.Content,
		Timestamp:      message.Timestamp,
	})

	writeJSON(w, http.StatusCreated, SendMessageResponse{
		Success:   true,
		Message:   "Message sent successfully",
		MessageID: message.ID.Hex(),
		Timestamp: message.Timestamp,
	})
}

// GetConversations lists the authenticated user's conversations, most
// recently active first.
func GetConversations(w http.ResponseWriter, r *http.Request) {
	claims := authenticate(w, r)
	if claims == nil {
		return
	}

	userID, ok := parseObjectID(w, claims.UserID, "user ID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	conversations, err := services.ListConversations(ctx, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if conversations == nil {
		conversations = []models.ConversationView{}
	}

	writeJSON(w, http.StatusOK, ConversationListResponse{
		Success:       true,
		Conversations: conversations,
	})
}

var messageUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// wsClientMessage represents frames coming from the frontend over WebSocket.
type wsClientMessage struct {
	Type        string `json:"type"` // "message", "ping"
	RecipientID string `json:"recipientId,omitempty"`
	Content     string `json:"content,omitempty"`
}

// MessagesWebSocket streams direct-message events to the authenticated user
// and accepts sends over the same connection. Authentication uses the JWT
// (Authorization: Bearer <token>), with a query-parameter fallback for
// browser WebSocket clients.
func MessagesWebSocket(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
	}

	claims, err := services.VerifyToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	senderID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := messageUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribe to local events for this user (fed by the Redis subscriber).
	eventsCh, unsubscribe := services.SubscribeMessages(claims.UserID)
	defer unsubscribe()

	// All writes go through a single goroutine; gorilla/websocket allows at
	// most one concurrent writer. The read loop sends acks and errors
	// through out instead of writing to conn itself.
	out := make(chan interface{}, 8)
	go func() {
		for {
			select {
			case evt, ok := <-eventsCh:
				if !ok {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					cancel()
					return
				}
			case frame := <-out:
				if err := conn.WriteJSON(frame); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg wsClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "message":
			handleIncomingDirectMessage(ctx, out, senderID, claims.Username, msg)
		case "ping":
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		default:
			// Ignore unknown types
		}
	}
}

// wsReply queues a frame for the connection's writer goroutine.
func wsReply(ctx context.Context, out chan<- interface{}, frame interface{}) {
	select {
	case out <- frame:
	case <-ctx.Done():
	}
}

// handleIncomingDirectMessage validates, persists, publishes via Redis, and
// acknowledges back to the sender.
func handleIncomingDirectMessage(
	ctx context.Context,
	out chan<- interface{},
	senderID primitive.ObjectID,
	senderUsername string,
	msg wsClientMessage,
) {
	content := strings.TrimSpace(msg.Content)
	if content == "" || len(content) > models.MaxMessageLength {
		wsReply(ctx, out, map[string]string{"type": "error", "error": "invalid message content"})
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(msg.RecipientID)
	if err != nil || recipientID == senderID {
		wsReply(ctx, out, map[string]string{"type": "error", "error": "invalid recipient"})
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	message, err := services.SendMessage(sendCtx, senderID, recipientID, content)
	if err != nil {
		wsReply(ctx, out, map[string]string{"type": "error", "error": "failed to send message"})
		return
	}

	event := services.MessageEvent{
		Type:           "message",
		MessageID:      message.ID.Hex(),
		SenderID:       senderID.Hex(),
		SenderUsername: senderUsername,
		RecipientID:    recipientID.Hex(),
		Content:        message.Content,
		Timestamp:      message.Timestamp,
	}
	services.PublishMessageEvent(sendCtx, event)

	ack := event
	ack.Type = "message_ack"
	wsReply(ctx, out, ack)
}
