package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeMessagesDelivery(t *testing.T) {
	recipientCh, unsubRecipient := SubscribeMessages("user-recipient")
	defer unsubRecipient()
	senderCh, unsubSender := SubscribeMessages("user-sender")
	defer unsubSender()
	bystanderCh, unsubBystander := SubscribeMessages("user-bystander")
	defer unsubBystander()

	event := MessageEvent{
		Type:        "message",
		MessageID:   "m1",
		SenderID:    "user-sender",
		RecipientID: "user-recipient",
		Content:     "hello",
		Timestamp:   time.Now().UTC(),
	}
	fanOutMessageEvent(event)

	select {
	case got := <-recipientCh:
		assert.Equal(t, "m1", got.MessageID)
		assert.Equal(t, "hello", got.Content)
	case <-time.After(time.Second):
		t.Fatal("recipient did not receive event")
	}

	// Sender gets an echo for multi-device views.
	select {
	case got := <-senderCh:
		assert.Equal(t, "m1", got.MessageID)
	case <-time.After(time.Second):
		t.Fatal("sender did not receive echo")
	}

	// Unrelated users receive nothing.
	select {
	case evt := <-bystanderCh:
		t.Fatalf("bystander unexpectedly received event %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeMessagesSelfConversationSingleDelivery(t *testing.T) {
	ch, unsub := SubscribeMessages("user-self")
	defer unsub()

	fanOutMessageEvent(MessageEvent{
		Type:        "message",
		MessageID:   "m-self",
		SenderID:    "user-self",
		RecipientID: "user-self",
	})

	select {
	case got := <-ch:
		assert.Equal(t, "m-self", got.MessageID)
	case <-time.After(time.Second):
		t.Fatal("did not receive event")
	}

	// Sender and recipient are the same subscriber; no duplicate delivery.
	select {
	case evt := <-ch:
		t.Fatalf("received duplicate event %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	ch, unsub := SubscribeMessages("user-closing")
	unsub()

	_, open := <-ch
	require.False(t, open, "channel should be closed after unsubscribe")

	// Unsubscribing twice must not panic.
	unsub()

	// Events after unsubscribe go nowhere.
	fanOutMessageEvent(MessageEvent{
		MessageID:   "m-late",
		SenderID:    "someone",
		RecipientID: "user-closing",
	})
}
