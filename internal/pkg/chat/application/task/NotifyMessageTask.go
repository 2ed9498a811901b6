package task

import (
	"context"
	"encoding/json"
	"log"
	"time"

	qport "socialite/internal/infrastructure/queue/port"
)

// NotifyMessageTaskType is the queue task name for the courtesy notification
// sent after a message is persisted.
const NotifyMessageTaskType = "chat:notify_message"

// NotifyMessagePayload is the JSON payload transported via the queue. Kept
// decoupled from domain types to avoid tight coupling with JSON tags.
type NotifyMessagePayload struct {
	RecipientID    string `json:"recipientId"`
	SenderID       string `json:"senderId"`
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
	Preview        string `json:"preview"`
}

// Notifier delivers the courtesy notification to its external channel (push,
// email digest, badge service). Delivery is best-effort by contract.
type Notifier func(ctx context.Context, p NotifyMessagePayload) error

// EnqueueNotifyMessage schedules the courtesy notification. Callers treat a
// failure here as non-fatal: the message is already persisted.
func EnqueueNotifyMessage(ctx context.Context, client qport.Client, p NotifyMessagePayload) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(ctx, qport.Task{Type: NotifyMessageTaskType, Payload: b}, qport.EnqueueOption{
		Queue:    "chat",
		MaxRetry: 5,
	})
	return err
}

// RegisterNotifyMessageTask binds the task handler to the provided server.
// With a nil notifier the handler just records the delivery, which keeps the
// worker runnable before a notification channel is wired up.
func RegisterNotifyMessageTask(srv qport.Server, notify Notifier) {
	srv.Register(NotifyMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying will not help
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if notify == nil {
			log.Printf("notify: user=%s message=%s from=%s", p.RecipientID, p.MessageID, p.SenderID)
			return nil
		}
		return notify(ctx, p)
	})
}
