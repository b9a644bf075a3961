package rabbitmq

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

// ConsumeReminders drains the reminders.notify queue and feeds each decoded
// event to the handler. Handler failures requeue the delivery, undecodable
// payloads are dropped.
func (q *reminderQueueService) ConsumeReminders(ctx context.Context, handler func(event *domain.ReminderEvent) error) error {
	msgs, err := q.ch.Consume(
		reminderQueue, // queue
		"",            // consumer
		false,         // auto-ack (we ack manually after the notification is stored)
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return err
	}

	q.log.Info("Started consuming reminders", zap.String("queue", reminderQueue))

	go func() {
		for d := range msgs {
			var event domain.ReminderEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				q.log.Error("Failed to unmarshal reminder event", zap.Error(err))
				d.Nack(false, false) // discard invalid message
				continue
			}

			q.log.Info("Received reminder event", zap.String("task_id", event.TaskID))

			if err := handler(&event); err != nil {
				q.log.Error("Reminder handling failed", zap.Error(err))
				// Requeue so a transient storage failure retries later.
				d.Nack(false, true)
			} else {
				d.Ack(false)
			}
		}
	}()

	return nil
}
