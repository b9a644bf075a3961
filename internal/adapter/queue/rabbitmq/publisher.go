package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/port"
)

const (
	reminderExchange = "reminders.direct"
	reminderQueue    = "reminders.notify"
)

type reminderQueueService struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *zap.Logger
}

// NewReminderQueue dials the broker and declares the reminder topology. The
// queue binds every priority routing key so one consumer drains them all.
func NewReminderQueue(url string, log *zap.Logger) (port.ReminderQueue, error) {
	var conn *amqp.Connection
	var err error

	// Retry connection up to 10 times with backoff
	maxRetries := 10
	for i := 1; i <= maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr == nil {
				svc := &reminderQueueService{
					conn: conn,
					ch:   ch,
					log:  log,
				}
				if err := svc.declareTopology(); err != nil {
					conn.Close()
					return nil, err
				}
				return svc, nil
			}
			err = chErr
			conn.Close()
		}

		log.Warn("Failed to connect to RabbitMQ, retrying...",
			zap.Int("attempt", i),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)

		// Simple incremental backoff
		time.Sleep(time.Duration(i*2) * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

func (q *reminderQueueService) declareTopology() error {
	if err := q.ch.ExchangeDeclare(
		reminderExchange, // name
		"direct",         // kind
		true,             // durable
		false,            // auto-delete
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	); err != nil {
		return err
	}

	if _, err := q.ch.QueueDeclare(
		reminderQueue, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	); err != nil {
		return err
	}

	for _, key := range []string{"reminder.low", "reminder.normal", "reminder.high"} {
		if err := q.ch.QueueBind(reminderQueue, key, reminderExchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}

func (q *reminderQueueService) PublishReminder(ctx context.Context, event *domain.ReminderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	routingKey := "reminder.normal"
	switch event.Priority {
	case domain.TaskPriorityHigh:
		routingKey = "reminder.high"
	case domain.TaskPriorityLow:
		routingKey = "reminder.low"
	}

	err = q.ch.PublishWithContext(ctx,
		reminderExchange, // Exchange
		routingKey,       // Routing key
		false,            // Mandatory
		false,            // Immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Priority:    amqpPriority(event.Priority),
		})

	if err != nil {
		q.log.Error("Failed to publish reminder", zap.Error(err))
		return err
	}

	q.log.Info("Published reminder to RabbitMQ",
		zap.String("task_id", event.TaskID),
		zap.String("key", routingKey))
	return nil
}

// Close releases the channel and connection.
func (q *reminderQueueService) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}

func amqpPriority(p domain.TaskPriority) uint8 {
	switch p {
	case domain.TaskPriorityHigh:
		return 9
	case domain.TaskPriorityLow:
		return 1
	default:
		return 5
	}
}
