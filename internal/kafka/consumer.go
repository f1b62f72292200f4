package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"maintenance-automation-service/internal/models"
)

// Rescheduler is what the consumer calls when the floor system reports a
// finished task.
type Rescheduler interface {
	Complete(ctx context.Context, taskID string) (time.Time, error)
}

// Consumer listens for maintenance events from the factory floor system.
// Only task_completed events are acted on; everything else is ignored.
type Consumer struct {
	reader  *kafka.Reader
	resched Rescheduler
	logger  *logrus.Logger
}

type maintenanceEvent struct {
	Event  string `json:"event"`
	TaskID string `json:"task_id"`
}

func NewConsumer(broker, topic, groupID string, resched Rescheduler, logger *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: reader, resched: resched, logger: logger}
}

// Start consumes events until the context is cancelled.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Info("Kafka consumer started")

		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					c.logger.Info("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			var event maintenanceEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Errorf("Unmarshal message failed: %v", err)
				continue
			}

			if event.Event != "task_completed" || event.TaskID == "" {
				continue
			}

			next, err := c.resched.Complete(ctx, event.TaskID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					c.logger.Warnf("Completion event for unknown task %s", event.TaskID)
					continue
				}
				c.logger.Errorf("Failed to reschedule task %s: %v", event.TaskID, err)
				continue
			}
			c.logger.Infof("Task %s completed, next execution %s", event.TaskID, next.Format("2006-01-02"))
		}
	}()
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
