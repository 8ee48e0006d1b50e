package produce

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	FileCleanupQueue      = "file.cleanup"
	FileCleanupExchange   = "file.exchange"
	FileCleanupRoutingKey = "file.cleanup"
)

// FilePurgeMessage asks the sweeper to purge one soft-deleted file promptly,
// ahead of the next scheduled full sweep.
type FilePurgeMessage struct {
	FileID    string `json:"file_id"`
	Timestamp int64  `json:"timestamp"`
}

// CleanupProduceService publishes file purge messages.
type CleanupProduceService struct {
	channel *amqp.Channel
}

func InitCleanupProduceService(channel *amqp.Channel) *CleanupProduceService {
	service := &CleanupProduceService{channel: channel}

	err := channel.ExchangeDeclare(
		FileCleanupExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Cleanup exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		FileCleanupQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		FileCleanupQueue,
		FileCleanupRoutingKey,
		FileCleanupExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Cleanup queue: " + err.Error())
	}

	return service
}

func (s *CleanupProduceService) PublishFilePurge(ctx context.Context, fileID uuid.UUID) error {
	msg := FilePurgeMessage{
		FileID:    fileID.String(),
		Timestamp: time.Now().Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(ctx,
		FileCleanupExchange,
		FileCleanupRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
