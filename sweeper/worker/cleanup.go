package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/EldoranCodes/FileStorageApi/infra"
	"github.com/EldoranCodes/FileStorageApi/infra/produce"
	"github.com/EldoranCodes/FileStorageApi/service"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CleanupConsumer handles file purge messages from the queue. It purges the
// single named file; the scheduled full sweep catches anything it misses.
type CleanupConsumer struct {
	channel *amqp.Channel
	infra   *infra.Infra
	cleanup *service.CleanupService
}

func NewCleanupConsumer(channel *amqp.Channel, infra *infra.Infra, cleanup *service.CleanupService) *CleanupConsumer {
	return &CleanupConsumer{
		channel: channel,
		infra:   infra,
		cleanup: cleanup,
	}
}

// Start begins consuming file purge messages.
func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.FileCleanupQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening for purge jobs on queue: %s", produce.FileCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handlePurge(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *CleanupConsumer) handlePurge(ctx context.Context, msg amqp.Delivery) {
	var payload produce.FilePurgeMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to unmarshal message: %v", err)
		_ = msg.Nack(false, false)
		return
	}

	fileID, err := uuid.Parse(payload.FileID)
	if err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Invalid file_id '%s': %v", payload.FileID, err)
		_ = msg.Nack(false, false)
		return
	}

	if err := c.cleanup.PurgeFile(ctx, fileID); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to purge file %s, requeueing: %v", fileID, err)
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
