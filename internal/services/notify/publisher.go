// Package notify publishes export-completed events for the portal's
// notification subsystem. Publish-only: consuming and turning events into
// client emails belongs to the portal, not to this service.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const exportQueue = "gallery_exports"

// ExportEvent is the payload published after every delivered archive.
type ExportEvent struct {
	ExportID     string    `json:"export_id"`
	GalleryID    string    `json:"gallery_id"`
	GallerySlug  string    `json:"gallery_slug"`
	PhotoCount   int       `json:"photo_count"`
	Exported     int       `json:"exported"`
	ArchiveBytes int       `json:"archive_bytes"`
	CompletedAt  time.Time `json:"completed_at"`
}

type Publisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

func NewPublisher(rabbitmqURL string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		exportQueue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{
		conn:      conn,
		channel:   channel,
		queueName: exportQueue,
		logger:    logger,
	}, nil
}

// PublishExported emits one gallery.exported event. Best-effort from the
// caller's point of view; a lost event never fails a delivered archive.
func (p *Publisher) PublishExported(ctx context.Context, event ExportEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.Publish(
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         "gallery.exported",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("Export event published",
		zap.String("export_id", event.ExportID),
		zap.String("gallery_id", event.GalleryID),
	)
	return nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
