package produce

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/notaproblemtosolve/upload-gateway/entity"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ImageExchange           = "image.exchange"
	ImageUploadedQueue      = "image.uploaded"
	ImageUploadedRoutingKey = "image.uploaded"
)

// Publisher is the part of *amqp.Channel the image producer uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ImageProduceService publishes image lifecycle events
type ImageProduceService struct {
	channel Publisher
}

func InitImageProduceService(channel *amqp.Channel) *ImageProduceService {
	err := channel.ExchangeDeclare(
		ImageExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Image exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		ImageUploadedQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Image Uploaded queue: " + err.Error())
	}

	err = channel.QueueBind(
		ImageUploadedQueue,
		ImageUploadedRoutingKey,
		ImageExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Image Uploaded queue: " + err.Error())
	}

	return NewImageProduceService(channel)
}

func NewImageProduceService(channel Publisher) *ImageProduceService {
	return &ImageProduceService{channel: channel}
}

func (s *ImageProduceService) PublishImageUploaded(ctx context.Context, event entity.ImageUploadedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal image event: %w", err)
	}

	return s.channel.PublishWithContext(
		ctx,
		ImageExchange,
		ImageUploadedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
