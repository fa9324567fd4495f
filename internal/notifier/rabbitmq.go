// Package notifier turns change events into outbound notification
// messages for the bot process, which owns delivery to subscribers.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

// RabbitMQ publishes notification messages to a durable queue consumed
// by the chat frontend. Delivery retries and user-facing failures are
// the consumer's concern; the tracking engine fires and forgets.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

// NotificationMessage is the wire format consumed by the bot process.
type NotificationMessage struct {
	OwnerID     int64             `json:"owner_id"`
	ProductID   int64             `json:"product_id"`
	Store       domain.StoreKind  `json:"store"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Kind        domain.ChangeKind `json:"kind"`
	PrevPrice   domain.Price      `json:"prev_price"`
	NewPrice    domain.Price      `json:"new_price"`
	PrevInStock bool              `json:"prev_in_stock"`
	NewInStock  bool              `json:"new_in_stock"`
	Text        string            `json:"text"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Dispatch renders the event and enqueues it for the product's owner.
func (r *RabbitMQ) Dispatch(ctx context.Context, event *domain.ChangeEvent) error {
	msg := NotificationMessage{
		OwnerID:     event.Product.OwnerID,
		ProductID:   event.Product.ID,
		Store:       event.Product.Store,
		Title:       event.Title,
		URL:         event.Product.URL,
		Kind:        event.Kind,
		PrevPrice:   event.PrevPrice,
		NewPrice:    event.NewPrice,
		PrevInStock: event.PrevInStock,
		NewInStock:  event.NewInStock,
		Text:        renderText(event),
		Timestamp:   time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	r.logger.Debug("dispatched notification",
		"product_id", event.Product.ID,
		"owner_id", event.Product.OwnerID,
		"kind", event.Kind,
	)

	return nil
}

// renderText builds the subscriber-facing message body. Wording follows
// the bot's Turkish UI.
func renderText(event *domain.ChangeEvent) string {
	var header string
	switch event.Kind {
	case domain.PriceDecreased:
		header = "📉 Fiyat düştü!"
	case domain.PriceIncreased:
		header = "📈 Fiyat arttı!"
	case domain.BackInStock:
		header = "🎉 Ürün tekrar stokta!"
	case domain.OutOfStock:
		header = "❌ Ürün stokta kalmadı!"
	default:
		header = "ℹ️ Ürün güncellendi"
	}

	text := fmt.Sprintf("%s\n\n🛒 %s\n", header, event.Title)
	switch event.Kind {
	case domain.PriceDecreased, domain.PriceIncreased:
		text += fmt.Sprintf("💰 Eski fiyat: %s\n💰 Yeni fiyat: %s\n", event.PrevPrice, event.NewPrice)
	case domain.BackInStock:
		text += fmt.Sprintf("💰 Fiyat: %s\n", event.NewPrice)
		if !event.PrevPrice.Equal(event.NewPrice) {
			text += fmt.Sprintf("💰 Önceki fiyat: %s\n", event.PrevPrice)
		}
	}
	text += fmt.Sprintf("\n🔗 %s", event.Product.URL)
	return text
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
