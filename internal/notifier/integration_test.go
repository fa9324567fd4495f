//go:build integration

package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/OlricBeyy/telegram-tracking-bot/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestDispatcher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	dispatcher, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(dispatcher)

	err = dispatcher.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestDispatcher_PriceDropMessage() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-drop",
		RoutingKey: "test-routing-key-drop",
		QueueName:  "test-queue-drop",
	}

	dispatcher, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer dispatcher.Close()

	event := &domain.ChangeEvent{
		Product: &domain.TrackedProduct{
			ID:      12,
			OwnerID: 7,
			Store:   domain.StoreTrendyol,
			URL:     "https://www.trendyol.com/x-p-1",
		},
		Kind:        domain.PriceDecreased,
		PrevPrice:   domain.Price{Amount: 100, Currency: "TRY"},
		NewPrice:    domain.Price{Amount: 89, Currency: "TRY"},
		PrevInStock: true,
		NewInStock:  true,
		Title:       "Logitech MX Master 3S",
		At:          time.Now(),
	}

	err = dispatcher.Dispatch(s.ctx, event)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal("application/json", msg.ContentType)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received NotificationMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(int64(7), received.OwnerID)
	s.Equal(int64(12), received.ProductID)
	s.Equal(domain.StoreTrendyol, received.Store)
	s.Equal(domain.PriceDecreased, received.Kind)
	s.Equal(int64(10000), received.PrevPrice.Cents())
	s.Equal(int64(8900), received.NewPrice.Cents())
	s.Contains(received.Text, "📉 Fiyat düştü!")
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestDispatcher_OutOfStockMessage() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-oos",
		RoutingKey: "test-routing-key-oos",
		QueueName:  "test-queue-oos",
	}

	dispatcher, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer dispatcher.Close()

	event := &domain.ChangeEvent{
		Product: &domain.TrackedProduct{
			ID:      13,
			OwnerID: 8,
			Store:   domain.StoreAmazon,
			URL:     "https://www.amazon.com.tr/dp/B08KTZ8249",
		},
		Kind:        domain.OutOfStock,
		PrevPrice:   domain.Price{Amount: 4599, Currency: "TRY"},
		NewPrice:    domain.Price{Amount: 4599, Currency: "TRY"},
		PrevInStock: true,
		NewInStock:  false,
		Title:       "Kindle Paperwhite",
		At:          time.Now(),
	}

	err = dispatcher.Dispatch(s.ctx, event)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received NotificationMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(domain.OutOfStock, received.Kind)
	s.True(received.PrevInStock)
	s.False(received.NewInStock)
	s.Contains(received.Text, "❌ Ürün stokta kalmadı!")
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}
