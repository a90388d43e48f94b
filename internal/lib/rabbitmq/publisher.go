// Package rabbitmq публикует события жизненного цикла учётных записей
// в RabbitMQ для внешних потребителей (нотификации, аудит-пайплайны).
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Exchange — имя exchange для событий учётных записей.
const Exchange = "users"

// Ключи маршрутизации событий жизненного цикла.
const (
	KeyCreated  = "user.created"
	KeyRevoked  = "user.revoked"
	KeyRestored = "user.restored"
	KeyRemoved  = "user.removed"
)

// Event — событие жизненного цикла учётной записи.
type Event struct {
	Login      string    `json:"login"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher публикует события через открытый AMQP-канал.
type Publisher struct {
	ch *amqp.Channel
}

// Connect открывает соединение с RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewPublisher открывает канал и объявляет exchange событий.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Publisher{ch: ch}, nil
}

// Publish отправляет событие с указанным ключом маршрутизации.
func (p *Publisher) Publish(routingKey string, event Event) error {
	const op = "rabbitmq.Publish"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает AMQP-канал.
func (p *Publisher) Close() error {
	return p.ch.Close()
}
