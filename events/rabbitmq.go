package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ferreirogomes/propfolio/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// channel é a parte de *amqp.Channel usada pelo publisher.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publica eventos de imóveis em um exchange topic do RabbitMQ.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// NewRabbitPublisher conecta ao broker e declara o exchange (durável, tipo topic).
func NewRabbitPublisher(url, exchange string, logger logging.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("falha ao abrir canal no RabbitMQ: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("falha ao declarar exchange %s: %w", exchange, err)
	}

	logger.Info("Publisher de eventos conectado ao RabbitMQ.", logging.Fields{"exchange": exchange})
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish envia o evento usando o tipo como routing key.
func (p *RabbitPublisher) Publish(ctx context.Context, event PropertyEvent) error {
	msg, err := buildPublishing(ctx, event)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(publishCtx, p.exchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("falha ao publicar evento %s: %w", event.Type, err)
	}
	logging.FromContext(ctx).Debug("Evento publicado.", logging.Fields{
		"event_type":  event.Type,
		"property_id": event.PropertyID,
	})
	return nil
}

// Close fecha o canal e a conexão.
func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return fmt.Errorf("falha ao fechar canal do RabbitMQ: %w", err)
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func buildPublishing(ctx context.Context, event PropertyEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("falha ao serializar evento: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Headers:      amqp.Table{},
	}
	if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}
	return msg, nil
}
