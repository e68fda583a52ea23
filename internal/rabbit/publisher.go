// publisher.go
package rabbit

import (
	"context"
	"encoding/json"

	"shipway-proxy-service/internal/logger"
	"shipway-proxy-service/internal/service"

	"github.com/rabbitmq/amqp091-go"
)

const auditExchange = "shipway_audit"

// AuditPublisher fans audit events out to whoever is listening. Publishing is
// best-effort: a broker hiccup is logged, never surfaced to the request.
type AuditPublisher struct {
	ch *amqp091.Channel
}

func NewAuditPublisher(ch *amqp091.Channel) (*AuditPublisher, error) {
	err := ch.ExchangeDeclare(
		auditExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &AuditPublisher{ch: ch}, nil
}

func (p *AuditPublisher) Publish(ctx context.Context, event service.AuditEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("audit: encoding event failed", "error", err)
		return
	}

	err = p.ch.PublishWithContext(ctx,
		auditExchange,
		"", // fanout ignores the routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		logger.Error("audit: publish failed", "operation", event.Operation, "error", err)
		return
	}

	logger.Info("audit event published", "operation", event.Operation, "entity_id", event.EntityID)
}
