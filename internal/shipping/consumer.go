package shipping

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
)

// Consumer processes carrier tracking events delivered through Pub/Sub.
type Consumer struct {
	service      Service
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(service Service, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if service == nil {
		return nil, errors.New("shipping service is required")
	}
	if subscription == nil {
		return nil, errors.New("tracking subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		service:      service,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	fields := map[string]any{"message_id": msg.ID}
	logCtx := c.logg.WithFields(ctx, fields)

	var update CarrierUpdate
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		fields["payload_len"] = len(msg.Data)
		logCtx = c.logg.WithFields(ctx, fields)
		c.logg.Error(logCtx, "failed to unmarshal carrier update", err)
		return processResult{ack: true}
	}

	fields["order_number"] = update.OrderNumber
	fields["status"] = update.Status.String()
	logCtx = c.logg.WithFields(ctx, fields)

	if err := c.service.ApplyCarrierUpdate(logCtx, update); err != nil {
		return c.handleServiceError(logCtx, err)
	}

	c.logg.Info(logCtx, "carrier update applied")
	return processResult{ack: true}
}

// handleServiceError acks permanently-bad updates (validation, unknown order,
// illegal transition) and nacks only failures worth redelivering.
func (c *Consumer) handleServiceError(ctx context.Context, err error) processResult {
	c.logg.Error(ctx, "carrier update failed", err)

	switch {
	case pkgerrors.IsCode(err, pkgerrors.CodeValidation),
		pkgerrors.IsCode(err, pkgerrors.CodeNotFound),
		pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
		return processResult{ack: true}
	default:
		return processResult{nack: true}
	}
}
