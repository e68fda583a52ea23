package service

import (
	"context"
	"errors"

	"shipway-proxy-service/internal/dto"
	"shipway-proxy-service/internal/logger"
	"shipway-proxy-service/internal/repository"
	"shipway-proxy-service/internal/shipway"
)

// NDR workflow. Only InsertOrder touches stored state; the rest are
// validated passthroughs.

// InsertOrder registers a non-delivery report against the latest record for
// the order id. Orders already held, cancelled, or with a cancelled shipment
// are rejected, as is a tracking number that does not match the stored AWB.
func (s *ProxyService) InsertOrder(ctx context.Context, payload map[string]interface{}) (interface{}, error) {
	orderID := dto.StringField(payload, "order_id")
	trackingNumber := dto.StringField(payload, "order_tracking_number")

	existing, err := s.orders.FindLatestByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Order ID \"" + orderID + "\" not found in database"}
	}
	if err != nil {
		return nil, err
	}

	if d := decideInsertOrder(existing, trackingNumber); d.kind == reject {
		return nil, &ConflictError{Message: d.message, Field: d.field, Outcome: d.outcome}
	}

	res, err := s.gateway.Call(ctx, shipway.OpInsertOrder, payload)
	if err != nil {
		return nil, err
	}

	// The NDR is registered with the carrier at this point; a store failure
	// is logged, not surfaced.
	err = s.orders.UpdateFieldsByID(ctx, existing.ID, map[string]interface{}{
		"insertorder_response": res.Body,
	})
	if err != nil {
		logger.Error("insert order: saving response failed", "order_id", orderID, "error", err)
	}

	logger.Info("ndr registered", "order_id", orderID)
	s.publishAudit(ctx, "InsertOrder", orderID, true, "")

	return res.Body, nil
}

// NDRPassthrough forwards ReAttempt / RTO / OrderDetails requests unchanged.
func (s *ProxyService) NDRPassthrough(ctx context.Context, op shipway.Operation, payload map[string]interface{}) (interface{}, error) {
	res, err := s.gateway.Call(ctx, op, payload)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}
