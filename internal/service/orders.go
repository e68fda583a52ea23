package service

import (
	"context"
	"errors"
	"time"

	"shipway-proxy-service/internal/logger"
	"shipway-proxy-service/internal/repository"
	"shipway-proxy-service/internal/shipway"

	"shipway-proxy-service/internal/dto"
	"shipway-proxy-service/internal/model"
)

type PushOrderResult struct {
	Message string
	Data    interface{}
}

// PushOrder books an order with Shipway and records the booking. A second
// push for the same order_id is rejected while the first is still active.
func (s *ProxyService) PushOrder(ctx context.Context, payload map[string]interface{}) (*PushOrderResult, error) {
	orderID := dto.StringField(payload, "order_id")

	existing, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if d := decidePushOrder(existing); d.kind == reject {
		return nil, &ConflictError{Message: d.message}
	}

	res, err := s.gateway.Call(ctx, shipway.OpPushOrders, payload)
	if err != nil {
		return nil, err
	}

	statusMessage := messageOr(res.Doc(), "Order has been added successfully.")

	doc := cloneDoc(payload)
	doc["created_at"] = time.Now().UTC()
	doc["status_message"] = statusMessage
	doc["shipway_response"] = res.Body

	if err := s.orders.Insert(ctx, doc); err != nil {
		return nil, err
	}

	logger.Info("order pushed", "order_id", orderID)
	s.publishAudit(ctx, "pushOrders", orderID, true, statusMessage)

	return &PushOrderResult{Message: statusMessage, Data: res.Body}, nil
}

type LabelResult struct {
	Message     string
	AWBResponse model.Outcome
}

// LabelGeneration requests an AWB for a booked order. Carrier and warehouse
// ids missing from the record are backfilled from the request first.
func (s *ProxyService) LabelGeneration(ctx context.Context, payload map[string]interface{}) (*LabelResult, error) {
	orderID := dto.StringField(payload, "order_id")

	existing, err := s.orders.FindByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Order ID \"" + orderID + "\" not found."}
	}
	if err != nil {
		return nil, err
	}

	if d := decideLabelGeneration(existing); d.kind == reject {
		return nil, &ConflictError{Message: d.message, Field: d.field, Outcome: d.outcome}
	}

	if !existing.HasField("carrier_id") || !existing.HasField("warehouse_id") || !existing.HasField("return_warehouse_id") {
		err := s.orders.UpdateFields(ctx, orderID, map[string]interface{}{
			"carrier_id":          payload["carrier_id"],
			"warehouse_id":        payload["warehouse_id"],
			"return_warehouse_id": payload["return_warehouse_id"],
		})
		if err != nil {
			return nil, err
		}
	}

	res, err := s.gateway.Call(ctx, shipway.OpLabelGeneration, payload)
	if err != nil {
		return nil, err
	}

	doc := res.Doc()
	awbResponse := model.Outcome{}
	if m, ok := doc["awb_response"].(map[string]interface{}); ok {
		awbResponse = model.Outcome(m)
	}
	statusMessage := messageOr(doc, "Label generated successfully.")

	_, err = s.orders.UpdateFieldsUnlessSucceeded(ctx, orderID, "awb_response", map[string]interface{}{
		"status_message": statusMessage,
		"awb_response":   awbResponse,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("label generated", "order_id", orderID)
	s.publishAudit(ctx, "labelGeneration", orderID, true, statusMessage)

	return &LabelResult{Message: statusMessage, AWBResponse: awbResponse}, nil
}

// GetOrders proxies the carrier's order listing; the body is returned
// verbatim.
func (s *ProxyService) GetOrders(ctx context.Context) (interface{}, error) {
	res, err := s.gateway.Fetch(ctx, shipway.OpGetOrders, nil)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// GetAllOrders dumps the local collection.
func (s *ProxyService) GetAllOrders(ctx context.Context) ([]map[string]interface{}, error) {
	return s.orders.FindAll(ctx)
}
