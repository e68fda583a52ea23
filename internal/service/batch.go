package service

import (
	"context"
	"errors"

	"shipway-proxy-service/internal/logger"
	"shipway-proxy-service/internal/model"
	"shipway-proxy-service/internal/repository"
	"shipway-proxy-service/internal/shipway"
)

// Batch operations process each id independently and aggregate per-id
// outcomes; one id failing never aborts the rest of the batch.

type ManifestResult struct {
	Message     string
	ManifestIDs interface{}
	Skipped     []map[string]interface{}
	Processed   []string
	Response    interface{}
}

// CreateOrderManifest groups the not-yet-manifested ids into a single carrier
// call; ids that already carry a manifest_response are reported as skipped
// with their manifest ids.
func (s *ProxyService) CreateOrderManifest(ctx context.Context, orderIDs []string) (*ManifestResult, error) {
	existing, err := s.orders.FindByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	manifested := make(map[string]bool, len(existing))
	skipped := make([]map[string]interface{}, 0, len(existing))
	for _, o := range existing {
		if decideManifest(o).kind != skip {
			continue
		}
		manifested[o.OrderID] = true
		skipped = append(skipped, map[string]interface{}{
			"order_id":     o.OrderID,
			"manifest_ids": o.ManifestResponse["manifest ids"],
		})
	}

	newIDs := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		if !manifested[id] {
			newIDs = append(newIDs, id)
		}
	}

	result := &ManifestResult{
		Message:   "No new orders to manifest.",
		Skipped:   skipped,
		Processed: newIDs,
	}
	if len(newIDs) == 0 {
		return result, nil
	}

	res, err := s.gateway.Call(ctx, shipway.OpCreateOrderManifest, map[string]interface{}{"order_ids": newIDs})
	if err != nil {
		// The carrier's error body is still recorded against the batch.
		_, uerr := s.orders.UpdateManyIfAbsent(ctx, newIDs, "manifest_response", map[string]interface{}{
			"manifest_response":       errorOutcome(err),
			"manifest_status_message": "Manifest API failed",
		})
		if uerr != nil {
			logger.Error("manifest: saving error response failed", "error", uerr)
		}
		return nil, err
	}

	statusMessage := messageOr(res.Doc(), "Manifest request completed.")
	_, err = s.orders.UpdateManyIfAbsent(ctx, newIDs, "manifest_response", map[string]interface{}{
		"manifest_response":       res.Body,
		"manifest_status_message": statusMessage,
	})
	if err != nil {
		return nil, err
	}

	result.Message = statusMessage
	result.Response = res.Body
	result.ManifestIDs = res.Doc()["manifest ids"]

	logger.Info("manifest created", "processed", newIDs)
	for _, id := range newIDs {
		s.publishAudit(ctx, "CreateOrderManifest", id, true, statusMessage)
	}
	return result, nil
}

// CreatePickup books a pickup per order id, one carrier call each.
func (s *ProxyService) CreatePickup(ctx context.Context, orderIDs []string, payload map[string]interface{}) []map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		results = append(results, s.pickupOne(ctx, orderID, payload))
	}
	return results
}

func (s *ProxyService) pickupOne(ctx context.Context, orderID string, payload map[string]interface{}) map[string]interface{} {
	existing, err := s.orders.FindByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return map[string]interface{}{"order_id": orderID, "success": false, "message": "Order not found in pushorder"}
	}
	if err != nil {
		return map[string]interface{}{"order_id": orderID, "success": false, "message": err.Error()}
	}

	if d := decidePickup(existing); d.kind == skip {
		return map[string]interface{}{"order_id": orderID, "success": false, "message": d.message}
	}

	single := cloneDoc(payload)
	single["order_ids"] = []string{orderID}

	res, err := s.gateway.Call(ctx, shipway.OpCreatePickup, single)
	if err != nil {
		var re *shipway.RemoteError
		if !errors.As(err, &re) {
			logger.Error("pickup request failed", "order_id", orderID, "error", err)
			return map[string]interface{}{"order_id": orderID, "success": false, "message": err.Error()}
		}

		_, uerr := s.orders.UpdateFieldsIfAbsent(ctx, orderID, "createPickupResponse", map[string]interface{}{
			"createPickupData":      single,
			"createPickupResponse":  re.Body,
			"pickup_status_message": "Pickup API failed",
		})
		if uerr != nil {
			logger.Error("pickup: saving error response failed", "order_id", orderID, "error", uerr)
		}

		msg := re.Message()
		if msg == "" {
			msg = "Shipway API failed"
		}
		return map[string]interface{}{"order_id": orderID, "success": false, "message": msg, "response": re.Body}
	}

	statusMessage := messageOr(res.Doc(), "Pickup request processed.")
	_, err = s.orders.UpdateFieldsIfAbsent(ctx, orderID, "createPickupResponse", map[string]interface{}{
		"createPickupData":      single,
		"createPickupResponse":  res.Body,
		"pickup_status_message": statusMessage,
	})
	if err != nil {
		return map[string]interface{}{"order_id": orderID, "success": false, "message": err.Error()}
	}

	logger.Info("pickup created", "order_id", orderID)
	s.publishAudit(ctx, "createPickup", orderID, true, statusMessage)

	return map[string]interface{}{"order_id": orderID, "success": true, "message": statusMessage, "response": res.Body}
}

type HoldBatchResult struct {
	// Every entry was already on hold, which fails the batch as a whole.
	AllAlreadyOnhold bool
	Items            []map[string]interface{}
}

// OnholdOrders suspends orders one id at a time. A successful carrier answer
// is stored with its message forced to the canonical "Onhold" label.
func (s *ProxyService) OnholdOrders(ctx context.Context, orderIDs []string) *HoldBatchResult {
	items := make([]map[string]interface{}, 0, len(orderIDs))
	allSkipped := len(orderIDs) > 0
	for _, orderID := range orderIDs {
		item := s.holdOne(ctx, orderID)
		items = append(items, item)
		if model.Outcome(item).Success() || model.Outcome(item).Message() != "This order is already Onhold" {
			allSkipped = false
		}
	}
	return &HoldBatchResult{AllAlreadyOnhold: allSkipped, Items: items}
}

func (s *ProxyService) holdOne(ctx context.Context, orderID string) map[string]interface{} {
	existing, err := s.orders.FindByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return map[string]interface{}{"order_id": orderID, "success": false, "error": true, "message": "Order not found in database"}
	}
	if err != nil {
		return map[string]interface{}{"order_id": orderID, "success": false, "error": true, "message": err.Error()}
	}

	if d := decideOnhold(existing); d.kind == skip {
		return map[string]interface{}{
			"order_id": orderID, "success": false, "error": true,
			"message": d.message, d.field: d.outcome,
		}
	}

	res, err := s.gateway.Call(ctx, shipway.OpOnholdOrders, map[string]interface{}{"order_ids": []string{orderID}})

	var orderRes map[string]interface{}
	if err != nil {
		logger.Error("onhold request failed", "order_id", orderID, "error", err)
		msg := "Shipway onhold failed"
		var re *shipway.RemoteError
		if errors.As(err, &re) && re.Message() != "" {
			msg = re.Message()
		}
		orderRes = map[string]interface{}{"order_id": orderID, "success": false, "error": true, "message": msg}
	} else {
		orderRes = cloneDoc(res.First())
		if model.Outcome(orderRes).Success() {
			orderRes["message"] = "Onhold"
		}
	}

	_, uerr := s.orders.UpdateFieldsUnlessSucceeded(ctx, orderID, "onhold_response", map[string]interface{}{
		"status_message":  model.Outcome(orderRes).Message(),
		"onhold_response": orderRes,
	})
	if uerr != nil {
		logger.Error("onhold: saving response failed", "order_id", orderID, "error", uerr)
	}

	s.publishAudit(ctx, "OnholdOrders", orderID, model.Outcome(orderRes).Success(), model.Outcome(orderRes).Message())
	return orderRes
}

// CancelOrders cancels orders one id at a time; successful answers are stored
// with the canonical "cancelled" label. Unlike onhold, an all-skipped batch
// still reports overall success.
func (s *ProxyService) CancelOrders(ctx context.Context, orderIDs []string) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		items = append(items, s.cancelOne(ctx, orderID))
	}
	return items
}

func (s *ProxyService) cancelOne(ctx context.Context, orderID string) map[string]interface{} {
	existing, err := s.orders.FindByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return map[string]interface{}{"order_id": orderID, "success": false, "error": true, "message": "Order not found in database"}
	}
	if err != nil {
		return map[string]interface{}{"order_id": orderID, "success": false, "error": true, "message": err.Error()}
	}

	if d := decideCancel(existing); d.kind == skip {
		return map[string]interface{}{
			"order_id": orderID, "success": false, "error": true,
			"message": d.message, d.field: d.outcome,
		}
	}

	res, err := s.gateway.Call(ctx, shipway.OpCancelOrders, map[string]interface{}{"order_ids": []string{orderID}})

	var cancelRes map[string]interface{}
	if err != nil {
		logger.Error("cancel request failed", "order_id", orderID, "error", err)
		msg := "Shipway cancel failed"
		var re *shipway.RemoteError
		if errors.As(err, &re) && re.Message() != "" {
			msg = re.Message()
		}
		cancelRes = map[string]interface{}{"order_id": orderID, "success": false, "error": true, "message": msg}
	} else {
		cancelRes = cloneDoc(res.First())
		if model.Outcome(cancelRes).Success() {
			cancelRes["message"] = "cancelled"
		}
	}

	_, uerr := s.orders.UpdateFieldsUnlessSucceeded(ctx, orderID, "cancel_response", map[string]interface{}{
		"status_message":  model.Outcome(cancelRes).Message(),
		"cancel_response": cancelRes,
	})
	if uerr != nil {
		logger.Error("cancel: saving response failed", "order_id", orderID, "error", uerr)
	}

	s.publishAudit(ctx, "CancelOrders", orderID, model.Outcome(cancelRes).Success(), model.Outcome(cancelRes).Message())
	return cancelRes
}

// CancelShipment cancels shipments by AWB, one carrier call per number.
// Successful answers get the canonical "canceled shipment" label; unlike the
// order-level operations, status_message is left alone.
func (s *ProxyService) CancelShipment(ctx context.Context, awbNumbers []string) []map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(awbNumbers))
	for _, awb := range awbNumbers {
		items = append(items, s.cancelShipmentOne(ctx, awb))
	}
	return items
}

func (s *ProxyService) cancelShipmentOne(ctx context.Context, awb string) map[string]interface{} {
	existing, err := s.orders.FindByAWB(ctx, awb)
	if errors.Is(err, repository.ErrNotFound) {
		return map[string]interface{}{"awb_number": awb, "success": false, "error": true, "message": "Valid AWB number not found"}
	}
	if err != nil {
		return map[string]interface{}{"awb_number": awb, "success": false, "error": true, "message": err.Error()}
	}

	if d := decideCancelShipment(existing); d.kind == skip {
		return map[string]interface{}{
			"awb_number": awb, "success": false, "error": true,
			"message": d.message, d.field: d.outcome,
		}
	}

	res, err := s.gateway.Call(ctx, shipway.OpCancelShipment, map[string]interface{}{"awb_number": []string{awb}})

	var cancelRes map[string]interface{}
	if err != nil {
		logger.Error("cancel shipment request failed", "awb", awb, "error", err)
		msg := "Shipway CancelShipment failed"
		var re *shipway.RemoteError
		if errors.As(err, &re) && re.Message() != "" {
			msg = re.Message()
		}
		cancelRes = map[string]interface{}{"awb_number": awb, "success": false, "error": true, "message": msg}
	} else {
		cancelRes = cloneDoc(res.Doc())
		if model.Outcome(cancelRes).Success() {
			cancelRes["message"] = "canceled shipment"
		}
	}

	_, uerr := s.orders.UpdateFieldsByAWB(ctx, awb, "CancelShipment_response", map[string]interface{}{
		"CancelShipment_response": cancelRes,
	})
	if uerr != nil {
		logger.Error("cancel shipment: saving response failed", "awb", awb, "error", uerr)
	}

	s.publishAudit(ctx, "CancelShipment", awb, model.Outcome(cancelRes).Success(), model.Outcome(cancelRes).Message())
	return cancelRes
}

func errorOutcome(err error) interface{} {
	var re *shipway.RemoteError
	if errors.As(err, &re) && re.Body != nil {
		return re.Body
	}
	return map[string]interface{}{"message": err.Error()}
}
