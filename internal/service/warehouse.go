package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipway-proxy-service/internal/dto"
	"shipway-proxy-service/internal/logger"
	"shipway-proxy-service/internal/model"
	"shipway-proxy-service/internal/repository"
	"shipway-proxy-service/internal/shipway"
)

type WarehouseResult struct {
	// Created is true only for the carrier's exact success message; any other
	// answer is treated as a failure even though it is persisted.
	Created  bool
	Message  string
	Response model.Outcome
}

// WarehouseError carries a failed warehouse registration along with whatever
// the carrier said; StatusCode zero means an internal failure.
type WarehouseError struct {
	StatusCode int
	Message    string
	Response   model.Outcome
}

func (e *WarehouseError) Error() string { return e.Message }

const warehouseCreatedMessage = "Warehouse Created Successfully"

// CreateWarehouse registers a warehouse with the carrier. The prior record is
// resolved by exact composite signature, but the remote call is made
// regardless; the carrier is the authority on duplicates. The outcome is
// persisted whether the carrier accepted or not.
func (s *ProxyService) CreateWarehouse(ctx context.Context, payload map[string]interface{}) (*WarehouseResult, error) {
	w := warehouseFromPayload(payload)

	existing, err := s.warehouses.FindBySignature(ctx, w.Signature())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("warehouse lookup failed: %w", err)
	}

	res, err := s.gateway.Call(ctx, shipway.OpWarehouse, payload)
	if err != nil {
		return nil, s.recordWarehouseFailure(ctx, existing, err)
	}

	doc := res.Doc()
	message := nestedMessage(doc)
	if message == "" {
		message = "No message returned"
	}
	warehouseResponse := nestedWarehouseResponse(doc)

	if existing != nil {
		err = s.warehouses.UpdateFields(ctx, existing.ID, map[string]interface{}{
			"status_message":     message,
			"warehouse_response": warehouseResponse,
		})
	} else {
		w.StatusMessage = message
		w.WarehouseResponse = warehouseResponse
		w.CreatedAt = time.Now().UTC()
		err = s.warehouses.Insert(ctx, w)
	}
	if err != nil {
		return nil, err
	}

	created := message == warehouseCreatedMessage
	logger.Info("warehouse processed", "title", w.Title, "created", created)
	s.publishAudit(ctx, "warehouse", w.Title, created, message)

	return &WarehouseResult{Created: created, Message: message, Response: warehouseResponse}, nil
}

// recordWarehouseFailure persists the carrier's error against an existing
// record (if any) before handing the failure back.
func (s *ProxyService) recordWarehouseFailure(ctx context.Context, existing *model.Warehouse, callErr error) error {
	whErr := &WarehouseError{Message: callErr.Error(), Response: model.Outcome{}}

	var re *shipway.RemoteError
	if errors.As(callErr, &re) {
		whErr.StatusCode = re.StatusCode
		if body, ok := re.Body.(map[string]interface{}); ok {
			whErr.Message = nestedMessage(model.Outcome(body))
			whErr.Response = nestedWarehouseResponse(model.Outcome(body))
			if whErr.Message == "" {
				if raw, err := json.Marshal(body); err == nil {
					whErr.Message = string(raw)
				}
			}
		}
		if whErr.Message == "" {
			whErr.Message = "Unknown Shipway error"
		}
	}

	title := ""
	if existing != nil {
		title = existing.Title
		err := s.warehouses.UpdateFields(ctx, existing.ID, map[string]interface{}{
			"status_message":     whErr.Message,
			"warehouse_response": whErr.Response,
		})
		if err != nil {
			logger.Error("warehouse: saving error response failed", "error", err)
		}
	}

	s.publishAudit(ctx, "warehouse", title, false, whErr.Message)
	return whErr
}

func warehouseFromPayload(payload map[string]interface{}) *model.Warehouse {
	field := func(key string) string { return dto.StringField(payload, key) }
	return &model.Warehouse{
		Title:             field("title"),
		Company:           field("company"),
		ContactPersonName: field("contact_person_name"),
		Email:             field("email"),
		Phone:             field("phone"),
		PhonePrint:        field("phone_print"),
		Address1:          field("address_1"),
		Address2:          field("address_2"),
		City:              field("city"),
		State:             field("state"),
		Country:           field("country"),
		Pincode:           field("pincode"),
		Longitude:         field("longitude"),
		Latitude:          field("latitude"),
		GSTNo:             field("gst_no"),
		FSSAICode:         field("fssai_code"),
		StatusMessage:     "Pending",
	}
}

// Warehouse responses sometimes nest their payload under "data".
func nestedMessage(o model.Outcome) string {
	if data, ok := o["data"].(map[string]interface{}); ok {
		if s, ok := data["message"].(string); ok && s != "" {
			return s
		}
	}
	return o.Message()
}

func nestedWarehouseResponse(o model.Outcome) model.Outcome {
	if data, ok := o["data"].(map[string]interface{}); ok {
		if m, ok := data["warehouse_response"].(map[string]interface{}); ok {
			return model.Outcome(m)
		}
	}
	if m, ok := o["warehouse_response"].(map[string]interface{}); ok {
		return model.Outcome(m)
	}
	return model.Outcome{}
}
