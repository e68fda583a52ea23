package service

import (
	"context"
	"net/url"
	"time"

	"shipway-proxy-service/internal/model"
	"shipway-proxy-service/internal/shipway"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interfaces implemented by repository and the shipway client.
type OrderRepository interface {
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	FindLatestByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	FindByOrderIDs(ctx context.Context, orderIDs []string) ([]*model.Order, error)
	FindByAWB(ctx context.Context, awb string) (*model.Order, error)
	FindAll(ctx context.Context) ([]map[string]interface{}, error)
	Insert(ctx context.Context, doc map[string]interface{}) error
	UpdateFields(ctx context.Context, orderID string, fields map[string]interface{}) error
	UpdateFieldsUnlessSucceeded(ctx context.Context, orderID, guardField string, fields map[string]interface{}) (bool, error)
	UpdateFieldsIfAbsent(ctx context.Context, orderID, guardField string, fields map[string]interface{}) (bool, error)
	UpdateManyIfAbsent(ctx context.Context, orderIDs []string, guardField string, fields map[string]interface{}) (int64, error)
	UpdateFieldsByAWB(ctx context.Context, awb, guardField string, fields map[string]interface{}) (bool, error)
	UpdateFieldsByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
}

type WarehouseRepository interface {
	FindBySignature(ctx context.Context, sig model.WarehouseSignature) (*model.Warehouse, error)
	Insert(ctx context.Context, w *model.Warehouse) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
}

type Gateway interface {
	Call(ctx context.Context, op shipway.Operation, payload interface{}) (*shipway.Result, error)
	Fetch(ctx context.Context, op shipway.Operation, query url.Values) (*shipway.Result, error)
}

// AuditEvent is emitted after every state-changing operation.
type AuditEvent struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	EntityID  string    `json:"entity_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// AuditPublisher delivers audit events best-effort; implementations swallow
// and log their own failures.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent)
}

// Business errors the controller translates to HTTP statuses.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError rejects an operation already recorded against the entity. The
// prior outcome, when present, is echoed back under Field.
type ConflictError struct {
	Message string
	Field   string
	Outcome model.Outcome
}

func (e *ConflictError) Error() string { return e.Message }

// ProxyService is the reconciliation engine: for each operation it decides,
// from the stored record, whether to call Shipway, skip, or reject, and how
// to merge the carrier's answer back into the record.
type ProxyService struct {
	orders     OrderRepository
	warehouses WarehouseRepository
	gateway    Gateway
	audit      AuditPublisher
}

func NewProxyService(orders OrderRepository, warehouses WarehouseRepository, gateway Gateway, audit AuditPublisher) *ProxyService {
	return &ProxyService{orders: orders, warehouses: warehouses, gateway: gateway, audit: audit}
}

func (s *ProxyService) publishAudit(ctx context.Context, operation, entityID string, success bool, message string) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(ctx, AuditEvent{
		ID:        uuid.NewString(),
		Operation: operation,
		EntityID:  entityID,
		Success:   success,
		Message:   message,
		At:        time.Now().UTC(),
	})
}

func cloneDoc(src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(src)+4)
	for k, v := range src {
		out[k] = v
	}
	return out
}

func messageOr(doc model.Outcome, fallback string) string {
	if msg := doc.Message(); msg != "" {
		return msg
	}
	return fallback
}
