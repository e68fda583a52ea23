package service

import (
	"context"
	"net/url"

	"shipway-proxy-service/internal/model"
	"shipway-proxy-service/internal/repository"
	"shipway-proxy-service/internal/shipway"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the Mongo repositories and the Shipway client,
// mirroring the guard semantics of the real implementations.

type fakeOrders struct {
	docs    []*model.Order
	inserts []map[string]interface{}
}

func newFakeOrders(seed ...*model.Order) *fakeOrders {
	f := &fakeOrders{}
	for _, o := range seed {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		f.docs = append(f.docs, o)
	}
	return f
}

func (f *fakeOrders) find(orderID string) *model.Order {
	for _, o := range f.docs {
		if o.OrderID == orderID {
			return o
		}
	}
	return nil
}

func (f *fakeOrders) FindByOrderID(_ context.Context, orderID string) (*model.Order, error) {
	if o := f.find(orderID); o != nil {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrders) FindLatestByOrderID(_ context.Context, orderID string) (*model.Order, error) {
	var latest *model.Order
	for _, o := range f.docs {
		if o.OrderID != orderID {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (f *fakeOrders) FindByOrderIDs(_ context.Context, orderIDs []string) ([]*model.Order, error) {
	var out []*model.Order
	for _, id := range orderIDs {
		if o := f.find(id); o != nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) FindByAWB(_ context.Context, awb string) (*model.Order, error) {
	for _, o := range f.docs {
		if o.AWBResponse.AWB() == awb {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrders) FindAll(_ context.Context) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(f.docs))
	for _, o := range f.docs {
		out = append(out, map[string]interface{}{"order_id": o.OrderID})
	}
	return out, nil
}

func (f *fakeOrders) Insert(_ context.Context, doc map[string]interface{}) error {
	f.inserts = append(f.inserts, doc)

	o := &model.Order{ID: primitive.NewObjectID()}
	if s, ok := doc["order_id"].(string); ok {
		o.OrderID = s
	}
	if s, ok := doc["status_message"].(string); ok {
		o.StatusMessage = s
	}
	o.ShipwayResponse = toOutcome(doc["shipway_response"])
	f.docs = append(f.docs, o)
	return nil
}

func (f *fakeOrders) UpdateFields(_ context.Context, orderID string, fields map[string]interface{}) error {
	if o := f.find(orderID); o != nil {
		applyFields(o, fields)
	}
	return nil
}

func (f *fakeOrders) UpdateFieldsUnlessSucceeded(_ context.Context, orderID, guardField string, fields map[string]interface{}) (bool, error) {
	o := f.find(orderID)
	if o == nil || outcomeField(o, guardField).Success() {
		return false, nil
	}
	applyFields(o, fields)
	return true, nil
}

func (f *fakeOrders) UpdateFieldsIfAbsent(_ context.Context, orderID, guardField string, fields map[string]interface{}) (bool, error) {
	o := f.find(orderID)
	if o == nil || outcomeField(o, guardField) != nil {
		return false, nil
	}
	applyFields(o, fields)
	return true, nil
}

func (f *fakeOrders) UpdateManyIfAbsent(_ context.Context, orderIDs []string, guardField string, fields map[string]interface{}) (int64, error) {
	var n int64
	for _, id := range orderIDs {
		if applied, _ := f.UpdateFieldsIfAbsent(context.Background(), id, guardField, fields); applied {
			n++
		}
	}
	return n, nil
}

func (f *fakeOrders) UpdateFieldsByAWB(_ context.Context, awb, guardField string, fields map[string]interface{}) (bool, error) {
	for _, o := range f.docs {
		if o.AWBResponse.AWB() != awb {
			continue
		}
		if outcomeField(o, guardField).Success() {
			return false, nil
		}
		applyFields(o, fields)
		return true, nil
	}
	return false, nil
}

func (f *fakeOrders) UpdateFieldsByID(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	for _, o := range f.docs {
		if o.ID == id {
			applyFields(o, fields)
		}
	}
	return nil
}

func applyFields(o *model.Order, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status_message":
			o.StatusMessage, _ = v.(string)
		case "awb_response":
			o.AWBResponse = toOutcome(v)
		case "onhold_response":
			o.OnholdResponse = toOutcome(v)
		case "cancel_response":
			o.CancelResponse = toOutcome(v)
		case "manifest_response":
			o.ManifestResponse = toOutcome(v)
		case "createPickupResponse":
			o.PickupResponse = toOutcome(v)
		case "createPickupData":
			o.PickupData, _ = v.(map[string]interface{})
		case "CancelShipment_response":
			o.CancelShipmentResponse = toOutcome(v)
		case "insertorder_response":
			o.InsertOrderResponse = toOutcome(v)
		case "manifest_status_message":
			o.ManifestStatusMessage, _ = v.(string)
		case "pickup_status_message":
			o.PickupStatusMessage, _ = v.(string)
		default:
			if o.Extra == nil {
				o.Extra = map[string]interface{}{}
			}
			o.Extra[k] = v
		}
	}
}

func outcomeField(o *model.Order, field string) model.Outcome {
	switch field {
	case "awb_response":
		return o.AWBResponse
	case "onhold_response":
		return o.OnholdResponse
	case "cancel_response":
		return o.CancelResponse
	case "manifest_response":
		return o.ManifestResponse
	case "createPickupResponse":
		return o.PickupResponse
	case "CancelShipment_response":
		return o.CancelShipmentResponse
	case "insertorder_response":
		return o.InsertOrderResponse
	default:
		return nil
	}
}

func toOutcome(v interface{}) model.Outcome {
	switch t := v.(type) {
	case model.Outcome:
		return t
	case map[string]interface{}:
		return model.Outcome(t)
	default:
		return nil
	}
}

type fakeWarehouses struct {
	docs    []*model.Warehouse
	updated int
}

func (f *fakeWarehouses) FindBySignature(_ context.Context, sig model.WarehouseSignature) (*model.Warehouse, error) {
	for _, w := range f.docs {
		if w.Signature() == sig {
			return w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeWarehouses) Insert(_ context.Context, w *model.Warehouse) error {
	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	f.docs = append(f.docs, w)
	return nil
}

func (f *fakeWarehouses) UpdateFields(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	for _, w := range f.docs {
		if w.ID != id {
			continue
		}
		f.updated++
		if s, ok := fields["status_message"].(string); ok {
			w.StatusMessage = s
		}
		w.WarehouseResponse = toOutcome(fields["warehouse_response"])
	}
	return nil
}

type gatewayCall struct {
	op      shipway.Operation
	payload interface{}
}

type fakeGateway struct {
	calls  []gatewayCall
	handle func(op shipway.Operation, payload interface{}) (*shipway.Result, error)
}

func okResult() *shipway.Result {
	return &shipway.Result{StatusCode: 200, Body: map[string]interface{}{"success": true}}
}

func (g *fakeGateway) Call(_ context.Context, op shipway.Operation, payload interface{}) (*shipway.Result, error) {
	g.calls = append(g.calls, gatewayCall{op: op, payload: payload})
	if g.handle == nil {
		return okResult(), nil
	}
	return g.handle(op, payload)
}

func (g *fakeGateway) Fetch(_ context.Context, op shipway.Operation, query url.Values) (*shipway.Result, error) {
	g.calls = append(g.calls, gatewayCall{op: op, payload: query})
	if g.handle == nil {
		return okResult(), nil
	}
	return g.handle(op, query)
}

type fakeAudit struct {
	events []AuditEvent
}

func (f *fakeAudit) Publish(_ context.Context, event AuditEvent) {
	f.events = append(f.events, event)
}
