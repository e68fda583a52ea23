// models.go
package model

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome is the opaque response document recorded for one remote operation.
// Shipway bodies are free-form, so only the handful of fields the
// reconciliation rules depend on get typed accessors.
type Outcome map[string]interface{}

func (o Outcome) Success() bool {
	v, _ := o["success"].(bool)
	return v
}

// Failed reports a success flag recorded explicitly as false; an absent flag
// is neither success nor failure.
func (o Outcome) Failed() bool {
	v, ok := o["success"].(bool)
	return ok && !v
}

func (o Outcome) Message() string {
	v, _ := o["message"].(string)
	return v
}

// AWB returns the airway bill stored by label generation. Shipway sends it as
// a string but older documents carry it numeric.
func (o Outcome) AWB() string {
	switch v := o["AWB"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int32:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

// HasErrorList reports whether the outcome carries a non-empty "error" array,
// which is how a cancelled shipment shows up on awb_response.
func (o Outcome) HasErrorList() bool {
	list, ok := AsList(o["error"])
	return ok && len(list) > 0
}

// AsList normalizes the slice types the JSON decoder and the bson decoder
// produce for the same document.
func AsList(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case bson.A:
		return t, true
	default:
		return nil, false
	}
}

// Order is a pushorder document. The original push payload (product lines,
// shipping address, payment type) stays in Extra untouched; the named fields
// are the ones the reconciliation rules read or write.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OrderID       string             `bson:"order_id" json:"order_id"`
	StatusMessage string             `bson:"status_message,omitempty" json:"status_message,omitempty"`

	ShipwayResponse        Outcome `bson:"shipway_response,omitempty" json:"shipway_response,omitempty"`
	AWBResponse            Outcome `bson:"awb_response,omitempty" json:"awb_response,omitempty"`
	OnholdResponse         Outcome `bson:"onhold_response,omitempty" json:"onhold_response,omitempty"`
	CancelResponse         Outcome `bson:"cancel_response,omitempty" json:"cancel_response,omitempty"`
	ManifestResponse       Outcome `bson:"manifest_response,omitempty" json:"manifest_response,omitempty"`
	PickupResponse         Outcome `bson:"createPickupResponse,omitempty" json:"createPickupResponse,omitempty"`
	CancelShipmentResponse Outcome `bson:"CancelShipment_response,omitempty" json:"CancelShipment_response,omitempty"`
	InsertOrderResponse    Outcome `bson:"insertorder_response,omitempty" json:"insertorder_response,omitempty"`

	PickupData            map[string]interface{} `bson:"createPickupData,omitempty" json:"createPickupData,omitempty"`
	ManifestStatusMessage string                 `bson:"manifest_status_message,omitempty" json:"manifest_status_message,omitempty"`
	PickupStatusMessage   string                 `bson:"pickup_status_message,omitempty" json:"pickup_status_message,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	Extra map[string]interface{} `bson:",inline" json:"-"`
}

// Field reads a passthrough payload field (carrier_id, warehouse_id, ...).
func (o *Order) Field(key string) interface{} {
	if o.Extra == nil {
		return nil
	}
	return o.Extra[key]
}

// HasField reports a non-empty passthrough field.
func (o *Order) HasField(key string) bool {
	v := o.Field(key)
	return v != nil && v != ""
}

// Warehouse is a warehouse document. Identity is the exact-match composite of
// the Signature fields; no normalization is applied.
type Warehouse struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Title             string             `bson:"title" json:"title"`
	Company           string             `bson:"company" json:"company"`
	ContactPersonName string             `bson:"contact_person_name" json:"contact_person_name"`
	Email             string             `bson:"email" json:"email"`
	Phone             string             `bson:"phone" json:"phone"`
	PhonePrint        string             `bson:"phone_print" json:"phone_print"`
	Address1          string             `bson:"address_1" json:"address_1"`
	Address2          string             `bson:"address_2" json:"address_2"`
	City              string             `bson:"city" json:"city"`
	State             string             `bson:"state" json:"state"`
	Country           string             `bson:"country" json:"country"`
	Pincode           string             `bson:"pincode" json:"pincode"`
	Longitude         string             `bson:"longitude" json:"longitude"`
	Latitude          string             `bson:"latitude" json:"latitude"`
	GSTNo             string             `bson:"gst_no" json:"gst_no"`
	FSSAICode         string             `bson:"fssai_code" json:"fssai_code"`

	StatusMessage     string    `bson:"status_message" json:"status_message"`
	WarehouseResponse Outcome   `bson:"warehouse_response" json:"warehouse_response"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// WarehouseSignature is the composite key that decides whether two warehouse
// requests refer to the same warehouse.
type WarehouseSignature struct {
	Title             string
	ContactPersonName string
	Email             string
	Phone             string
	Address1          string
	City              string
	State             string
	Country           string
	Pincode           string
}

func (w *Warehouse) Signature() WarehouseSignature {
	return WarehouseSignature{
		Title:             w.Title,
		ContactPersonName: w.ContactPersonName,
		Email:             w.Email,
		Phone:             w.Phone,
		Address1:          w.Address1,
		City:              w.City,
		State:             w.State,
		Country:           w.Country,
		Pincode:           w.Pincode,
	}
}
