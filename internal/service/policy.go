package service

import (
	"fmt"
	"strings"

	"shipway-proxy-service/internal/model"
)

// Per-operation reconciliation decisions. Each is a pure function over the
// stored record, so the dedup rules are testable without a store or gateway.

type decisionKind int

const (
	proceed decisionKind = iota
	skip
	reject
)

type decision struct {
	kind    decisionKind
	message string
	// Prior outcome behind a skip/reject, echoed back to the caller under
	// its document field name.
	field   string
	outcome model.Outcome
}

// A push is rejected while the stored record is still active: not cancelled,
// not on hold, and not a cancelled shipment. Cancelled/onhold also match on
// the status_message text because older documents carry only that.
func decidePushOrder(existing *model.Order) decision {
	if existing == nil {
		return decision{kind: proceed}
	}

	status := strings.ToLower(existing.StatusMessage)
	cancelled := existing.CancelResponse.Success() || strings.Contains(status, "cancel")
	onhold := existing.OnholdResponse.Success() || strings.Contains(status, "onhold")
	cancelShipment := existing.AWBResponse.Failed() && existing.AWBResponse.HasErrorList()

	if !cancelled && !onhold && !cancelShipment {
		return decision{
			kind:    reject,
			message: fmt.Sprintf("Order ID %q already exists and is active.", existing.OrderID),
		}
	}
	return decision{kind: proceed}
}

func decideLabelGeneration(existing *model.Order) decision {
	if existing.AWBResponse.Success() {
		return decision{
			kind:    reject,
			message: "AWB already generated for this order.",
			field:   "awb_response",
			outcome: existing.AWBResponse,
		}
	}
	return decision{kind: proceed}
}

func decideManifest(existing *model.Order) decision {
	if existing.ManifestResponse != nil {
		return decision{
			kind:    skip,
			field:   "manifest_response",
			outcome: existing.ManifestResponse,
		}
	}
	return decision{kind: proceed}
}

func decidePickup(existing *model.Order) decision {
	if existing.PickupResponse != nil {
		return decision{
			kind:    skip,
			message: "Pickup already created for this order",
			field:   "createPickupResponse",
			outcome: existing.PickupResponse,
		}
	}
	return decision{kind: proceed}
}

func decideOnhold(existing *model.Order) decision {
	if existing.OnholdResponse.Success() {
		return decision{
			kind:    skip,
			message: "This order is already Onhold",
			field:   "onhold_response",
			outcome: existing.OnholdResponse,
		}
	}
	return decision{kind: proceed}
}

func decideCancel(existing *model.Order) decision {
	if existing.CancelResponse.Success() {
		return decision{
			kind:    skip,
			message: "This order is already cancelled",
			field:   "cancel_response",
			outcome: existing.CancelResponse,
		}
	}
	return decision{kind: proceed}
}

func decideCancelShipment(existing *model.Order) decision {
	if existing.CancelShipmentResponse.Success() {
		return decision{
			kind:    skip,
			message: "This AWB is already canceled shipment",
			field:   "CancelShipment_response",
			outcome: existing.CancelShipmentResponse,
		}
	}
	return decision{kind: proceed}
}

// An NDR insert is rejected once any terminal outcome is recorded, or when
// the supplied tracking number does not match the stored AWB.
func decideInsertOrder(existing *model.Order, trackingNumber string) decision {
	if existing.OnholdResponse.Success() {
		return decision{
			kind:    reject,
			message: "This order is already Onhold",
			field:   "onhold_response",
			outcome: existing.OnholdResponse,
		}
	}
	if existing.CancelResponse.Success() {
		return decision{
			kind:    reject,
			message: "This order is already Cancelled",
			field:   "cancel_response",
			outcome: existing.CancelResponse,
		}
	}
	if existing.CancelShipmentResponse.Success() {
		return decision{
			kind:    reject,
			message: "This order shipment is already Cancelled",
			field:   "CancelShipment_response",
			outcome: existing.CancelShipmentResponse,
		}
	}
	if awb := existing.AWBResponse.AWB(); awb == "" || awb != trackingNumber {
		return decision{
			kind:    reject,
			message: "not found or invalid order_tracking_number",
		}
	}
	return decision{kind: proceed}
}
