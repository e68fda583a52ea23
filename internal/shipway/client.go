// Thin client for the Shipway carrier API. Every call carries the same
// Basic-Auth credentials; read endpoints get a bounded timeout, writes run on
// the request context. Failed calls are surfaced once, never retried.
package shipway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"shipway-proxy-service/internal/config"
	"shipway-proxy-service/internal/model"
)

// Operation names one remote Shipway endpoint.
type Operation string

const (
	OpPushOrders          Operation = "pushOrders"
	OpLabelGeneration     Operation = "labelGeneration"
	OpCreateOrderManifest Operation = "CreateOrderManifest"
	OpCreatePickup        Operation = "createPickup"
	OpOnholdOrders        Operation = "OnholdOrders"
	OpCancelOrders        Operation = "CancelOrders"
	OpCancelShipment      Operation = "CancelShipment"
	OpGetOrders           Operation = "getOrders"
	OpInsertOrder         Operation = "InsertOrder"
	OpReAttempt           Operation = "ReAttempt"
	OpRTO                 Operation = "RTO"
	OpOrderDetails        Operation = "OrderDetails"
	OpGetCarrier          Operation = "getcarrier"
	OpWarehouse           Operation = "warehouse"
	OpGetWarehouses       Operation = "getwarehouses"
	OpPincodeServiceable  Operation = "pincodeserviceable"
)

const readTimeout = 10 * time.Second

// Only the catalog lookups carry the bounded timeout; getOrders can be slow
// on large accounts and runs on the request context like the writes.
var boundedReads = map[Operation]bool{
	OpGetCarrier:         true,
	OpGetWarehouses:      true,
	OpPincodeServiceable: true,
}

// Result is a decoded 2xx carrier response.
type Result struct {
	StatusCode int
	Body       interface{}
}

// Doc returns the body as a document; empty when the body is something else.
func (r *Result) Doc() model.Outcome {
	if m, ok := r.Body.(map[string]interface{}); ok {
		return model.Outcome(m)
	}
	return model.Outcome{}
}

// First unwraps the one-element array bodies the hold/cancel endpoints return.
func (r *Result) First() model.Outcome {
	if list, ok := model.AsList(r.Body); ok {
		if len(list) > 0 {
			if m, ok := list[0].(map[string]interface{}); ok {
				return model.Outcome(m)
			}
		}
		return model.Outcome{}
	}
	return r.Doc()
}

// RemoteError is a non-2xx carrier response; its status and body are
// propagated to the client verbatim.
type RemoteError struct {
	StatusCode int
	Body       interface{}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("shipway: remote returned status %d", e.StatusCode)
}

// Message digs the carrier's message out of the error body, if there is one.
func (e *RemoteError) Message() string {
	if m, ok := e.Body.(map[string]interface{}); ok {
		if s, ok := m["message"].(string); ok {
			return s
		}
	}
	return ""
}

type Client struct {
	auth  string
	urls  map[Operation]string
	write *http.Client
	read  *http.Client
}

func NewClient(cfg *config.Config) *Client {
	token := base64.StdEncoding.EncodeToString(
		[]byte(cfg.ShipwayUsername + ":" + cfg.ShipwayPassword))

	return &Client{
		auth:  "Basic " + token,
		write: &http.Client{},
		read:  &http.Client{Timeout: readTimeout},
		urls: map[Operation]string{
			OpPushOrders:          cfg.PushOrdersURL,
			OpLabelGeneration:     cfg.LabelGenerationURL,
			OpCreateOrderManifest: cfg.CreateOrderManifestURL,
			OpCreatePickup:        cfg.CreatePickupURL,
			OpOnholdOrders:        cfg.OnholdOrdersURL,
			OpCancelOrders:        cfg.CancelOrdersURL,
			OpCancelShipment:      cfg.CancelShipmentURL,
			OpGetOrders:           cfg.GetOrdersURL,
			OpInsertOrder:         cfg.InsertOrderURL,
			OpReAttempt:           cfg.ReAttemptURL,
			OpRTO:                 cfg.RTOURL,
			OpOrderDetails:        cfg.OrderDetailsURL,
			OpGetCarrier:          cfg.GetCarrierURL,
			OpWarehouse:           cfg.WarehouseURL,
			OpGetWarehouses:       cfg.GetWarehousesURL,
			OpPincodeServiceable:  cfg.PincodeServiceableURL,
		},
	}
}

// Call POSTs a payload to the operation's endpoint.
func (c *Client) Call(ctx context.Context, op Operation, payload interface{}) (*Result, error) {
	endpoint, ok := c.urls[op]
	if !ok || endpoint == "" {
		return nil, fmt.Errorf("shipway: no endpoint configured for %s", op)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("shipway: encode %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return c.do(c.write, req)
}

// Fetch GETs the operation's endpoint, with the read timeout applied to the
// bounded catalog lookups.
func (c *Client) Fetch(ctx context.Context, op Operation, query url.Values) (*Result, error) {
	endpoint, ok := c.urls[op]
	if !ok || endpoint == "" {
		return nil, fmt.Errorf("shipway: no endpoint configured for %s", op)
	}
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if boundedReads[op] {
		return c.do(c.read, req)
	}
	return c.do(c.write, req)
}

func (c *Client) do(client *http.Client, req *http.Request) (*Result, error) {
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shipway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("shipway read response: %w", err)
	}

	var body interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = string(raw)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: body}
	}
	return &Result{StatusCode: resp.StatusCode, Body: body}, nil
}
