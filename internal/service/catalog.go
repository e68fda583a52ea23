package service

import (
	"context"
	"net/url"
	"regexp"

	"shipway-proxy-service/internal/model"
	"shipway-proxy-service/internal/shipway"
)

// Carrier names arrive with weight annotations like "Bluedart (0.5kg)".
var parenSuffix = regexp.MustCompile(`\s*\(.*?\)\s*`)

// GetCarriers lists the carrier catalog, adding a normalized carrier_id and a
// carrier_name stripped of parenthesized annotations; the original fields are
// kept alongside.
func (s *ProxyService) GetCarriers(ctx context.Context) ([]map[string]interface{}, error) {
	res, err := s.gateway.Fetch(ctx, shipway.OpGetCarrier, nil)
	if err != nil {
		return nil, err
	}

	list, _ := model.AsList(res.Doc()["message"])
	transformed := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out := cloneDoc(entry)
		out["carrier_id"] = entry["id"]
		if name, ok := entry["name"].(string); ok {
			out["carrier_name"] = parenSuffix.ReplaceAllString(name, "")
		} else {
			out["carrier_name"] = ""
		}
		transformed = append(transformed, out)
	}
	return transformed, nil
}

// GetWarehouses proxies the carrier's warehouse listing.
func (s *ProxyService) GetWarehouses(ctx context.Context) (interface{}, error) {
	res, err := s.gateway.Fetch(ctx, shipway.OpGetWarehouses, nil)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}

// PincodeServiceable checks delivery coverage for a pincode, keeping only the
// prepaid ("P") entries. A carrier body without a result list means the
// pincode is not serviceable.
func (s *ProxyService) PincodeServiceable(ctx context.Context, pincode string) (interface{}, error) {
	res, err := s.gateway.Fetch(ctx, shipway.OpPincodeServiceable, url.Values{"pincode": {pincode}})
	if err != nil {
		return nil, err
	}

	doc := res.Doc()
	list, ok := model.AsList(doc["message"])
	if !ok {
		return nil, &ConflictError{
			Message: pincode + " pincode - our courier service is not available, please change your delivery address.",
		}
	}

	prepaid := make([]interface{}, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(map[string]interface{}); ok && entry["payment_type"] == "P" {
			prepaid = append(prepaid, item)
		}
	}

	filtered := cloneDoc(doc)
	filtered["message"] = prepaid
	return filtered, nil
}
