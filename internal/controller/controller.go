package controller

import (
	"errors"
	"net/http"
	"strings"

	"shipway-proxy-service/internal/dto"
	"shipway-proxy-service/internal/service"
	"shipway-proxy-service/internal/shipway"

	"github.com/gin-gonic/gin"
)

type ProxyController struct {
	Service *service.ProxyService
}

func NewProxyController(s *service.ProxyService) *ProxyController {
	return &ProxyController{Service: s}
}

func bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	payload := map[string]interface{}{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": true, "message": err.Error()})
		return nil, false
	}
	return payload, true
}

// respondError translates the service error taxonomy to HTTP. Remote failures
// propagate the carrier's status and body; anything unclassified is a 500.
func respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": true, "message": ve.Message})
		return
	}

	var nfe *service.NotFoundError
	if errors.As(err, &nfe) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": true, "message": nfe.Message})
		return
	}

	var ce *service.ConflictError
	if errors.As(err, &ce) {
		body := gin.H{"success": false, "error": true, "message": ce.Message}
		if ce.Field != "" {
			body[ce.Field] = ce.Outcome
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	var re *shipway.RemoteError
	if errors.As(err, &re) {
		c.JSON(re.StatusCode, gin.H{"success": false, "error": re.Body})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

// POST /api/pushOrders
func (ctl *ProxyController) PushOrders(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	missing := dto.MissingFields(payload,
		"order_id", "products", "payment_type", "shipping_country", "shipping_phone", "shipping_zipcode")
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	res, err := ctl.Service.PushOrder(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message, "data": res.Data})
}

// POST /api/labelGeneration
func (ctl *ProxyController) LabelGeneration(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	missing := dto.MissingFields(payload, "order_id", "carrier_id", "warehouse_id", "return_warehouse_id")
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "Missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	res, err := ctl.Service.LabelGeneration(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message, "awb_response": res.AWBResponse})
}

// POST /api/CreateOrderManifest
func (ctl *ProxyController) CreateOrderManifest(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	orderIDs, ok := dto.StringList(payload["order_ids"])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "order_ids is required and must be a non-empty array",
		})
		return
	}

	res, err := ctl.Service.CreateOrderManifest(c.Request.Context(), orderIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           res.Message,
		"manifest ids":      res.ManifestIDs,
		"skipped":           res.Skipped,
		"processed":         res.Processed,
		"manifest_response": res.Response,
	})
}

// POST /api/createPickup
func (ctl *ProxyController) CreatePickup(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	orderIDs, ok := dto.StringList(payload["order_ids"])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "order_ids is required and must be a non-empty array",
		})
		return
	}

	required := []string{"pickup_date", "pickup_time", "carrier_id", "office_close_time",
		"warehouse_id", "return_warehouse_id", "payment_type"}
	for _, field := range required {
		if len(dto.MissingFields(payload, field)) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false, "error": true,
				"message": field + " is required",
			})
			return
		}
	}

	results := ctl.Service.CreatePickup(c.Request.Context(), orderIDs, payload)
	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// POST /api/OnholdOrders
func (ctl *ProxyController) OnholdOrders(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	orderIDs, ok := dto.StringList(payload["order_ids"])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "order_ids must be a non-empty array",
		})
		return
	}

	res := ctl.Service.OnholdOrders(c.Request.Context(), orderIDs)
	if res.AllAlreadyOnhold {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "All provided orders are already Onhold",
			"data":    res.Items,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res.Items})
}

// POST /api/CancelOrders
func (ctl *ProxyController) CancelOrders(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	orderIDs, ok := dto.StringList(payload["order_ids"])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "order_ids must be a non-empty array",
		})
		return
	}

	items := ctl.Service.CancelOrders(c.Request.Context(), orderIDs)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// POST /api/CancelShipment
func (ctl *ProxyController) CancelShipment(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	awbNumbers, ok := dto.StringList(payload["awb_number"])
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "awb_number must be a non-empty array",
		})
		return
	}

	items := ctl.Service.CancelShipment(c.Request.Context(), awbNumbers)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}
