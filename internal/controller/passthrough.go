// Handlers for the read/listing endpoints, the NDR group, and warehouses.
package controller

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"shipway-proxy-service/internal/dto"
	"shipway-proxy-service/internal/service"
	"shipway-proxy-service/internal/shipway"

	"github.com/gin-gonic/gin"
)

var numericPincode = regexp.MustCompile(`^\d+$`)

// The read endpoints report carrier failures in a details envelope rather
// than echoing the raw body at the top level.
func respondReadError(c *gin.Context, err error) {
	var re *shipway.RemoteError
	if errors.As(err, &re) {
		c.JSON(re.StatusCode, gin.H{"success": false, "error": "Shipway API error", "details": re.Body})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

// GET /api/getOrders: carrier listing, body passed through verbatim.
func (ctl *ProxyController) GetOrders(c *gin.Context) {
	body, err := ctl.Service.GetOrders(c.Request.Context())
	if err != nil {
		respondReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

// GET /api/getAllOrders: local collection dump.
func (ctl *ProxyController) GetAllOrders(c *gin.Context) {
	orders, err := ctl.Service.GetAllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false, "error": true,
			"message":     err.Error(),
			"total_count": 0,
		})
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": false, "error": true,
			"message":     "empty data",
			"total_count": 0,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true, "error": false,
		"total_count": len(orders),
		"data":        orders,
	})
}

// POST /api/InsertOrder
func (ctl *ProxyController) InsertOrder(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	if len(dto.MissingFields(payload, "order_id", "order_tracking_number")) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": true,
			"message": "order_id and order_tracking_number are required",
		})
		return
	}

	data, err := ctl.Service.InsertOrder(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (ctl *ProxyController) ndrPassthrough(c *gin.Context, op shipway.Operation, required ...string) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	if len(dto.MissingFields(payload, required...)) > 0 {
		msg := required[0] + " is required"
		if len(required) > 1 {
			msg = strings.Join(required[:len(required)-1], ", ") +
				", and " + required[len(required)-1] + " are required"
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": true, "message": msg})
		return
	}

	data, err := ctl.Service.NDRPassthrough(c.Request.Context(), op, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// POST /api/ReAttempt
func (ctl *ProxyController) ReAttempt(c *gin.Context) {
	ctl.ndrPassthrough(c, shipway.OpReAttempt, "order_id", "order_tracking_number", "date_time")
}

// POST /api/RTO
func (ctl *ProxyController) RTO(c *gin.Context) {
	ctl.ndrPassthrough(c, shipway.OpRTO, "order_id", "order_tracking_number", "date_time", "reason")
}

// POST /api/OrderDetails
func (ctl *ProxyController) OrderDetails(c *gin.Context) {
	ctl.ndrPassthrough(c, shipway.OpOrderDetails, "order_id")
}

// GET /api/getcarrier
func (ctl *ProxyController) GetCarrier(c *gin.Context) {
	carriers, err := ctl.Service.GetCarriers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "error": false, "message": carriers})
}

// POST /api/warehouse
func (ctl *ProxyController) Warehouse(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	required := []string{"title", "contact_person_name", "email", "phone",
		"address_1", "city", "state", "country", "pincode"}
	for _, field := range required {
		if len(dto.MissingFields(payload, field)) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false, "error": true,
				"message": field + " is required",
			})
			return
		}
	}

	res, err := ctl.Service.CreateWarehouse(c.Request.Context(), payload)
	if err != nil {
		var we *service.WarehouseError
		if errors.As(err, &we) {
			status := we.StatusCode
			if status == 0 {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{
				"success": false, "error": true,
				"message":            we.Message,
				"warehouse_response": we.Response,
			})
			return
		}
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if !res.Created {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"success":            res.Created,
		"error":              !res.Created,
		"message":            res.Message,
		"warehouse_response": res.Response,
	})
}

// GET /api/getwarehouses
func (ctl *ProxyController) GetWarehouses(c *gin.Context) {
	body, err := ctl.Service.GetWarehouses(c.Request.Context())
	if err != nil {
		respondReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "error": false, "data": body})
}

// GET /api/pincodeserviceable?pincode=
func (ctl *ProxyController) PincodeServiceable(c *gin.Context) {
	pincode := c.Query("pincode")
	if pincode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": true, "message": "pincode is required"})
		return
	}
	if !numericPincode.MatchString(pincode) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": true, "message": "pincode must be a valid number"})
		return
	}

	data, err := ctl.Service.PincodeServiceable(c.Request.Context(), pincode)
	if err != nil {
		var ce *service.ConflictError
		if errors.As(err, &ce) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": true, "message": ce.Message})
			return
		}
		respondReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "error": false, "data": data})
}
