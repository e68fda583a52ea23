package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shipway-proxy-service/internal/config"
	"shipway-proxy-service/internal/controller"
	"shipway-proxy-service/internal/logger"
	"shipway-proxy-service/internal/middleware"
	"shipway-proxy-service/internal/rabbit"
	"shipway-proxy-service/internal/repository"
	"shipway-proxy-service/internal/service"
	"shipway-proxy-service/internal/shipway"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	cfg := config.Load()

	// MongoDB connection, one client for the process lifetime.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		panic(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Repositories and the reconciliation service.
	orders := repository.NewMongoOrderRepository(db)
	warehouses := repository.NewMongoWarehouseRepository(db)
	gateway := shipway.NewClient(cfg)

	// Audit publishing is optional: without a broker the proxy still runs,
	// it just stops emitting events.
	var audit service.AuditPublisher
	if cfg.RabbitURL != "" {
		conn, err := amqp091.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, audit events disabled", "error", err)
		} else if ch, err := conn.Channel(); err != nil {
			logger.Warn("rabbitmq channel failed, audit events disabled", "error", err)
		} else if pub, err := rabbit.NewAuditPublisher(ch); err != nil {
			logger.Warn("audit exchange declare failed, audit events disabled", "error", err)
		} else {
			audit = pub
		}
	}

	svc := service.NewProxyService(orders, warehouses, gateway, audit)
	ctl := controller.NewProxyController(svc)

	// Router
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":      true,
			"service": "shipway-proxy",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Shipment booking
	api.POST("/pushOrders", ctl.PushOrders)
	api.POST("/labelGeneration", ctl.LabelGeneration)
	api.POST("/CreateOrderManifest", ctl.CreateOrderManifest)
	api.POST("/createPickup", ctl.CreatePickup)
	api.POST("/OnholdOrders", ctl.OnholdOrders)
	api.POST("/CancelOrders", ctl.CancelOrders)
	api.POST("/CancelShipment", ctl.CancelShipment)
	api.GET("/getOrders", ctl.GetOrders)
	api.GET("/getAllOrders", ctl.GetAllOrders)

	// NDR
	api.POST("/InsertOrder", ctl.InsertOrder)
	api.POST("/ReAttempt", ctl.ReAttempt)
	api.POST("/RTO", ctl.RTO)
	api.POST("/OrderDetails", ctl.OrderDetails)

	// Carriers, warehouses, serviceability
	api.GET("/getcarrier", ctl.GetCarrier)
	api.POST("/warehouse", ctl.Warehouse)
	api.GET("/getwarehouses", ctl.GetWarehouses)
	api.GET("/pincodeserviceable", ctl.PincodeServiceable)

	logger.Info("shipway proxy listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		panic(err)
	}
}
