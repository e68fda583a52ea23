// config.go
package config

import (
	"os"
	"strconv"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	RabbitURL   string
	Port        string

	// Shipway credentials for the Basic-Auth header.
	ShipwayUsername string
	ShipwayPassword string

	// Per-operation Shipway endpoints.
	PushOrdersURL          string
	LabelGenerationURL     string
	CreateOrderManifestURL string
	CreatePickupURL        string
	OnholdOrdersURL        string
	CancelOrdersURL        string
	CancelShipmentURL      string
	GetOrdersURL           string
	InsertOrderURL         string
	ReAttemptURL           string
	RTOURL                 string
	OrderDetailsURL        string
	GetCarrierURL          string
	WarehouseURL           string
	GetWarehousesURL       string
	PincodeServiceableURL  string

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		MongoURI:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "shipway_proxy"),
		RabbitURL:   getEnv("RABBIT_URL", ""),
		Port:        getEnv("HTTP_PORT", "9090"),

		ShipwayUsername: getEnv("SHIPWAY_USERNAME", ""),
		ShipwayPassword: getEnv("SHIPWAY_PASSWORD", ""),

		PushOrdersURL:          getEnv("SHIPWAY_PUSHORDERS_URL", ""),
		LabelGenerationURL:     getEnv("SHIPWAY_LABELGENERATION_URL", ""),
		CreateOrderManifestURL: getEnv("SHIPWAY_CreateOrderManifest_URL", ""),
		CreatePickupURL:        getEnv("SHIPWAY_CREATEPICKUP_URL", ""),
		OnholdOrdersURL:        getEnv("SHIPWAY_OnholdOrders_URL", ""),
		CancelOrdersURL:        getEnv("SHIPWAY_Cancelorders_URL", ""),
		CancelShipmentURL:      getEnv("SHIPWAY_CancelShipment_URL", ""),
		GetOrdersURL:           getEnv("SHIPWAY_GETORDERS_URL", ""),
		InsertOrderURL:         getEnv("SHIPWAY_InsertOrder_URL", ""),
		ReAttemptURL:           getEnv("SHIPWAY_ReAttempt_URL", ""),
		RTOURL:                 getEnv("SHIPWAY_RTO_URL", ""),
		OrderDetailsURL:        getEnv("SHIPWAY_OrderDetails_URL", ""),
		GetCarrierURL:          getEnv("SHIPWAY_GETCARRIER_URL", ""),
		WarehouseURL:           getEnv("SHIPWAY_warehouse_URL", ""),
		GetWarehousesURL:       getEnv("SHIPWAY_getwarehouses_URL", ""),
		PincodeServiceableURL:  getEnv("SHIPWAY_pincodeserviceable_URL", ""),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
