package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string
	JWTSecret    string
	AllowOrigins []string

	// Store selects the backing store: "mongo" (default) or "memory".
	Store string

	// StrictCartStock re-validates the merged quantity against live stock
	// when an add hits an existing cart line. Off by default: the historical
	// behavior only checks the increment itself.
	StrictCartStock bool

	// AtomicStock places orders through per-product conditional decrements
	// with compensation. When false the legacy check-then-decrement flow is
	// used instead (a concurrent-checkout race window, kept for parity).
	AtomicStock bool

	// RestrictVendorStatus limits vendors to forward fulfilment steps when
	// updating order status. Off by default: vendors may set any status
	// short of re-opening a terminal order.
	RestrictVendorStatus bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "5000"),
		MongoURI:             getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:         getEnv("MONGODB_DB", "marketplace"),
		JWTSecret:            getEnv("JWT_SECRET", "secret"),
		Store:                getEnv("STORE", "mongo"),
		StrictCartStock:      getBool("CART_STRICT_STOCK", false),
		AtomicStock:          getBool("ORDER_ATOMIC_STOCK", true),
		RestrictVendorStatus: getBool("ORDER_RESTRICT_VENDOR_STATUS", false),
	}

	origins := getEnv("ALLOW_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
