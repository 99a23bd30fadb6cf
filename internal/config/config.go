// Package config loads runtime configuration from the environment. Every
// knob has a default so the server runs with no environment at all.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port          string
	AllowedOrigin string

	// Storefront identity and handoff destination.
	ShopName       string
	WhatsAppNumber string

	// Pricing and variant knobs.
	TailoringFee        float64
	DepositPercent      float64
	CurrencyLabel       string
	CollectDeliveryDate bool
	IncludeOrderID      bool
	PaymentMethods      []string

	SessionTTL    time.Duration
	DispatchDelay time.Duration

	// Redis is optional; with no address sessions live in process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),

		ShopName:       getEnv("SHOP_NAME", "خياط اليرموك"),
		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "966500000000"),

		TailoringFee:        getFloat("TAILORING_FEE", 150),
		DepositPercent:      getFloat("DEPOSIT_PERCENT", 0),
		CurrencyLabel:       getEnv("CURRENCY_LABEL", "ر.س"),
		CollectDeliveryDate: getBool("COLLECT_DELIVERY_DATE", false),
		IncludeOrderID:      getBool("INCLUDE_ORDER_ID", false),
		PaymentMethods:      getList("PAYMENT_METHODS", []string{"cash", "transfer", "card"}),

		SessionTTL:    time.Duration(getInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
		DispatchDelay: time.Duration(getInt("DISPATCH_DELAY_MS", 1000)) * time.Millisecond,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
	}
}

func (c Config) Address() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
