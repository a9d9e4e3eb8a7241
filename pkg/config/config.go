// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server ServerConfig
	Qubic  QubicConfig
	Fees   FeesConfig
	Chain  ChainConfig
	CORS   CORSConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type QubicConfig struct {
	RPCURL         string
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

type FeesConfig struct {
	StandardRate decimal.Decimal
	B2BRate      decimal.Decimal
}

type ChainConfig struct {
	DefaultChainID string
	DisplayName    string
	Enabled        bool
	// BusinessWallets maps business IDs to their primary wallet address,
	// parsed from BUSINESS_WALLETS as "id=address,id=address".
	BusinessWallets map[string]string
}

type CORSConfig struct {
	AllowedOrigin string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "55003"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Qubic: QubicConfig{
			RPCURL:         getEnv("QUBIC_RPC_URL", "https://api.qubic.li/v1/"),
			RequestTimeout: getDurationEnv("QUBIC_REQUEST_TIMEOUT", 15*time.Second),
			RetryAttempts:  getIntEnv("QUBIC_RETRY_ATTEMPTS", 3),
			RetryDelay:     getDurationEnv("QUBIC_RETRY_DELAY", 200*time.Millisecond),
		},
		Fees: FeesConfig{
			StandardRate: getDecimalEnv("FEE_STANDARD_RATE", "0.0125"),
			B2BRate:      getDecimalEnv("FEE_B2B_RATE", "0.0075"),
		},
		Chain: ChainConfig{
			DefaultChainID:  getEnv("DEFAULT_CHAIN_ID", "qubic"),
			DisplayName:     getEnv("DEFAULT_CHAIN_NAME", "Qubic"),
			Enabled:         getBoolEnv("DEFAULT_CHAIN_ENABLED", true),
			BusinessWallets: getMapEnv("BUSINESS_WALLETS"),
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}

func getDecimalEnv(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}

func getMapEnv(key string) map[string]string {
	out := make(map[string]string)
	raw := os.Getenv(key)
	if raw == "" {
		return out
	}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) == 2 && kv[0] != "" && kv[1] != "" {
			out[kv[0]] = kv[1]
		}
	}
	return out
}
