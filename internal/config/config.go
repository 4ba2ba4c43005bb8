package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/glinharesb/tlskey/internal/pkey"
)

type Config struct {
	GRPCAddr             string
	MetricsAddr          string
	TLSCert              string
	TLSKey               string
	AuthToken            string
	AuditBuffer          int
	RateLimitRPS         int
	RateLimitBurst       int
	DataDir              string
	MasterKey            string
	KeysFile             string
	DisableRSAPSS        bool
	SignaturePreferences string
	LogLevel             slog.Level
}

func Load() Config {
	rps := envInt("TLSKEY_RATE_LIMIT_RPS", 100)
	return Config{
		GRPCAddr:             envOr("TLSKEY_GRPC_ADDR", ":50051"),
		MetricsAddr:          envOr("TLSKEY_METRICS_ADDR", ":9090"),
		TLSCert:              os.Getenv("TLSKEY_TLS_CERT"),
		TLSKey:               os.Getenv("TLSKEY_TLS_KEY"),
		AuthToken:            envOr("TLSKEY_AUTH_TOKEN", "dev-token"),
		AuditBuffer:          envInt("TLSKEY_AUDIT_BUFFER", 1024),
		RateLimitRPS:         rps,
		RateLimitBurst:       envInt("TLSKEY_RATE_LIMIT_BURST", rps),
		DataDir:              os.Getenv("TLSKEY_DATA_DIR"),
		MasterKey:            os.Getenv("TLSKEY_MASTER_KEY"),
		KeysFile:             os.Getenv("TLSKEY_KEYS_FILE"),
		DisableRSAPSS:        envBool(pkey.DisableRSAPSSEnv, os.Getenv(pkey.DisableRSAPSSEnv) != ""),
		SignaturePreferences: envOr("TLSKEY_SIGNATURE_PREFERENCES", "default"),
		LogLevel:             envLevel("TLSKEY_LOG_LEVEL", slog.LevelInfo),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
		return fallback
	}
	return l
}
