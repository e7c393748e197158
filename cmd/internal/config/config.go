// Package config reads process configuration from the environment.
package config

import (
	"crypto/rand"
	"fmt"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"net"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                 string
	JWTSecret            []byte
	JWTSecretGenerated   bool
	DatabaseDSN          string
	SeedProviderUsername string
	SeedProviderPassword string
	RateLimitRPS         float64
	RateLimitBurst       int
	CORSAllowOrigins     []string
	BcryptCost           int

	// TrustedProxies lists the networks whose X-Forwarded-For is believed.
	// Empty means the client IP is always the TCP peer.
	TrustedProxies []*net.IPNet
}

// Load reads .env when present, then the environment. The signing secret is
// fixed here for the life of the process: configured, or random if unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 env("PORT", "3000"),
		DatabaseDSN:          env("DATABASE_DSN", ":memory:"),
		SeedProviderUsername: os.Getenv("SEED_PROVIDER_USERNAME"),
		SeedProviderPassword: os.Getenv("SEED_PROVIDER_PASSWORD"),
		RateLimitRPS:         envFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       envInt("RATE_LIMIT_BURST", 10),
		CORSAllowOrigins:     splitList(env("CORS_ALLOW_ORIGINS", "*")),
		BcryptCost:           envInt("BCRYPT_COST", bcrypt.DefaultCost),
	}

	proxies, err := parseCIDRs(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	} else {
		generated, err := GenerateSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = generated
		cfg.JWTSecretGenerated = true
	}
	return cfg, nil
}

// GenerateSecret returns 32 random bytes.
func GenerateSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate signing secret: %w", err)
	}
	return b, nil
}

// SeedsProvider reports whether a provider account should be created at
// startup.
func (c *Config) SeedsProvider() bool {
	return c.SeedProviderUsername != "" && c.SeedProviderPassword != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseCIDRs(raw string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, cidr := range splitList(raw) {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", cidr, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}
