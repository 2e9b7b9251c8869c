package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("WALLET_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("AUDIT_TOPIC", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.Equal(t, "wallet.audit.events", cfg.AuditTopic)
	assert.Equal(t, "ro.lexera.issuer", cfg.CredentialIssuer)
	assert.Equal(t, "ro.lexera.status-registry", cfg.StatusIssuer)
	assert.Equal(t, 24*time.Hour, cfg.CredentialTTL)
	assert.Equal(t, 12*time.Hour, cfg.StatusProofTTL)
	assert.NotEmpty(t, cfg.HashSalt)
	assert.NotEmpty(t, cfg.PIIEncryptionKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("WALLET_ADDR", ":9999")
	t.Setenv("WALLET_HASH_SALT", "prod-salt")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092,broker-b:9092")
	t.Setenv("AUDIT_TOPIC", "custom.audit")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "prod-salt", cfg.HashSalt)
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom.audit", cfg.AuditTopic)
}
