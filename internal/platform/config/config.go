package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Values are read once at
// startup; nothing mutates them afterwards.
type Server struct {
	Addr string

	// DatabaseURL selects the Postgres-backed stores when set; empty falls
	// back to in-memory stores for local development.
	DatabaseURL string

	// RedisAddr enables the revoked-credential cache when set.
	RedisAddr string

	// KafkaBrokers enables the audit outbox relay when non-empty.
	KafkaBrokers []string
	AuditTopic   string

	// HashSalt is the process-wide secret salt for root identity hashes.
	// Compromise invalidates the anonymization guarantee system-wide; treat
	// it at parity with the signing key.
	HashSalt string

	// PIIEncryptionKey derives the AES key used by the Postgres user store
	// to encrypt PII columns at rest.
	PIIEncryptionKey string

	CredentialIssuer string
	StatusIssuer     string

	CredentialTTL  time.Duration
	StatusProofTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("WALLET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	salt := os.Getenv("WALLET_HASH_SALT")
	if salt == "" {
		// Use a default for development - must be overridden in production
		salt = "dev-hash-salt-change-in-production"
	}

	piiKey := os.Getenv("PII_ENCRYPTION_KEY")
	if piiKey == "" {
		// Use a default for development - must be overridden in production
		piiKey = "dev-pii-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "wallet.audit.events"
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		KafkaBrokers:     brokers,
		AuditTopic:       auditTopic,
		HashSalt:         salt,
		PIIEncryptionKey: piiKey,
		CredentialIssuer: "ro.lexera.issuer",
		StatusIssuer:     "ro.lexera.status-registry",
		CredentialTTL:    24 * time.Hour,
		StatusProofTTL:   12 * time.Hour,
	}
}
