package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexchirea/digital-wallet-api/internal/audit"
	"github.com/alexchirea/digital-wallet-api/internal/audit/relay"
	"github.com/alexchirea/digital-wallet-api/internal/identity"
	"github.com/alexchirea/digital-wallet-api/internal/issuance"
	"github.com/alexchirea/digital-wallet-api/internal/issuance/providers/diploma"
	"github.com/alexchirea/digital-wallet-api/internal/issuance/providers/idcard"
	"github.com/alexchirea/digital-wallet-api/internal/keys"
	"github.com/alexchirea/digital-wallet-api/internal/platform/config"
	"github.com/alexchirea/digital-wallet-api/internal/platform/fieldcrypt"
	"github.com/alexchirea/digital-wallet-api/internal/platform/httpserver"
	"github.com/alexchirea/digital-wallet-api/internal/platform/logger"
	"github.com/alexchirea/digital-wallet-api/internal/platform/metrics"
	platformpg "github.com/alexchirea/digital-wallet-api/internal/platform/postgres"
	platformredis "github.com/alexchirea/digital-wallet-api/internal/platform/redis"
	"github.com/alexchirea/digital-wallet-api/internal/signing"
	"github.com/alexchirea/digital-wallet-api/internal/status"
	statuscache "github.com/alexchirea/digital-wallet-api/internal/status/cache"
	httptransport "github.com/alexchirea/digital-wallet-api/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Key generation is expensive and unrecoverable on failure; surface it
	// before serving any traffic.
	keyProvider := keys.NewProvider()
	if err := keyProvider.Generate(); err != nil {
		log.Error("signing key generation failed", "error", err.Error())
		os.Exit(1)
	}

	m := metrics.New()

	var (
		db          *sql.DB
		userStore   identity.Store
		statusStore status.Store
		auditStore  audit.Store
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = platformpg.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()

		if err := platformpg.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err.Error())
			os.Exit(1)
		}

		cipher, err := fieldcrypt.New(cfg.PIIEncryptionKey)
		if err != nil {
			log.Error("field cipher setup failed", "error", err.Error())
			os.Exit(1)
		}
		userStore = identity.NewPostgresStore(db, cipher)
		statusStore = status.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		userStore = identity.NewInMemoryStore()
		statusStore = status.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
	}

	auditor := audit.NewPublisher(auditStore, log)

	signer := signing.New(keyProvider, cfg.CredentialIssuer, cfg.StatusIssuer, cfg.CredentialTTL, cfg.StatusProofTTL)

	statusOpts := []status.Option{}
	if cfg.RedisAddr != "" {
		redisClient, err := platformredis.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Error("redis connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer redisClient.Close()
		statusOpts = append(statusOpts, status.WithCache(statuscache.New(redisClient), cfg.CredentialTTL))
	}
	statusSvc := status.NewService(statusStore, signer, auditor, m, statusOpts...)

	hasher := identity.NewHasher(cfg.HashSalt)
	identityOpts := []identity.Option{}
	if db != nil {
		identityOpts = append(identityOpts, identity.WithTxRunner(platformpg.NewTxRunner(db)))
	}
	identitySvc := identity.NewService(hasher, userStore, auditor, m, identityOpts...)

	registry, err := issuance.NewRegistry(
		diploma.New(),
		idcard.New(userStore),
	)
	if err != nil {
		log.Error("claim provider registration failed", "error", err.Error())
		os.Exit(1)
	}
	issuanceSvc := issuance.NewService(registry, signer, statusSvc, auditor, m)

	handler := httptransport.NewHandler(log, identitySvc, issuanceSvc, statusSvc, keyProvider)
	router := httptransport.NewRouter(handler, log)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting digital-wallet-api", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.KafkaBrokers) > 0 && db != nil {
		auditRelay, err := relay.New(db, cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("audit relay setup failed", "error", err.Error())
			os.Exit(1)
		}
		defer auditRelay.Close()
		group.Go(func() error {
			log.Info("starting audit relay", "topic", cfg.AuditTopic)
			if err := auditRelay.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
