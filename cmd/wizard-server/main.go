// cmd/wizard-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"listing-wizard/internal/api"
	"listing-wizard/internal/audit"
	"listing-wizard/internal/common/auth"
	commonaws "listing-wizard/internal/common/aws"
	"listing-wizard/internal/common/camunda"
	"listing-wizard/internal/common/config"
	"listing-wizard/internal/common/database"
	commonhttp "listing-wizard/internal/common/http"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/common/metrics"
	"listing-wizard/internal/common/observability"
	"listing-wizard/internal/submission"
	"listing-wizard/internal/wizard"
	"listing-wizard/internal/wizard/listing"
	"listing-wizard/internal/wizard/verification"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
// Only used for startup connections.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	ctx := context.Background()

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	// --- Redis draft slot ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	recorders := []wizard.Recorder{metrics.NewRecorder(), obs}
	checks := map[string]api.HealthFunc{"redis": redis.Ping}

	// --- PostgreSQL audit trail (optional) ---
	var history api.EventHistory
	if cfg.Database.Postgres.Enabled() {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		recorder := audit.NewRecorder(pg.DB, 2*time.Second, log)
		if err := recorder.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("audit schema failed", zap.Error(err))
		}
		recorders = append(recorders, recorder)
		history = recorder
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL audit trail enabled")
	}

	// --- AWS: uploads and confirmations ---
	awsCfg, err := commonaws.LoadConfig(ctx, cfg.Uploads.Region)
	if err != nil {
		zapLog.Fatal("aws config failed", zap.Error(err))
	}
	uploader := submission.NewS3Uploader(commonaws.NewS3Client(awsCfg), cfg.Uploads.Bucket, cfg.Uploads.Prefix)

	var notifier submission.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		notifyCfg := awsCfg.Copy()
		notifyCfg.Region = cfg.Notifications.AWS.Region

		var sesSvc submission.SESService
		var snsSvc submission.SNSService
		if cfg.Notifications.Email.Enabled {
			sesSvc = commonaws.NewSESClient(notifyCfg)
		}
		if cfg.Notifications.SMS.Enabled {
			snsSvc = commonaws.NewSNSClient(notifyCfg)
		}
		notifier = submission.NewAWSNotifier(sesSvc, snsSvc, submission.NotifierConfig{
			FromEmail:    cfg.Notifications.Email.FromEmail,
			EmailEnabled: cfg.Notifications.Email.Enabled,
			SMSEnabled:   cfg.Notifications.SMS.Enabled,
		}, log)
	}

	// --- Submission sinks ---
	httpClient := commonhttp.NewClient(config.GetDuration(cfg.Submission.Timeout))
	var listingSink submission.Sink = submission.NewHTTPSink(httpClient, cfg.Submission.BaseURL, cfg.Submission.ListingPath, cfg.Submission.Token, log)
	var verificationSink submission.Sink

	if cfg.Submission.UseZeebe {
		var zeebe *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		verificationSink = submission.NewZeebeSink(zeebe, cfg.Submission.VerificationProcessID, log)
		checks["zeebe"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")
	} else {
		verificationSink = submission.NewHTTPSink(httpClient, cfg.Submission.BaseURL, cfg.Submission.VerificationPath, cfg.Submission.Token, log)
	}

	// --- Identity ---
	var identities api.IdentityLookup
	var verifier api.TokenVerifier
	if cfg.Auth.Keycloak.URL != "" {
		kc := auth.NewKeycloakClient(
			cfg.Auth.Keycloak.URL,
			cfg.Auth.Keycloak.Realm,
			cfg.Auth.Keycloak.ClientID,
			cfg.Auth.Keycloak.ClientSecret,
		)
		identities = kc
		verifier = kc
		checks["keycloak"] = kc.HealthCheck
	}

	// --- Flows ---
	registry := api.NewRegistry(
		api.SessionEnv{
			KV:        redis,
			KeyPrefix: cfg.Drafts.KeyPrefix,
			DraftTTL:  cfg.DraftTTL(),
			Logger:    log,
			Recorders: recorders,
		},
		identities,
		api.Bind(listing.NewFlow(), listing.NewPublisher(listingSink, uploader, notifier, log), listing.DecodePatch),
		api.Bind(verification.NewFlow(), verification.NewVerifier(verificationSink, uploader, notifier, log), verification.DecodePatch),
	)

	handler := api.NewWizardHandler(registry, history, int64(cfg.Server.MaxUploadMB)<<20, log)
	server := api.NewServer(api.ServerConfig{
		Address:      cfg.Server.Address,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}, api.NewRouter(handler, verifier, checks, log), log)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go registry.RunSweeper(sweepCtx, cfg.SessionSweepInterval(), cfg.SessionIdleTimeout())

	go func() {
		if err := server.Start(); err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()
	zapLog.Info("Wizard server started", zap.Strings("flows", registry.Flows()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zapLog.Info("Shutting down...")
	stopSweeper()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
}
