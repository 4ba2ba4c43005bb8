package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/glinharesb/tlskey/internal/audit"
	"github.com/glinharesb/tlskey/internal/config"
	"github.com/glinharesb/tlskey/internal/interceptor"
	"github.com/glinharesb/tlskey/internal/keystore"
	"github.com/glinharesb/tlskey/internal/metrics"
	"github.com/glinharesb/tlskey/internal/pkey"
	"github.com/glinharesb/tlskey/internal/policy"
	"github.com/glinharesb/tlskey/internal/provider"
	"github.com/glinharesb/tlskey/internal/server"
)

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	auditLogger := audit.NewLogger(cfg.AuditBuffer, os.Stdout)
	defer auditLogger.Close()

	prefs, err := policy.LookupPreferences(cfg.SignaturePreferences)
	if err != nil {
		return err
	}
	loader := pkey.NewLoader(provider.NewSoftware(), slog.Default())
	slog.Info("key layer ready",
		"rsa_pss", pkey.IsRSAPSSSupported(),
		"rsa_pss_disabled_by_env", cfg.DisableRSAPSS,
		"preferences", prefs.Name,
	)

	store, err := openStore(cfg, loader)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	ks := server.NewKeyServer(store, loader, server.Options{
		Preferences: prefs,
		Audit:       auditLogger,
		Metrics:     m,
		Logger:      slog.Default(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.KeysFile != "" {
		if err := importManifest(ctx, ks, cfg.KeysFile); err != nil {
			return err
		}
	}

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			interceptor.RecoveryUnary(nil),
			interceptor.LoggingUnary(nil),
			m.UnaryInterceptor(),
			interceptor.RateLimitUnary(cfg.RateLimitRPS, cfg.RateLimitBurst),
			interceptor.AuthUnary(cfg.AuthToken, "/grpc.health.v1.Health/"),
		),
		grpc.ChainStreamInterceptor(
			interceptor.RecoveryStream(nil),
			interceptor.LoggingStream(nil),
			interceptor.RateLimitStream(cfg.RateLimitRPS, cfg.RateLimitBurst),
			interceptor.AuthStream(cfg.AuthToken, "/grpc.health.v1.Health/"),
		),
	}
	if cfg.TLSCert != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return fmt.Errorf("load transport tls: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}
	srv := grpc.NewServer(opts...)

	server.Register(srv, ks)
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)
	reflection.Register(srv)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if cfg.MetricsAddr != "" {
		mlis, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("metrics listen: %w", err)
		}
		go func() {
			slog.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := m.Serve(ctx, mlis); err != nil {
				slog.Error("metrics serve", "error", err)
			}
		}()
	}

	go func() {
		slog.Info("server starting", "addr", cfg.GRPCAddr)
		if err := srv.Serve(lis); err != nil {
			slog.Error("serve", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	healthSrv.Shutdown()

	// Graceful shutdown with 10s timeout
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("shutdown complete")
	case <-time.After(10 * time.Second):
		slog.Warn("graceful shutdown timed out, forcing stop")
		srv.Stop()
	}
	return nil
}

type closingStore interface {
	keystore.Store
	io.Closer
}

func openStore(cfg config.Config, loader *pkey.Loader) (closingStore, error) {
	if cfg.DataDir == "" {
		slog.Info("using in-memory store")
		return keystore.NewMemoryStore(), nil
	}
	ps, err := keystore.NewPersistentStore(filepath.Join(cfg.DataDir, "keys.json"), []byte(cfg.MasterKey), loader, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("persistent store: %w", err)
	}
	slog.Info("using persistent store", "path", cfg.DataDir)
	return ps, nil
}

// importManifest loads every manifest entry. Keys already restored from the
// persistent store are left alone.
func importManifest(ctx context.Context, ks *server.KeyServer, path string) error {
	manifest, err := config.LoadManifest(path)
	if err != nil {
		return err
	}
	for _, entry := range manifest.Keys {
		certPEM, err := os.ReadFile(entry.Cert)
		if err != nil {
			return fmt.Errorf("key %s: %w", entry.ID, err)
		}
		keyPEM, err := os.ReadFile(entry.Key)
		if err != nil {
			return fmt.Errorf("key %s: %w", entry.ID, err)
		}
		err = ks.Import(ctx, entry.ID, certPEM, keyPEM, entry.RequiredCurve(), entry.Labels)
		clear(keyPEM)
		switch {
		case errors.Is(err, keystore.ErrKeyExists):
			slog.Info("key already loaded", "key_id", entry.ID)
		case err != nil:
			return err
		}
	}
	return nil
}
