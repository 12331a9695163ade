package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/iot-telemetry-service/pkg/cache"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/config"
	"liyu1981.xyz/iot-telemetry-service/pkg/db"
	iotGrpc "liyu1981.xyz/iot-telemetry-service/pkg/grpc"
	iotHttp "liyu1981.xyz/iot-telemetry-service/pkg/http"
	"liyu1981.xyz/iot-telemetry-service/pkg/ingest"
	"liyu1981.xyz/iot-telemetry-service/pkg/iot"
)

const usage = "usage: subscriber [migrate]"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer common.SyncLogger()

	var command string
	if len(args) > 0 {
		command = args[0]
	}
	if command != "" && command != "migrate" {
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", command, usage)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		return 1
	}

	dbInstance, err := openDatabase(cfg)
	if err != nil {
		log.Printf("Error opening database: %v", err)
		return 1
	}
	defer dbInstance.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dbInstance.EnsureSchema(ctx); err != nil {
		log.Printf("Error creating schema: %v", err)
		return 1
	}

	if command == "migrate" {
		common.GetLogger().Info("Schema is up to date", zap.String("dialect", dbInstance.Dialect()))
		return 0
	}

	if err := serve(ctx, cfg, dbInstance); err != nil {
		common.GetLogger().Error("Subscriber stopped", zap.Error(err))
		return 1
	}
	return 0
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	switch cfg.DBType {
	case common.DBTypeFile:
		return db.Open(db.UseSqliteDialector(cfg.DBPath))
	case common.DBTypeMemory:
		return db.Open(db.UseMemorySqliteDialector())
	case common.DBTypePostgres:
		return db.Open(db.UsePostgresDialector(cfg.PostgresURL))
	default:
		return nil, fmt.Errorf("unknown %s: %s", common.EnvKeyIOTDBType, cfg.DBType)
	}
}

// serve runs the ingestion loop and the optional readout servers until ctx
// is cancelled or storage becomes unavailable.
func serve(ctx context.Context, cfg *config.Config, dbInstance *db.DB) error {
	logger := common.GetLogger()

	iotCore := iot.New(dbInstance)

	if cfg.RedisAddr != "" {
		latest, err := cache.NewLatestStore(ctx, cfg.RedisAddr, cfg.LatestTTL)
		if err != nil {
			return err
		}
		defer latest.Close()
		iotCore.WithServices(iot.ServiceOpts{Latest: latest})
		logger.Info("Latest reading cache enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	// separate buckets, reads of a device never spend its ingestion tokens
	var ingestLimiterStore, readoutLimiterStore *iot.RateLimiterStore
	if cfg.RateLimitEnabled() {
		ingestLimiterStore = iot.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
		readoutLimiterStore = iot.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
		logger.Info("Per-device rate limiters enabled",
			zap.String("default_limiter",
				fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst)))
	}

	ingestor := ingest.NewIngestor(iotCore, ingestLimiterStore)

	serverErrs := make(chan error, 2)

	if cfg.GrpcHostPort != "" {
		grpcServer, err := startGrpcServer(cfg.GrpcHostPort, iotCore, readoutLimiterStore, serverErrs)
		if err != nil {
			return err
		}
		defer grpcServer.GracefulStop()
	}

	if cfg.HTTPHostPort != "" {
		httpServer := startHttpServer(cfg.HTTPHostPort, iotCore, ingestor, readoutLimiterStore, serverErrs)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()
	}

	subscriber := ingest.NewSubscriber(cfg, ingestor)
	if err := subscriber.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	defer subscriber.Stop()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		return nil
	case err := <-subscriber.Fatal():
		return err
	case err := <-serverErrs:
		return err
	}
}

func startGrpcServer(hostPort string, iotCore *iot.IOT, limiterStore *iot.RateLimiterStore, errs chan<- error) (*grpc.Server, error) {
	logger := common.GetLoggerWith(common.LoggerNameGrpcServer)

	readoutServer := iotGrpc.ReadoutServer{
		Iot:              iotCore,
		RateLimiterStore: limiterStore,
	}
	interceptor := readoutServer.CreateRateLimitInterceptor([]string{
		iotGrpc.ListReadingsFullMethod,
		iotGrpc.GetDeviceFullMethod,
	})
	s := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	iotGrpc.RegisterReadoutServiceServer(s, &readoutServer)

	listener, err := net.Listen("tcp", hostPort)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", hostPort, err)
	}

	go func() {
		logger.Info("Start gRPC server on " + hostPort)
		if err := s.Serve(listener); err != nil {
			errs <- fmt.Errorf("grpc server failed to serve: %w", err)
		}
	}()

	return s, nil
}

func startHttpServer(hostPort string, iotCore *iot.IOT, ingestor *ingest.Ingestor, limiterStore *iot.RateLimiterStore, errs chan<- error) *http.Server {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer)

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rs := &iotHttp.RestfulServer{
		Server:           gin.Default(),
		Iot:              iotCore,
		Ingestor:         ingestor,
		RateLimiterStore: limiterStore,
	}
	rs.Setup()

	server := &http.Server{Addr: hostPort, Handler: rs.Server}

	go func() {
		logger.Info("Start HTTP server on " + hostPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http server failed to serve: %w", err)
		}
	}()

	return server
}
