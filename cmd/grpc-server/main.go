package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"unihub/internal/auth"
	"unihub/internal/grpcserver"
	"unihub/internal/logbuf"
	"unihub/internal/programs"
	"unihub/pkg/database"
	"unihub/pkg/grpc/catalogrpc"
	"unihub/pkg/logger"
	"unihub/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "config file (YAML); defaults to $UNIHUB_CONFIG")
	flag.Parse()

	cfg, _, err := utils.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	lg, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	db := database.MustOpen(cfg.Database)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		zap.L().Fatal("db migrate failed", zap.Error(err))
	}

	listener, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		zap.L().Fatal("grpc listen failed", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	logs := logbuf.New(logbuf.DefaultCapacity)
	logs.AddSink(logbuf.ZapSink{Logger: lg})

	repo := programs.NewRepo(db)
	svc := grpcserver.NewServer(programs.NewService(repo, repo, logs), logs)
	tokens := auth.TokenService{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.JWTIssuer,
		Duration: cfg.Auth.JWTDuration,
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcserver.LoggingInterceptor,
		grpcserver.AdminInterceptor(tokens),
	))
	catalogrpc.RegisterCatalogServiceServer(grpcServer, svc)
	catalogrpc.RegisterLogServiceServer(grpcServer, svc)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		zap.L().Info("shutdown signal received", zap.String("signal", sig.String()))
		grpcServer.GracefulStop()
	}()

	zap.L().Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
	if err := grpcServer.Serve(listener); err != nil {
		zap.L().Fatal("grpc server stopped", zap.Error(err))
	}
}
