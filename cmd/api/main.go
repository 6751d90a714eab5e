package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hqvu/groundroster/internal/apiconfig"
	"github.com/hqvu/groundroster/internal/config"
	"github.com/hqvu/groundroster/pkg/clients/excelclient"
	"github.com/hqvu/groundroster/pkg/core/attendance"
	"github.com/hqvu/groundroster/pkg/utils/logging"
	"github.com/hqvu/groundroster/pkg/workbook"
)

func main() {
	apiCfg, err := apiconfig.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.InitLogger(apiCfg.Environment)
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	// Busy-window and sheet-layout settings still come from the yaml
	// config; only the server itself is env-configured.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load roster config", zap.Error(err))
	}

	layout := attendance.Layout{
		HeaderRow:     cfg.Attendance.HeaderRow,
		NameColumn:    cfg.Attendance.NameColumn,
		DayBaseColumn: cfg.Attendance.DayBaseColumn,
		DayColumnSpan: cfg.Attendance.DayColumnSpan,
	}
	store := workbook.NewStore(layout, logger)

	logger.Info("Loading workbook", zap.String("path", apiCfg.WorkbookPath))
	if err := store.Load(context.Background(), excelclient.NewClient(apiCfg.WorkbookPath)); err != nil {
		logger.Fatal("Failed to load workbook", zap.Error(err))
	}

	handler := NewHandler(cfg, store, logger)
	handler.RegisterRoutes()

	server := &http.Server{
		Addr:         apiCfg.Server.Addr,
		Handler:      handler.Mux,
		ReadTimeout:  time.Duration(apiCfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(apiCfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(apiCfg.Server.IdleTimeout) * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(apiCfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("Server listening", zap.String("addr", apiCfg.Server.Addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
