package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/food-order-app/kds"
	"github.com/yeremiapane/food-order-app/router"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the order API and event streams",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.GinMode == gin.ReleaseMode {
			gin.SetMode(gin.ReleaseMode)
		}
		if !cfg.HasManagerSecret() {
			utils.ErrorLogger.Error("MANAGER_SECRET is not set; manager routes will answer 500")
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		hub := kds.NewHub()
		dispatcher := services.NewDispatcher(a.notifier, hub, cfg.SSEPollInterval)
		dispatcher.Start()
		defer dispatcher.Stop()

		r := router.SetupRouter(router.Deps{
			Config:   cfg,
			Orders:   a.orders,
			Notifier: a.notifier,
			Hub:      hub,
		})

		server := &http.Server{
			Addr:        ":" + cfg.Port,
			Handler:     r,
			ReadTimeout: 15 * time.Second,
			// SSE harus bisa bertahan sampai SSE_MAX_DURATION
			WriteTimeout: cfg.SSEMaxDuration + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown
		go func() {
			sigint := make(chan os.Signal, 1)
			signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
			<-sigint

			utils.InfoLogger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				utils.ErrorLogger.Errorf("Error during shutdown: %v", err)
			}
		}()

		utils.InfoLogger.Printf("Listening on port %s (store: %s)", cfg.Port, cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "HTTP port")
	_ = v.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}
