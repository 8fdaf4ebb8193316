package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yeremiapane/food-order-app/config"
	"github.com/yeremiapane/food-order-app/utils"
)

var (
	envFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "food-order-app",
	Short: "Food ordering backend for small events",
	Long: `food-order-app serves the order API used by the order page, the manager
dashboard and the tracking page, and streams order events to connected clients.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("store-driver", "sqlite", "sqlite, mysql, postgres or redis")
	rootCmd.PersistentFlags().String("store-dsn", "food_orders.db", "DSN for SQL drivers")

	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = v.BindPFlag("store_driver", rootCmd.PersistentFlags().Lookup("store-driver"))
	_ = v.BindPFlag("store_dsn", rootCmd.PersistentFlags().Lookup("store-dsn"))

	rootCmd.AddCommand(serveCmd, seedCmd, watchCmd)
}

// loadConfig membaca konfigurasi dan menyiapkan logger sebelum command berjalan.
func loadConfig() (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}

	cfg, err := config.Load(v, files...)
	if err != nil {
		return nil, err
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
