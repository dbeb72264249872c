package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/suwen-susan/swe1-app/lib/client"
	"github.com/suwen-susan/swe1-app/lib/config"
	"github.com/suwen-susan/swe1-app/lib/server"
	"gorm.io/gorm"
)

var (
	flagEnvFile     string
	flagPort        string
	flagDatabaseURL string
	flagSQLitePath  string
	flagDebug       bool
)

var rootCmd = &cobra.Command{
	Use:          "polls",
	Short:        "Publish poll questions and collect votes",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := client.Open(cfg.DatabaseURL, cfg.SQLitePath, cfg.Debug)
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := client.Migrate(db); err != nil {
			return err
		}
		log.Info("schema up to date")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "file with environment defaults")
	rootCmd.PersistentFlags().StringVarP(&flagPort, "port", "p", "", "HTTP port (env PORT)")
	rootCmd.PersistentFlags().StringVarP(&flagDatabaseURL, "database-url", "d", "", "postgres connection string (env DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagSQLitePath, "sqlite", "", "sqlite file used without a database url (env SQLITE_PATH)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "verbose logging (env DEBUG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return cfg, err
	}

	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagDatabaseURL != "" {
		cfg.DatabaseURL = flagDatabaseURL
	}
	if flagSQLitePath != "" {
		cfg.SQLitePath = flagSQLitePath
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = flagDebug
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.AdminKey == "" {
		key, err := config.GenerateAdminKey("polls")
		if err != nil {
			return err
		}
		cfg.AdminKey = key
		log.WithField("admin_key", key).Warn("ADMIN_KEY not set, generated one for this run")
	}

	db, err := client.Open(cfg.DatabaseURL, cfg.SQLitePath, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := client.Migrate(db); err != nil {
		return err
	}

	s, err := server.New(client.Client{DB: db}, cfg)
	if err != nil {
		return err
	}

	// signal.Notify requires the channel to be buffered
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server closed")
	return nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.WithError(err).Error("closing database")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
