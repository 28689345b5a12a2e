package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contact-intake/config"
	"contact-intake/logger"
	"contact-intake/metrics"
	"contact-intake/models"
	"contact-intake/render"
	"contact-intake/server"
	"contact-intake/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, envFile string

	root := &cobra.Command{
		Use:           "contact-intake",
		Short:         "Contact form intake for the ShowMarketing sites",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, envFile)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, envFile)
		},
	})
	root.AddCommand(newPreviewCmd(&configPath, &envFile))
	return root
}

func serve(configPath, envFile string) error {
	cfg, err := config.LoadConfig(configPath, envFile)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "contact-intake",
	})
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	renderer, err := render.New(loc)
	if err != nil {
		return err
	}

	m := metrics.New()
	contact := service.NewContactService(cfg, renderer, m)
	srv := server.NewServer(cfg, contact, m)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("server exited properly")
	return nil
}

func newPreviewCmd(configPath, envFile *string) *cobra.Command {
	var source, format string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the notification email for a sample submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath, *envFile)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			return preview(cmd.OutOrStdout(), loc, models.Source(source), format)
		},
	}
	cmd.Flags().StringVar(&source, "source", string(models.DefaultSource), "form source: show-marketing, merry or misael")
	cmd.Flags().StringVar(&format, "format", "html", "output format: html or text")
	return cmd
}

func preview(w io.Writer, loc *time.Location, source models.Source, format string) error {
	if !source.Valid() {
		return fmt.Errorf("unknown source %q", source)
	}

	renderer, err := render.New(loc)
	if err != nil {
		return err
	}

	sub := &models.Submission{
		Nombre:   "Juan",
		Apellido: "Pérez",
		Email:    "juan@example.com",
		Telefono: "88887777",
		Mensaje:  "Hola,\nme interesa una cotización para un evento.",
		Source:   source,
	}
	out, err := renderer.Render(sub, models.ProfileFor(source))
	if err != nil {
		return err
	}

	switch format {
	case "html":
		_, err = io.WriteString(w, out.HTML+"\n")
	case "text":
		_, err = io.WriteString(w, out.Text+"\n")
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	return err
}
