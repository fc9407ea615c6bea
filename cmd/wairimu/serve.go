package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/inquiry"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/metrics"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/property"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/raster"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/server"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/tour"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tour, the property facts and the inquiry API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	images := imageSource()

	var tours server.TourSource
	if cfg.Tour.Watch {
		w, err := tour.NewWatcher(cfg.Tour.File, logger)
		if err != nil {
			return err
		}
		w.OnChange(func(t *tour.Tour) {
			images.Forget()
			logTourIssues(t)
		})
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		tours = w
	} else {
		t, err := tour.Load(cfg.Tour.File)
		if err != nil {
			return err
		}
		tours = t
	}
	t := tours.Current()
	logTourIssues(t)
	logger.Info("tour loaded",
		zap.String("path", cfg.Tour.File),
		zap.Int("scenes", len(t.Scenes)))

	store, err := inquiry.OpenSQLite(cfg.Inquiry.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	var mailer inquiry.Mailer = inquiry.LogMailer{Log: logger}
	if smtpCfg, ok := cfg.Inquiry.SMTP(); ok {
		m, err := inquiry.NewSMTPMailer(smtpCfg)
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		mailer = m
	} else {
		logger.Warn("smtp not configured, inquiries will only be logged")
	}

	srv := server.New(server.Options{
		Server:  cfg.Server,
		Viewer:  cfg.Viewer,
		Tours:   tours,
		Backend: raster.Software{},
		Images:  images,
		Inquiries: &inquiry.Service{
			Store:  store,
			Mailer: mailer,
			Log:    logger,
		},
		Property: property.Default(),
		Metrics:  metrics.New(),
		Logger:   logger,
	})
	return srv.Run(ctx, cfg.Server.Addr())
}

func logTourIssues(t *tour.Tour) {
	for _, issue := range t.Issues {
		logger.Warn("tour issue", zap.String("issue", issue.String()))
	}
}
