package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"forestreport/models"
	"forestreport/reportstore"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			app, err := newApp(startCtx, cfg, log)
			cancel()
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			defer app.close()

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           app.routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Infof("analysis API listening on :%s (upstream %s)", cfg.Port, cfg.UpstreamURL)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the report table if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", cfg.StoreDriver)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	var (
		reportType string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print stored reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if !cmd.Flags().Changed("limit") && reportType != "" {
				limit = reportstore.DefaultListByTypeLimit
			}
			var reports []models.Report
			if reportType != "" {
				reports, err = store.ListByType(ctx, models.ReportType(reportType), limit)
			} else {
				reports, err = store.ListAll(ctx, limit)
			}
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), reports)
			return nil
		},
	}
	cmd.Flags().StringVar(&reportType, "type", "", "only reports of this type (e.g. dap_altura)")
	cmd.Flags().IntVar(&limit, "limit", reportstore.DefaultListAllLimit, "maximum number of reports")
	return cmd
}

func renderHistory(w io.Writer, reports []models.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Tipo", "Título", "Generado por", "Creado"})
	for _, r := range reports {
		t.AppendRow(table.Row{r.ID, r.Type, r.Title, r.GeneratedBy, r.CreatedAt.String()})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(reports)})
	t.Render()
}
