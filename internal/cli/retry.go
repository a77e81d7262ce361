package cli

import (
	"fmt"
	"log"
	"time"

	"assessment-service/internal/config"
	"assessment-service/internal/gateway"
	pgoutbox "assessment-service/internal/infra/postgres"
	"assessment-service/internal/infra/sheets"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewRetryCmd drains the submission outbox, re-attempting every parked
// sheet write.
func NewRetryCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "retry-outbox",
		Short: "Retry submission writes parked in the outbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if cfg.Sheets.URL == "" {
				return fmt.Errorf("sheets url not configured")
			}

			pool, err := pgxpool.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			client := sheets.NewClient(cfg.Sheets.URL, config.Duration(cfg.Sheets.Timeout, 15*time.Second))
			gw := gateway.New(client, pgoutbox.NewOutbox(pool))

			retried, failed, err := gw.RetryPending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			log.Printf("outbox retry done: %d landed, %d still parked", retried, failed)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "max parked writes to retry")
	return cmd
}
