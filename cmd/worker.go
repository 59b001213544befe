package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background worker pools such as email delivery.`,
}

var mailerWorkerCmd = &cobra.Command{
	Use:   "mailer",
	Short: "Start the email delivery worker pool",
	Long:  `Periodically sweeps notifications that were never emailed and delivers them through the mail API.`,
	Run: func(cmd *cobra.Command, args []string) {
		startMailerWorker()
	},
}

var (
	maxWorkers    int
	jobQueueSize  int
	apiURL        string
	sweepInterval time.Duration
	sweepLimit    int
)

func startMailerWorker() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// flags override config values
	cfg.Mailer.Enabled = true
	cfg.Mailer.APIURL = getStringFlag(apiURL, cfg.Mailer.APIURL)
	cfg.Mailer.MaxWorkers = getIntFlag(maxWorkers, cfg.Mailer.MaxWorkers)
	cfg.Mailer.JobQueueSize = getIntFlag(jobQueueSize, cfg.Mailer.JobQueueSize)
	if err := cfg.Mailer.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid mailer config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	app, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	app.StartMailer()

	logger.Info("starting mailer worker",
		"max_workers", cfg.Mailer.MaxWorkers,
		"job_queue_size", cfg.Mailer.JobQueueSize,
		"rate_per_second", cfg.Mailer.RatePerSecond,
		"sweep_interval", sweepInterval,
		"api_url", cfg.Mailer.APIURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	sweep := func() {
		sweepCtx, cancel := context.WithTimeout(ctx, sweepInterval)
		defer cancel()
		if _, err := app.Mailer.Sweep(sweepCtx, sweepLimit); err != nil {
			logger.Error("email sweep failed", "error", err)
		}
	}

	sweep()
	logger.Info("mailer worker is running. Press Ctrl+C to stop.")

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			logger.Info("shutting down mailer worker")

			done := make(chan struct{})
			go func() {
				app.Close()
				close(done)
			}()

			select {
			case <-done:
				logger.Info("mailer worker pool shutdown complete")
			case <-time.After(30 * time.Second):
				logger.Warn("shutdown timeout reached, forcing exit")
			}
			return
		}
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	mailerWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	mailerWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")
	mailerWorkerCmd.Flags().StringVar(&apiURL, "api-url", "", "Mail API URL (overrides config)")
	mailerWorkerCmd.Flags().DurationVar(&sweepInterval, "interval", 30*time.Second, "How often pending notifications are swept")
	mailerWorkerCmd.Flags().IntVar(&sweepLimit, "limit", 100, "Maximum notifications queued per sweep")

	workerCmd.AddCommand(mailerWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
