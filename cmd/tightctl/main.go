// Package main provides tightctl, a command line tool for competition schedules and weights.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/tightlines/internal/client"
	"github.com/yourusername/tightlines/internal/config"
	"github.com/yourusername/tightlines/internal/logger"
	"github.com/yourusername/tightlines/internal/schedule"
	"github.com/yourusername/tightlines/internal/weight"
)

var (
	configFile string
	verbose    bool
	appLog     *logrus.Logger
	cfg        *config.Config
)

var (
	statusDate     string
	statusTime     string
	statusEndDate  string
	statusEndTime  string
	statusAt       string
	statusTimezone string

	listStatus string
	serverURL  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log HTTP and cache activity")

	statusCmd.Flags().StringVar(&statusDate, "date", "", "Start date (YYYY-MM-DD)")
	statusCmd.Flags().StringVar(&statusTime, "time", "", "Start time (HH:MM), defaults to midnight")
	statusCmd.Flags().StringVar(&statusEndDate, "end-date", "", "End date for multi-day events")
	statusCmd.Flags().StringVar(&statusEndTime, "end-time", "", "End time (HH:MM), defaults to 23:59")
	statusCmd.Flags().StringVar(&statusAt, "at", "", "Evaluate at this RFC3339 instant instead of now")
	statusCmd.Flags().StringVar(&statusTimezone, "timezone", "", "Override the configured timezone")
	_ = statusCmd.MarkFlagRequired("date")

	weightCmd.AddCommand(weightFormatCmd, weightParseCmd, weightSumCmd)

	competitionsCmd.Flags().StringVar(&listStatus, "status", "", "Only show upcoming, live, completed or unknown")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL, overrides client.base_url")

	rootCmd.AddCommand(statusCmd, weightCmd, competitionsCmd, leaderboardCmd)
}

var rootCmd = &cobra.Command{
	Use:   "tightctl",
	Short: "Inspect fishing competitions and weigh-ins",
	Long:  `Resolves competition status, converts angling weights and queries a running Tightlines API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		level := "warn"
		if verbose {
			level = "debug"
		}
		appLog = logger.NewLogger(level)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Resolve whether a competition is upcoming, live or completed",
	Example: `  tightctl status --date 2024-06-01 --time 09:00 --end-time 14:00
  tightctl status --date 2024-05-01 --end-date 2024-05-03 --at 2024-05-02T12:00:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		zone := cfg.Schedule.Timezone
		if statusTimezone != "" {
			zone = statusTimezone
		}
		resolver, err := schedule.NewResolver(zone, appLog)
		if err != nil {
			return err
		}

		now := time.Now()
		if statusAt != "" {
			now, err = time.Parse(time.RFC3339, statusAt)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
		}

		s := schedule.NewSchedule(statusDate, statusTime, statusEndDate, statusEndTime)
		start, end, err := resolver.Window(s)
		if err != nil {
			return err
		}
		status, err := resolver.Status(s, now)
		if err != nil {
			return err
		}

		fmt.Printf("Status:  %s\n", status)
		fmt.Printf("Starts:  %s\n", start.Format(time.RFC1123))
		fmt.Printf("Ends:    %s\n", end.Format(time.RFC1123))
		fmt.Printf("Checked: %s\n", now.In(resolver.Location()).Format(time.RFC1123))
		return nil
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Convert between ounces and pounds-and-ounces",
}

var weightFormatCmd = &cobra.Command{
	Use:   "format <ounces>",
	Short: "Format a stored weight value for display",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		total := weight.ParseOrZero(args[0])
		fmt.Printf("%s (%s)\n", weight.FormatValue(args[0]), weight.FormatMetric(total))
		return nil
	},
}

var weightParseCmd = &cobra.Command{
	Use:   "parse <display>",
	Short: "Parse a display weight such as \"12 lb 3 oz\" into ounces",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		total, err := weight.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%d oz\n", total)
		return nil
	},
}

var weightSumCmd = &cobra.Command{
	Use:   "sum <weight>...",
	Short: "Add weights given in either form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make([]any, len(args))
		for i, a := range args {
			values[i] = a
		}
		total := weight.Sum(values...)
		fmt.Printf("%s (%d oz, %s)\n", weight.Format(total), total, weight.FormatMetric(total))
		return nil
	},
}

var competitionsCmd = &cobra.Command{
	Use:   "competitions",
	Short: "List published competitions from the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newClient()
		if err != nil {
			return err
		}
		defer api.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()

		list, err := api.ListCompetitions(ctx, listStatus)
		if err != nil {
			return fmt.Errorf("failed to list competitions: %w", err)
		}

		fmt.Printf("%-36s  %-10s  %-10s  %s\n", "ID", "STATUS", "DATE", "TITLE")
		for _, c := range list.Competitions {
			fmt.Printf("%-36s  %-10s  %-10s  %s (%s)\n", c.ID, c.Status, c.Date, c.Title, c.Venue)
		}
		fmt.Printf("\n%d competition(s)\n", list.Count)
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <competition-id>",
	Short: "Show the ranked weigh-ins for a competition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid competition id: %w", err)
		}

		api, err := newClient()
		if err != nil {
			return err
		}
		defer api.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()

		board, err := api.GetLeaderboard(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get leaderboard: %w", err)
		}

		if board.Competition != nil {
			fmt.Printf("%s - %s\n\n", board.Competition.Title, board.Competition.Status)
		}
		for _, e := range board.Entries {
			fmt.Printf("%3d  peg %-3d  %-24s  %-12s  %s\n", e.Position, e.Entry.Peg, e.Entry.AnglerName, e.Display, e.Metric)
		}
		if len(board.Entries) == 0 {
			fmt.Println("No weigh-ins yet")
		}
		return nil
	},
}

func newClient() (*client.CachedClient, error) {
	baseURL := cfg.Client.BaseURL
	if serverURL != "" {
		baseURL = serverURL
	}
	api, err := client.NewAPIClient(baseURL, client.HTTPClientConfigFrom(&cfg.Client), appLog)
	if err != nil {
		return nil, err
	}
	return client.NewCachedClient(api, time.Duration(cfg.Client.CacheTTLSeconds)*time.Second), nil
}

func requestTimeout() time.Duration {
	// retries each get the configured timeout
	return time.Duration(cfg.Client.TimeoutSeconds*(cfg.Client.MaxRetries+1)) * time.Second
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
