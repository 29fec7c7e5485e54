package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/url-scoop-go/internal/app"
	"github.com/yourusername/url-scoop-go/internal/infrastructure"
	"github.com/yourusername/url-scoop-go/internal/source"
	"github.com/yourusername/url-scoop-go/internal/urlnorm"
	"github.com/yourusername/url-scoop-go/pkg/logger"
)

var (
	serverURL  string
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "url-scoop",
		Short: "url-scoop CLI - Batch URL fetcher",
		Long:  `A command-line interface for fetching batches of URLs to a local directory.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL (for history commands)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	fetchCmd.Flags().StringP("file", "f", "", "Path to a file with one URL per line")
	fetchCmd.Flags().StringP("dest", "d", "", "Destination directory (default from config)")
	fetchCmd.Flags().Bool("skip-existing", true, "Skip URLs whose target file already exists")
	fetchCmd.Flags().Int("retries", 0, "Retries per URL after the first attempt (default from config)")
	fetchCmd.Flags().Duration("retry-delay", 0, "Base retry delay (default from config)")
	fetchCmd.Flags().String("api-key", "", "Vendor API key (default from config or environment)")

	historyCmd.Flags().String("status", "", "Filter by status")

	configInitCmd.Flags().StringP("output", "o", "", "Where to write the config file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [url...]",
	Short: "Fetch a batch of URLs",
	Long: `Fetch URLs given as arguments, from a list file, or both. The list
file is read first, then the argument URLs, preserving order.`,
	Run: func(cmd *cobra.Command, args []string) {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		listFile, _ := cmd.Flags().GetString("file")

		req := app.RunRequest{
			File: source.FromFile(listFile),
			Text: source.FromString(strings.Join(args, "\n")),
		}
		req.DestDir, _ = cmd.Flags().GetString("dest")
		req.Credential, _ = cmd.Flags().GetString("api-key")

		if cmd.Flags().Changed("skip-existing") {
			skip, _ := cmd.Flags().GetBool("skip-existing")
			req.SkipExisting = &skip
		}
		if cmd.Flags().Changed("retries") {
			retries, _ := cmd.Flags().GetInt("retries")
			req.RetryCount = &retries
		}
		if cmd.Flags().Changed("retry-delay") {
			delay, _ := cmd.Flags().GetDuration("retry-delay")
			req.RetryDelay = &delay
		}
		req.Progress = func(completed, total int, label string) {
			fmt.Printf("[%d/%d] %s\n", completed, total, label)
		}

		log := logger.NewDefault()
		defer log.Sync()

		repo, err := infrastructure.NewSQLiteRunRepository(config.History.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer repo.Close()

		notifier := infrastructure.NewNotificationService(&config.Notification, log)
		service := app.NewRunService(repo, notifier, config, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		run, err := service.Execute(ctx, req)
		if run != nil && run.Report != "" {
			fmt.Println()
			fmt.Println(run.Report)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if run.ErrorCount > 0 {
			os.Exit(1)
		}
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [url...]",
	Short: "Preview URL normalization without downloading",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "URL\tNORMALIZED\tREWRITTEN")
		for _, raw := range args {
			normalized, rewritten := urlnorm.Normalize(raw)
			fmt.Fprintf(w, "%s\t%s\t%v\n", raw, normalized, rewritten)
		}
		w.Flush()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs",
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := cmd.Flags().GetString("status")

		url := serverURL + "/api/v1/runs"
		if status != "" {
			url += "?status=" + status
		}

		resp, err := http.Get(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var runs []map[string]interface{}
		json.Unmarshal(body, &runs)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tURLS\tSAVED\tSKIPPED\tFAILED\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%v\t%v\t%s\n",
				truncate(stringField(r, "id"), 8),
				stringField(r, "status"),
				r["url_count"],
				r["success_count"],
				r["skip_count"],
				r["error_count"],
				stringField(r, "created_at"))
		}
		w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run statistics",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/api/v1/runs/stats")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		var stats map[string]interface{}
		json.Unmarshal(body, &stats)

		fmt.Println("Run Statistics:")
		fmt.Printf("  Total:       %v\n", stats["total"])
		fmt.Printf("  Queued:      %v\n", stats["queued"])
		fmt.Printf("  Running:     %v\n", stats["running"])
		fmt.Printf("  Completed:   %v\n", stats["completed"])
		fmt.Printf("  Failed:      %v\n", stats["failed"])
		fmt.Printf("  Files saved: %v\n", stats["files"])
		fmt.Printf("  Total bytes: %v\n", stats["total_bytes"])
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get run details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/api/v1/runs/" + args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err != nil {
			fmt.Println(string(body))
			return
		}
		fmt.Println(pretty.String())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [id]",
	Short: "Print a run's text report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := http.Get(serverURL + "/api/v1/runs/" + args[0] + "/report")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}
		fmt.Println(string(body))
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			output = filepath.Join(home, ".url-scoop", "config.yaml")
		}

		config, err := app.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := app.SaveConfig(config, output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", output)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("url-scoop 1.0.0")
	},
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
