package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/rateengine/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rateengine-cli",
		Short: "Rate engine CLI tool",
		Long:  `A command line interface for interacting with the rate engine API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the rate engine API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")

	rootCmd.AddCommand(accrueCmd())
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(poolCmd())
	rootCmd.AddCommand(depositCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accrueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "accrue [positions|locks]",
		Short:     "Trigger an accrual run",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"positions", "locks"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAndPrint("/api/v1/accruals/" + args[0])
		},
	}

	return cmd
}

func quoteCmd() *cobra.Command {
	var (
		asset      string
		chain      string
		governance bool
		principal  string
		termDays   int
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch the current yield quote for a pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("asset", asset)
			query.Set("chain", chain)
			if governance {
				query.Set("governance_holder", "true")
			}
			if principal != "" {
				query.Set("principal", principal)
			}
			if termDays > 0 {
				query.Set("term_days", fmt.Sprintf("%d", termDays))
			}

			return getAndPrint("/api/v1/quote?" + query.Encode())
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "Asset symbol (required)")
	cmd.Flags().StringVar(&chain, "chain", "", "Chain name (required)")
	cmd.Flags().BoolVar(&governance, "governance", false, "Quote for a governance token holder")
	cmd.Flags().StringVar(&principal, "principal", "", "Principal for the earnings projection")
	cmd.Flags().IntVar(&termDays, "term-days", 0, "Term in days for the earnings projection")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("chain")

	return cmd
}

func poolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool <asset> <chain>",
		Short: "Show the aggregate state of a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(fmt.Sprintf("/api/v1/pools/%s/%s", args[0], args[1]))
		},
	}
}

func depositCmd() *cobra.Command {
	var (
		asset  string
		chain  string
		amount string
	)

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Record a deposit volume event",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := fmt.Sprintf(`{"asset":%q,"chain":%q,"amount":%q}`, asset, chain, amount)

			client := &http.Client{Timeout: timeout}
			resp, err := client.Post(baseURL+"/api/v1/deposits/volume", "application/json", strings.NewReader(body))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			return printResponse(resp)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "Asset symbol (required)")
	cmd.Flags().StringVar(&chain, "chain", "", "Chain name (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "Deposit amount (required)")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("chain")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL    string
		migrationsPath string
	)

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "down" {
				return postgres.RunMigrationsDown(databaseURL, migrationsPath)
			}
			return postgres.RunMigrations(databaseURL, migrationsPath)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.Flags().StringVar(&migrationsPath, "migrations", "migrations", "Path to migration files")

	return cmd
}

func postAndPrint(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func getAndPrint(path string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(parsed)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(out))
}
