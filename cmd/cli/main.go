package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alturabank/ledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "AlturaBank ledger CLI tool",
		Long:  `A command line interface for interacting with the AlturaBank ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd())
	rootCmd.AddCommand(ledgerCmd)

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	accountCmd.AddCommand(accountGetCmd(), accountEntriesCmd())
	rootCmd.AddCommand(accountCmd)

	// Rate commands
	rootCmd.AddCommand(rateCmd())

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.AddCommand(migrateUpCmd(), migrateDownCmd())
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check that every balance equals the sum of its completed entries",
		Run: func(cmd *cobra.Command, args []string) {
			status, body := doGet("/api/v1/admin/reconciliation")

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			switch status {
			case http.StatusOK:
				fmt.Println("Consistency check PASSED")
			case http.StatusConflict:
				fmt.Println("Consistency check FAILED: ledger has drifted")
			default:
				fmt.Printf("Consistency check error (Status: %d)\nResponse: %s\n", status, truncate(string(body), 500))
				os.Exit(1)
			}

			printJSON(result)

			if status != http.StatusOK {
				os.Exit(1)
			}
		},
	}
}

func accountGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			status, body := doGet("/api/v1/accounts/" + args[0])
			if status != http.StatusOK {
				fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, truncate(string(body), 500))
				os.Exit(1)
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}
			printJSON(result)
		},
	}
}

func accountEntriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entries <account-id>",
		Short: "List an account's entries, newest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			status, body := doGet("/api/v1/accounts/" + args[0] + "/entries")
			if status != http.StatusOK {
				fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, truncate(string(body), 500))
				os.Exit(1)
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}
			printJSON(result)
		},
	}
}

func rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <from> <to>",
		Short: "Resolve the exchange rate for a currency pair",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			status, body := doGet("/api/v1/rates/" + args[0] + "/" + args[1])
			if status != http.StatusOK {
				fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, truncate(string(body), 500))
				os.Exit(1)
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}
			printJSON(result)
		},
	}
}

func migrateUpCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrations(databaseURL, path); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations applied")
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.Flags().StringVar(&path, "path", "migrations", "Migrations directory")

	return cmd
}

func migrateDownCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			if err := postgres.RunMigrationsDown(databaseURL, path); err != nil {
				fmt.Printf("Rollback failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migration rolled back")
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.Flags().StringVar(&path, "path", "migrations", "Migrations directory")

	return cmd
}

func doGet(path string) (int, []byte) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
