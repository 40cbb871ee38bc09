package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storeconnect",
	Short: "App Store Connect data over MCP",
	Long: `storeconnect - App Store Connect reviews and crash reports over MCP

storeconnect exposes customer reviews and beta crash submissions from the
App Store Connect API as MCP (Model Context Protocol) tools, so that any
MCP-compatible agent can list, search, and inspect them.

Filters the API supports natively (rating, territory, device model, ...)
are pushed to the server; everything else (date windows, substring match,
version ranges) is applied locally while paginating.

Quick Start:
  storeconnect serve        Start the MCP server on stdio
  storeconnect tools        List the tools the server exposes
  storeconnect version      Print version information

Credentials come from APP_STORE_KEY_ID, APP_STORE_ISSUER_ID, and
APP_STORE_PRIVATE_KEY_PATH, optionally supplemented by a YAML config file.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
}
