package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plexatic/storeconnect/internal/domains"
	"github.com/plexatic/storeconnect/internal/domains/crashes"
	"github.com/plexatic/storeconnect/internal/domains/reviews"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools the server exposes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// No client needed to print the catalog.
		discard := slog.New(slog.NewTextHandler(io.Discard, nil))
		handlers := []domains.Handler{
			reviews.New(nil, 0, discard),
			crashes.New(nil, 0, discard),
		}
		for _, h := range handlers {
			fmt.Printf("%s:\n", h.Category())
			for _, t := range h.Tools() {
				fmt.Printf("  %-18s %s\n", t.Tool.Name, t.Tool.Description)
			}
			fmt.Println()
		}
	},
}
