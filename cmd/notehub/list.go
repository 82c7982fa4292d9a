package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/marcus/notehub/internal/api"
)

var (
	listJSON    bool
	listPage    int
	listPerPage int
	listSearch  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, svc, _ := cliSetup()
		perPage := listPerPage
		if perPage <= 0 {
			perPage = cfg.Notes.PerPage
		}

		list, err := svc.ListNotes(context.Background(), api.ListParams{Page: listPage, PerPage: perPage, Search: listSearch})
		if err != nil {
			fatal("Error listing notes", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(list); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(list.Notes) == 0 {
			if listSearch != "" {
				fmt.Printf("No notes match %q.\n", listSearch)
			} else {
				fmt.Println("No notes.")
			}
			return
		}
		for _, n := range list.Notes {
			fmt.Println(formatRow(n))
		}
		if list.TotalPages > 1 {
			fmt.Printf("\nPage %d of %d\n", list.Page, list.TotalPages)
		}
	},
}

func formatRow(n api.Note) string {
	title := runewidth.FillRight(runewidth.Truncate(n.Title, 32, "…"), 32)
	tag := runewidth.FillRight(n.Tag, 9)
	snippet := runewidth.Truncate(strings.Join(strings.Fields(n.Content), " "), 48, "…")
	return strings.TrimRight(fmt.Sprintf("%-24s  %s  %s  %s", n.ID, title, tag, snippet), " ")
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number (1-based)")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Notes per page (default from config)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only notes matching this text")
}
