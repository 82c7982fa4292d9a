package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/marcus/notehub/internal/api"
	"github.com/marcus/notehub/internal/styles"
)

var (
	getJSON bool
	getRaw  bool
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a single note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, svc, _ := cliSetup()

		note, err := svc.GetNote(context.Background(), args[0])
		if errors.Is(err, api.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Note %q not found.\n", args[0])
			os.Exit(1)
		}
		if err != nil {
			fatal("Error reading note", err)
		}

		if getJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(note); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		fmt.Printf("# %s\n", note.Title)
		if note.Tag != "" {
			fmt.Printf("Tag: %s\n", note.Tag)
		}
		if !note.CreatedAt.IsZero() {
			fmt.Printf("Created: %s\n", note.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		if note.WasEdited() {
			fmt.Printf("Updated: %s\n", note.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println()

		if getRaw {
			fmt.Println(note.Content)
			return
		}
		out, err := glamour.Render(note.Content, styles.MarkdownTheme)
		if err != nil {
			fmt.Println(note.Content)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().BoolVar(&getJSON, "json", false, "Output in JSON format")
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "Print content without markdown rendering")
}
