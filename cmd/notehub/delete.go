package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/notehub/internal/api"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note from the service.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		_, svc, _ := cliSetup()

		if !deleteYes {
			note, err := svc.GetNote(context.Background(), id)
			if errors.Is(err, api.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Note %q not found.\n", id)
				os.Exit(1)
			}
			if err != nil {
				fatal("Error reading note", err)
			}
			if !confirm(fmt.Sprintf("Delete %q? [y/N] ", note.Title)) {
				fmt.Println("Cancelled.")
				return
			}
		}

		if _, err := svc.DeleteNote(context.Background(), id); err != nil {
			fatal("Error deleting note", err)
		}
	},
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}
