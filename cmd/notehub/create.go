package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/notehub/internal/api"
)

var (
	createTitle   string
	createContent string
	createTag     string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Long: `Create a note. Content is read from stdin when --content is "-".

Tags: ` + strings.Join(api.Tags, ", "),
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content := createContent
		if content == "-" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Error reading stdin", err)
			}
			content = string(b)
		}

		_, svc, _ := cliSetup()
		note, err := svc.CreateNote(context.Background(), api.CreateParams{
			Title:   createTitle,
			Content: content,
			Tag:     normalizeTag(createTag),
		})
		if err != nil {
			fatal("Error creating note", err)
		}
		fmt.Println(note.ID)
	},
}

// normalizeTag fixes the case of a known tag. Anything else goes to the
// service unchanged; an empty tag is omitted from the request.
func normalizeTag(tag string) string {
	for _, t := range api.Tags {
		if strings.EqualFold(t, tag) {
			return t
		}
	}
	return tag
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createTitle, "title", "", "Note title")
	createCmd.Flags().StringVar(&createContent, "content", "", `Note content, or "-" for stdin`)
	createCmd.Flags().StringVar(&createTag, "tag", "", "Note tag (optional)")
	_ = createCmd.MarkFlagRequired("title")
}
