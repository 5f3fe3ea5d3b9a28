package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/cms"
	"github.com/eringen/folio/scaffold"
)

var (
	newKind        string
	newContentDir  string
	newDescription string
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new post in the local content directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		slug := folio.Slugify(title)
		if slug == "" {
			return fmt.Errorf("title %q has no usable slug", title)
		}
		path, err := writePost(newContentDir, scaffold.PostData{
			Title:       title,
			Slug:        slug,
			Date:        time.Now().Format("2006-01-02"),
			Description: newDescription,
			Kind:        newKind,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\nAdd %q to a collection in %s to publish it.\n",
			path, slug, filepath.Join(newContentDir, cms.IndexFile))
		return nil
	},
}

// writePost renders a post into <dir>/posts/<slug>.yaml, refusing to
// overwrite an existing file.
func writePost(dir string, data scaffold.PostData) (string, error) {
	path := filepath.Join(dir, cms.PostsDir, data.Slug+".yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("post %s already exists", path)
	}
	if err != nil {
		return "", err
	}
	if err := scaffold.Post(f, data); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func init() {
	newCmd.Flags().StringVar(&newKind, "kind", "work", "post kind: work, blog or about")
	newCmd.Flags().StringVar(&newContentDir, "content", "content", "content directory")
	newCmd.Flags().StringVar(&newDescription, "description", "", "short description")
	rootCmd.AddCommand(newCmd)
}
