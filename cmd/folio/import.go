package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/scaffold"
)

var (
	importPrivate    bool
	importKind       string
	importSlug       string
	importDate       string
	importContentDir string
)

var importCmd = &cobra.Command{
	Use:   "import <file.md>",
	Short: "Import a Markdown file as a post",
	Long: `Import converts a Markdown file into a post. The first "# " heading
becomes the title. By default the post is written to the local content
directory; with --private it is stored in the private works database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		title, body := splitTitle(src)
		if title == "" {
			title = scaffold.Title(strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])))
		}
		slug := importSlug
		if slug == "" {
			slug = folio.Slugify(title)
		}
		date := importDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date %q: %w", date, err)
		}

		blocks := content.FromMarkdown([]byte(body))
		description := firstSentence(content.PlainText(blocks))
		out := cmd.OutOrStdout()

		if importPrivate {
			if err := importPrivatePost(cmd.Context(), folio.PrivatePost{
				Slug:        slug,
				Title:       title,
				Date:        date,
				Description: description,
				Body:        body,
			}); err != nil {
				return err
			}
			fmt.Fprintf(out, "imported private work %q (%d blocks)\n", slug, len(blocks))
			return nil
		}

		path, err := writePost(importContentDir, scaffold.PostData{
			Title:       title,
			Slug:        slug,
			Date:        date,
			Description: description,
			Kind:        importKind,
			Body:        body,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %s (%d blocks)\n", path, len(blocks))
		return nil
	},
}

func importPrivatePost(ctx context.Context, p folio.PrivatePost) error {
	cfg, err := folio.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return err
	}
	store, err := folio.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SavePrivate(ctx, p)
}

// splitTitle removes a leading "# " heading from src and returns it.
func splitTitle(src []byte) (string, string) {
	sc := bufio.NewScanner(bytes.NewReader(src))
	var lines []string
	title := ""
	for sc.Scan() {
		line := sc.Text()
		if title == "" && len(lines) == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		if title == "" && len(lines) == 0 && strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			continue
		}
		lines = append(lines, line)
	}
	return title, strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".!?\n"); i >= 0 {
		s = s[:i+1]
	}
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 160 {
		s = string(r[:157]) + "..."
	}
	return s
}

func init() {
	importCmd.Flags().BoolVar(&importPrivate, "private", false, "store as a private work in the database")
	importCmd.Flags().StringVar(&importKind, "kind", "work", "post kind for local content")
	importCmd.Flags().StringVar(&importSlug, "slug", "", "slug (default derived from the title)")
	importCmd.Flags().StringVar(&importDate, "date", "", "publication date, YYYY-MM-DD (default today)")
	importCmd.Flags().StringVar(&importContentDir, "content", "content", "content directory")
	rootCmd.AddCommand(importCmd)
}
