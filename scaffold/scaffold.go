// Package scaffold provides the embedded templates the folio CLI uses to
// create a new site and new local content posts.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

const siteRoot = "templates/site"

// SiteData holds the variables passed to the site templates.
type SiteData struct {
	Name  string // directory name
	Title string // site name shown in the header
}

// PostData holds the variables passed to the post template.
type PostData struct {
	Title       string
	Slug        string
	Date        string
	Description string
	Kind        string
	Body        string
}

// Site renders the site templates into dir, which must not exist yet.
// created is called with each written file path.
func Site(dir string, data SiteData, created func(path string)) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}
	return fs.WalkDir(Templates, siteRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(siteRoot, path)
		if err != nil {
			return err
		}
		out := strings.TrimSuffix(filepath.Join(dir, rel), ".tmpl")
		if filepath.Base(out) == "dotenv" {
			out = filepath.Join(filepath.Dir(out), ".env.example")
		}
		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}
		if err := renderFile(path, out, data); err != nil {
			return err
		}
		if created != nil {
			created(out)
		}
		return nil
	})
}

func renderFile(src, out string, data any) error {
	raw, err := Templates.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	tmpl, err := template.New(filepath.Base(src)).Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parse template %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("execute template %s: %w", src, err)
	}
	return nil
}

// Post writes a new post document to w.
func Post(w io.Writer, data PostData) error {
	if data.Kind == "" {
		data.Kind = "work"
	}
	tmpl, err := template.New("post.yaml.tmpl").Funcs(template.FuncMap{
		"indent": indent,
		"quote":  quote,
	}).ParseFS(Templates, "templates/post.yaml.tmpl")
	if err != nil {
		return fmt.Errorf("parse post template: %w", err)
	}
	return tmpl.Execute(w, data)
}

func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// quote renders s as a double-quoted YAML scalar.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// Title converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-folio" -> "My Folio"
func Title(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
