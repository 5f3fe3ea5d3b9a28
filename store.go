package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested private post or upload does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a SQLite database holding private posts and upload metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during admin writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS private_posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    post_date TEXT NOT NULL,
    post_description TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    creditbox TEXT NOT NULL DEFAULT '',
    thumbs TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const privateColumns = `slug, title, post_date, post_description, content, creditbox, thumbs`

type scanner interface {
	Scan(dest ...any) error
}

func scanPrivate(row scanner) (PrivatePost, error) {
	var p PrivatePost
	var thumbs string
	if err := row.Scan(&p.Slug, &p.Title, &p.Date, &p.Description, &p.Body, &p.Credits, &thumbs); err != nil {
		return PrivatePost{}, err
	}
	p.Thumbs = ParseList(thumbs)
	return p, nil
}

// ListPrivate returns every private post ordered by date descending.
func (s *Store) ListPrivate(ctx context.Context) ([]PrivatePost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+privateColumns+` FROM private_posts ORDER BY post_date DESC, slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []PrivatePost
	for rows.Next() {
		p, err := scanPrivate(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPrivate returns a single private post by slug.
func (s *Store) GetPrivate(ctx context.Context, slug string) (PrivatePost, error) {
	p, err := scanPrivate(s.db.QueryRowContext(ctx, `SELECT `+privateColumns+` FROM private_posts WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return PrivatePost{}, ErrNotFound
	}
	return p, err
}

// SavePrivate upserts a private post.
func (s *Store) SavePrivate(ctx context.Context, p PrivatePost) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO private_posts (`+privateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Date, p.Description, p.Body, p.Credits, JoinList(p.Thumbs))
	return err
}

// DeletePrivate removes a private post by slug.
func (s *Store) DeletePrivate(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM private_posts WHERE slug = ?`, slug)
	return err
}

// SaveImage records upload metadata.
func (s *Store) SaveImage(ctx context.Context, u Upload) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.Filename, u.OriginalName, u.Width, u.Height, u.Size, u.UploadedAt)
	return err
}

// ListImages returns upload metadata, newest first.
func (s *Store) ListImages(ctx context.Context) ([]Upload, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.Filename, &u.OriginalName, &u.Width, &u.Height, &u.Size, &u.UploadedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// DeleteImage removes upload metadata.
func (s *Store) DeleteImage(ctx context.Context, filename string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// ParseList splits a comma-delimited list (e.g. ",a,b,") into a slice.
func ParseList(list string) []string {
	list = strings.Trim(list, ",")
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return FilterEmpty(parts)
}

// JoinList is the inverse of ParseList.
func JoinList(items []string) string {
	items = FilterEmpty(items)
	if len(items) == 0 {
		return ""
	}
	return "," + strings.Join(items, ",") + ","
}
