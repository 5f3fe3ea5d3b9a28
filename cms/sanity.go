package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/folio/content"
)

// DefaultAPIVersion is the dated API version queried.
const DefaultAPIVersion = "2023-10-01"

// SanityConfig identifies a Sanity dataset.
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
}

// Sanity queries a Sanity dataset with GROQ.
type Sanity struct {
	cfg        SanityConfig
	baseURL    string
	httpClient *http.Client
}

// SanityOption configures a Sanity client.
type SanityOption func(*Sanity)

// WithBaseURL overrides the API host, e.g. for tests.
func WithBaseURL(u string) SanityOption {
	return func(s *Sanity) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) SanityOption {
	return func(s *Sanity) { s.httpClient = c }
}

// NewSanity creates a client for cfg.
func NewSanity(cfg SanityConfig, opts ...SanityOption) *Sanity {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	host := "api"
	if cfg.UseCDN && cfg.Token == "" {
		host = "apicdn"
	}
	s := &Sanity{
		cfg:     cfg,
		baseURL: fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, host),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const postProjection = `{
	title,
	"slug": slug.current,
	postDate,
	postImage{ asset, alt },
	postDescription,
	postAuthor,
	content[]{ ... },
	creditbox[]{ ... }
}`

const previewProjection = `{
	title,
	"slug": slug.current,
	postDate,
	postImage{ asset, alt },
	postDescription,
	postAuthor,
	"images": content[_type == "image"]{ _type, _key, asset, alt }
}`

// Collection implements Source.
func (s *Sanity) Collection(ctx context.Context, docType, field string) ([]content.Post, error) {
	if err := validIdent(field); err != nil {
		return nil, err
	}
	q := `*[_type == $type][0].` + field + `[]->` + previewProjection + ` | order(postDate desc)`
	var docs []document
	if err := s.query(ctx, q, map[string]any{"type": docType}, &docs); err != nil {
		return nil, fmt.Errorf("fetch %s posts: %w", docType, err)
	}
	posts := make([]content.Post, 0, len(docs))
	for _, d := range docs {
		p, err := d.post()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// Post implements Source.
func (s *Sanity) Post(ctx context.Context, slug string) (*content.Post, error) {
	q := `*[_type == "post" && slug.current == $slug][0]` + postProjection
	var doc *document
	if err := s.query(ctx, q, map[string]any{"slug": slug}, &doc); err != nil {
		return nil, fmt.Errorf("fetch post %s: %w", slug, err)
	}
	if doc == nil {
		return nil, nil
	}
	p, err := doc.post()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// About implements Source.
func (s *Sanity) About(ctx context.Context) (*content.Post, error) {
	q := `*[_type == "about"][0]{ aboutPost->` + postProjection + ` }`
	var res *struct {
		AboutPost *document `json:"aboutPost"`
	}
	if err := s.query(ctx, q, nil, &res); err != nil {
		return nil, fmt.Errorf("fetch about: %w", err)
	}
	if res == nil || res.AboutPost == nil {
		return nil, nil
	}
	p, err := res.AboutPost.post()
	if err != nil {
		return nil, err
	}
	p.Kind = content.KindAbout
	return &p, nil
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// query runs a GROQ query. Parameters are JSON-encoded as $name values.
func (s *Sanity) query(ctx context.Context, groq string, params map[string]any, result any) error {
	v := url.Values{}
	v.Set("query", groq)
	for name, val := range params {
		enc, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("encode param %s: %w", name, err)
		}
		v.Set("$"+name, string(enc))
	}
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s", s.baseURL, s.cfg.APIVersion, url.PathEscape(s.cfg.Dataset), v.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("query failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if qr.Error != nil {
		return fmt.Errorf("query error: %s", qr.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("query failed with status %d", resp.StatusCode)
	}
	if len(qr.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(qr.Result, result); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
