// Package loader reads record definition documents. A ref is a local path
// or, when a client is configured, an HTTP(S) URL.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/goliatone/go-structbuilder/pkg/definition"
)

// Option configures a Loader.
type Option func(*Loader)

// WithFS makes path refs resolve inside the given filesystem instead of the
// OS, e.g. an embedded definition bundle.
func WithFS(files fs.FS) Option {
	return func(l *Loader) {
		l.files = files
	}
}

// WithHTTPClient enables URL refs, fetched with the given client. Callers
// should bound the client with a timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.http = client
	}
}

// Loader resolves definition refs into Documents. Without options it reads
// local files only.
type Loader struct {
	files fs.FS
	http  *http.Client
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load fetches the ref and wraps the payload in a Document named after it.
func (l *Loader) Load(ctx context.Context, ref string) (definition.Document, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return definition.Document{}, errors.New("loader: ref is empty")
	}
	if err := ctx.Err(); err != nil {
		return definition.Document{}, err
	}

	var (
		data []byte
		err  error
	)
	if isURL(ref) {
		data, err = l.fetch(ctx, ref)
	} else {
		data, err = l.read(ref)
	}
	if err != nil {
		return definition.Document{}, err
	}
	return definition.NewDocument(ref, data)
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (l *Loader) read(path string) ([]byte, error) {
	if l.files != nil {
		return fs.ReadFile(l.files, path)
	}
	return os.ReadFile(path)
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	if l.http == nil {
		return nil, fmt.Errorf("loader: %s: URL refs need WithHTTPClient", ref)
	}
	if _, err := url.ParseRequestURI(ref); err != nil {
		return nil, fmt.Errorf("loader: invalid URL %q: %w", ref, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("loader: fetch %s: unexpected status %s", ref, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
