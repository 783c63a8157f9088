package fragment

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"hbnb_web/internal/domain"
)

// NewSource opens http(s) URLs with hc and everything else from fsys.
func NewSource(fsys fs.FS, hc *http.Client) domain.FragmentSource {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &source{fsys: fsys, hc: hc}
}

type source struct {
	fsys fs.FS
	hc   *http.Client
}

func (s *source) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return s.fetch(ctx, src)
	}
	if s.fsys == nil {
		return nil, fmt.Errorf("fragment %s: no filesystem configured", src)
	}
	return s.fsys.Open(strings.TrimPrefix(src, "/"))
}

func (s *source) fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fragment %s: %w", src, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("fragment %s: status %d", src, resp.StatusCode)
	}
	return resp.Body, nil
}
