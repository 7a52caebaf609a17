// Package dataset loads the institution, program and dictionary tables the
// explorer works on. Each table is read from an ordered chain of sources
// (Postgres, local file, remote URL); the first one that succeeds wins.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
)

// ErrSourceUnavailable is returned when a source cannot be read at all.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source produces one table.
type Source interface {
	// Name identifies the source in logs, e.g. "file:reportcard.csv".
	Name() string
	Load(ctx context.Context) (*core.Table, error)
}

// FileSource reads a CSV from the local filesystem.
type FileSource struct {
	Path     string
	MaxBytes int64
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) (*core.Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	return ReadCSV(ctx, f, s.MaxBytes)
}

// HTTPSource downloads a CSV. A nil Client uses http.DefaultClient.
type HTTPSource struct {
	URL      string
	Client   *http.Client
	MaxBytes int64
}

func (s HTTPSource) Name() string { return "url:" + s.URL }

func (s HTTPSource) Load(ctx context.Context) (*core.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrSourceUnavailable, s.URL, resp.Status)
	}
	if s.MaxBytes > 0 && resp.ContentLength > s.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, resp.ContentLength, s.MaxBytes)
	}

	return ReadCSV(ctx, resp.Body, s.MaxBytes)
}

// Chain builds the usual fallback order for one table: the local file first,
// then the remote URL. Empty locations are skipped.
func Chain(path, url string, client *http.Client, maxBytes int64) []Source {
	var out []Source
	if path != "" {
		out = append(out, FileSource{Path: path, MaxBytes: maxBytes})
	}
	if url != "" {
		out = append(out, HTTPSource{URL: url, Client: client, MaxBytes: maxBytes})
	}
	return out
}

// LoadFirst tries each source in order and returns the first table that
// loads, together with the name of the source that produced it. Every failed
// attempt is logged. If none succeed the error wraps ErrSourceUnavailable and
// every attempt's error.
func LoadFirst(ctx context.Context, table string, sources []Source) (*core.Table, string, error) {
	if len(sources) == 0 {
		return nil, "", fmt.Errorf("%w: %s: no sources configured", ErrSourceUnavailable, table)
	}

	var errs []error
	for _, src := range sources {
		log := logging.WithFields(ctx, "table", table, "source", src.Name())
		start := time.Now()

		t, err := src.Load(ctx)
		if err == nil {
			log.Info("source loaded",
				"rows", t.Len(),
				"columns", t.Width(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return t, src.Name(), nil
		}

		log.Warn("source failed", "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", fmt.Errorf("load %s: %w", table, ctxErr)
		}
	}

	return nil, "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, table, errors.Join(errs...))
}
