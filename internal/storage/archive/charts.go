package archive

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// Charts files rendered PNGs as charts/<SYMBOL>/<period>/<unix>.png.
type Charts struct {
	store Storage
	keep  int
}

// ChartsOption configures Charts.
type ChartsOption func(*Charts)

// WithRetention keeps at most n charts per symbol and period. Zero keeps
// everything.
func WithRetention(n int) ChartsOption {
	return func(c *Charts) { c.keep = n }
}

// NewCharts wraps a Storage backend.
func NewCharts(store Storage, opts ...ChartsOption) *Charts {
	c := &Charts{store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChartPath returns the archive path for a chart rendered at ts.
func ChartPath(symbol, period string, ts time.Time) string {
	return path.Join("charts", pathSegment(symbol), pathSegment(period), fmt.Sprintf("%d.png", ts.Unix()))
}

// Save stores a chart and returns its path. With retention set, older
// charts for the same symbol and period beyond the limit are removed.
func (c *Charts) Save(ctx context.Context, symbol, period string, png []byte, ts time.Time) (string, error) {
	p := ChartPath(symbol, period, ts)
	if err := c.store.Write(ctx, p, png); err != nil {
		return "", fmt.Errorf("archiving chart %s: %w", p, err)
	}
	if c.keep > 0 {
		if err := c.prune(ctx, symbol, period); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Latest returns the most recent chart for symbol and period. ok is false
// when none has been archived.
func (c *Charts) Latest(ctx context.Context, symbol, period string) (png []byte, ok bool, err error) {
	paths, err := c.list(ctx, symbol, period)
	if err != nil {
		return nil, false, err
	}
	if len(paths) == 0 {
		return nil, false, nil
	}

	data, err := c.store.Read(ctx, paths[len(paths)-1])
	if err != nil {
		return nil, false, fmt.Errorf("reading chart: %w", err)
	}
	return data, true, nil
}

func (c *Charts) prune(ctx context.Context, symbol, period string) error {
	paths, err := c.list(ctx, symbol, period)
	if err != nil {
		return err
	}
	for len(paths) > c.keep {
		if err := c.store.Delete(ctx, paths[0]); err != nil {
			return fmt.Errorf("pruning chart %s: %w", paths[0], err)
		}
		paths = paths[1:]
	}
	return nil
}

// list returns the archived chart paths for symbol and period, oldest first.
func (c *Charts) list(ctx context.Context, symbol, period string) ([]string, error) {
	prefix := path.Join("charts", pathSegment(symbol), pathSegment(period))
	paths, err := c.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing charts: %w", err)
	}
	sort.Slice(paths, func(i, j int) bool { return chartStamp(paths[i]) < chartStamp(paths[j]) })
	return paths, nil
}

// pathSegment keeps a user-derived value from escaping its directory.
func pathSegment(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
	if s == "" {
		return "_"
	}
	return s
}

func chartStamp(p string) int64 {
	var ts int64
	fmt.Sscanf(path.Base(p), "%d.png", &ts)
	return ts
}
