// Package blob stores run artefacts (allocation CSVs, input workbooks) on the
// local filesystem or in an S3-compatible bucket behind one small interface.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrInvalidKey is returned for empty, absolute or path-traversing keys.
	ErrInvalidKey = errors.New("blob: invalid key")

	// ErrNotFound is returned by Get for a missing object.
	ErrNotFound = errors.New("blob: not found")

	// ErrBadTarget is returned by Open for a target it cannot interpret.
	ErrBadTarget = errors.New("blob: bad target")
)

// Store is the artefact sink. Put overwrites existing keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
	// Location renders key the way a user would address it (path or s3:// URL).
	Location(key string) string
}

// Open interprets target as either "s3://bucket[/prefix]" or a directory path.
// base supplies region, endpoint and credentials for the S3 case; its Bucket and
// Prefix are taken from the URL.
func Open(ctx context.Context, target string, base S3Config) (Store, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("blob: Open: empty target: %w", ErrBadTarget)
	}
	if !strings.HasPrefix(target, "s3://") {
		return NewDir(target)
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("blob: Open(%q): %v: %w", target, err, ErrBadTarget)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("blob: Open(%q): missing bucket: %w", target, ErrBadTarget)
	}
	base.Bucket = u.Host
	base.Prefix = strings.Trim(u.Path, "/")
	return NewS3(ctx, base)
}

// cleanKey rejects keys that would escape a root and normalises separators.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

// Dir is a Store rooted at a local directory.
type Dir struct {
	root string
}

var _ Store = (*Dir)(nil)

// NewDir returns a Dir rooted at root, creating it if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: NewDir(%q): %w", root, err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory the store writes into.
func (d *Dir) Root() string { return d.root }

// Location implements Store.
func (d *Dir) Location(key string) string { return filepath.Join(d.root, filepath.FromSlash(key)) }

// Put writes through a temp file and renames it into place.
func (d *Dir) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	k, err := cleanKey(key)
	if err != nil {
		return fmt.Errorf("blob: Dir.Put: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path := d.Location(k)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("blob: Dir.Put(%q): %w", key, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("blob: Dir.Put(%q): %w", key, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("blob: Dir.Put(%q): %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("blob: Dir.Put(%q): %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("blob: Dir.Put(%q): %w", key, err)
	}
	return nil
}

// Get implements Store.
func (d *Dir) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, fmt.Errorf("blob: Dir.Get: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.Location(k))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob: Dir.Get(%q): %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("blob: Dir.Get(%q): %w", key, err)
	}
	return f, nil
}

// List returns the sorted keys under prefix, skipping temp files.
func (d *Dir) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(d.root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		k := filepath.ToSlash(rel)
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blob: Dir.List(%q): %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}
