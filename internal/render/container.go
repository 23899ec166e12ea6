package render

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"

	"newsletter-feed/internal/usecase/newsletter"
)

// DefaultContainerID names the element that hosts the fragment.
const DefaultContainerID = "newsletter-container"

// Wrap places fragment inside the named container element.
func Wrap(id string, fragment newsletter.Fragment) string {
	if id == "" {
		id = DefaultContainerID
	}
	return `<div id="` + template.HTMLEscapeString(id) + `" class="newsletter-container">` + string(fragment) + `</div>`
}

// MemoryContainer keeps the current fragment in memory for HTTP serving.
type MemoryContainer struct {
	id string

	mu        sync.RWMutex
	fragment  newsletter.Fragment
	updatedAt time.Time
}

var _ newsletter.Container = (*MemoryContainer)(nil)

// NewMemoryContainer creates an empty container named id.
func NewMemoryContainer(id string) *MemoryContainer {
	if id == "" {
		id = DefaultContainerID
	}
	return &MemoryContainer{id: id}
}

// ID returns the container element id.
func (c *MemoryContainer) ID() string { return c.id }

// Replace swaps the whole content.
func (c *MemoryContainer) Replace(_ context.Context, fragment newsletter.Fragment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fragment = fragment
	c.updatedAt = time.Now()
	return nil
}

// Current returns the content and when it was last replaced.
func (c *MemoryContainer) Current() (newsletter.Fragment, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fragment, c.updatedAt
}

// HTML returns the content wrapped in its container element.
func (c *MemoryContainer) HTML() string {
	fragment, _ := c.Current()
	return Wrap(c.id, fragment)
}

// FileContainer writes the wrapped fragment to a file, for inclusion by a
// static site. Readers never observe a partially written file.
type FileContainer struct {
	id   string
	path string
	mu   sync.Mutex
}

var _ newsletter.Container = (*FileContainer)(nil)

// NewFileContainer creates a container backed by path. The parent
// directory must exist.
func NewFileContainer(id, path string) (*FileContainer, error) {
	if path == "" {
		return nil, errors.New("output path is required")
	}
	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not a directory", filepath.Dir(path))
	}
	if id == "" {
		id = DefaultContainerID
	}
	return &FileContainer{id: id, path: path}, nil
}

// Path returns the output file path.
func (c *FileContainer) Path() string { return c.path }

// Replace writes the content to a temp file and renames it over the target.
func (c *FileContainer) Replace(ctx context.Context, fragment newsletter.Fragment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".newsletter-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.WriteString(Wrap(c.id, fragment) + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write fragment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod fragment: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}
