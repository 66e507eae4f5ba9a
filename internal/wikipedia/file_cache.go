package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// FileCache decorates a Lookup with a per-topic JSON file cache so repeated
// topics skip the network. Not-found results are not cached.
type FileCache struct {
	rootDir string
	lookup  Lookup
}

var _ Lookup = (*FileCache)(nil)

func NewFileCache(cacheDirectory string, lookup Lookup) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
		lookup:  lookup,
	}
}

func (cache *FileCache) filePath(topic string) string {
	return filepath.Join(cache.rootDir, cacheKey(topic)+".json")
}

// cacheKey normalizes a topic into a safe file name
func cacheKey(topic string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(topic)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune('_')
		}
	}
	return builder.String()
}

// Summary implements the Lookup interface. Cache failures never mask a
// working lookup: unreadable entries fall through to the wrapped lookup and
// write failures only log.
func (cache *FileCache) Summary(ctx context.Context, topic string) (Article, error) {
	localFilePath := cache.filePath(topic)
	if _, err := os.Stat(localFilePath); err == nil {
		article, err := cache.read(localFilePath)
		if err == nil {
			return article, nil
		}
		slog.Default().Warn("ignoring unreadable cache entry",
			"path", localFilePath,
			"error", err,
		)
	}

	article, err := cache.lookup.Summary(ctx, topic)
	if err != nil {
		return Article{}, err
	}

	if err := cache.write(localFilePath, article); err != nil {
		slog.Default().Warn("failed to cache article",
			"path", localFilePath,
			"error", err,
		)
	}
	return article, nil
}

func (cache *FileCache) read(localFilePath string) (Article, error) {
	file, err := os.Open(localFilePath)
	if err != nil {
		return Article{}, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return Article{}, fmt.Errorf("io.ReadAll > %w", err)
	}

	var article Article
	if err := json.Unmarshal(contents, &article); err != nil {
		return Article{}, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return article, nil
}

func (cache *FileCache) write(localFilePath string, article Article) error {
	if err := os.MkdirAll(cache.rootDir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}

	contents, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}

	file, err := os.Create(localFilePath)
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	return nil
}
