package archetype

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	getter "github.com/hashicorp/go-getter"
)

// Fetch downloads the catalog document at src (any go-getter source: http,
// git::, s3::, local paths) to dst.
func Fetch(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := getter.GetFile(dst, src, getter.WithContext(ctx)); err != nil {
		return fmt.Errorf("fetch catalog %s: %w", src, err)
	}
	return nil
}

// Open returns the catalog named by src. An empty src yields the embedded
// default. An existing local file is read directly; anything else is fetched
// into cacheDir first.
func Open(ctx context.Context, src, cacheDir string) (*Catalog, error) {
	if src == "" {
		return Default(), nil
	}
	if st, err := os.Stat(src); err == nil && !st.IsDir() {
		return Load(src)
	}
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	dst := filepath.Join(cacheDir, "archetypes.yaml")
	if err := Fetch(ctx, src, dst); err != nil {
		return nil, err
	}
	return Load(dst)
}
