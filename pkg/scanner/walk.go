package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// collectFiles walks root and returns the paths eligible for validation.
// Phase 1 of a corpus run: fast and sequential, no file contents are read.
func collectFiles(ctx context.Context, root string, cfg Config) ([]string, error) {
	ignore := gitignore.CompileIgnoreLines(cfg.Excludes...)

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path == root {
				return nil
			}
			if !cfg.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			if ignore.MatchesPath(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if !cfg.IncludeHidden && isHidden(info.Name()) {
			return nil
		}
		if !eligibleExtension(path, cfg.Extensions) {
			return nil
		}
		if cfg.MaxFileSize > 0 && info.Size() > cfg.MaxFileSize {
			return nil
		}
		if ignore.MatchesPath(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// eligibleExtension reports whether path carries one of the configured
// extensions, compared case-insensitively.
func eligibleExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
