// Package fileaccess defines the file-access contract (component C1): a
// uniform, read-only view over a package's file tree that hides whether
// the package lives on a local disk, inside an archive, or in an object
// store. Production backends are external collaborators (spec section 1)
// — this package defines only the contract, the path-normalization rules
// every backend must follow, and a small in-memory implementation used by
// this module's own tests.
package fileaccess

import (
	"io"

	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
)

// FileAccess is the uniform, read-only view over a package's file tree.
// All path arguments are forward-slash, relative to the package root; a
// leading "/" denotes root-absolute and is stripped by FullPath.
type FileAccess interface {
	// RootPath returns the backend's configured root path, used only for
	// constructing full paths — callers should otherwise treat it as
	// opaque.
	RootPath() string

	// FileExists reports whether path names a file or directory that
	// exists.
	FileExists(path string) (bool, error)

	// ListFiles lists the immediate contents of directory (not
	// recursive). Fails with *errors.FileError (IO) on backend failure.
	ListFiles(directory string) ([]string, error)

	// Open returns a stream for path's content. The caller must Close it.
	// Fails with *errors.FileError (NotFound or IO).
	Open(path string) (io.ReadCloser, error)
}

// BatchChecker is an optional capability: a backend that can check many
// paths more efficiently than one FileExists call per path implements it.
// DefaultListFilesBatch falls back to the naive loop when a FileAccess
// does not implement this interface.
type BatchChecker interface {
	ListFilesBatch(paths []string) (map[string]bool, error)
}

// AllFilesLister is an optional capability for backends that can
// enumerate every file in the package faster than a recursive ListFiles
// walk starting at "".
type AllFilesLister interface {
	GetAllFiles() ([]string, error)
}

// SizeReporter is an optional capability: backends that can report total
// package size without reading every file implement it. Used by
// ParserOptions.CalculateModuleSize.
type SizeReporter interface {
	TotalSize() (uint64, bool)
}

// Prefetcher is an optional capability: backends that benefit from
// warming a cache of commonly-read files (imsmanifest.xml, cmi5.xml,
// tincan.xml, the AICC table files) before the parse begins implement it.
type Prefetcher interface {
	PrefetchCommonFiles()
}

// FullPath implements spec 4.1's normalization rule: a leading "/"
// denotes root-absolute and is stripped; otherwise the path is joined
// onto the backend's root (unless the root is empty, in which case the
// path is returned unchanged).
func FullPath(fa FileAccess, path string) string {
	if path == "" {
		return fa.RootPath()
	}
	if path[0] == '/' {
		return path[1:]
	}
	root := fa.RootPath()
	if root == "" {
		return path
	}
	return root + "/" + path
}

// ListFilesBatch checks many paths at once, using the backend's own
// BatchChecker implementation when available and falling back to one
// FileExists call per path otherwise (spec 4.1's stated default).
func ListFilesBatch(fa FileAccess, paths []string) (map[string]bool, error) {
	if bc, ok := fa.(BatchChecker); ok {
		return bc.ListFilesBatch(paths)
	}
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		exists, err := fa.FileExists(p)
		if err != nil {
			return nil, err
		}
		out[p] = exists
	}
	return out, nil
}

// GetAllFiles enumerates every file in the package, using the backend's
// own AllFilesLister when available and falling back to ListFiles("")
// otherwise (spec 4.1's stated default).
func GetAllFiles(fa FileAccess) ([]string, error) {
	if al, ok := fa.(AllFilesLister); ok {
		return al.GetAllFiles()
	}
	return fa.ListFiles("")
}

// TotalSize reports the package's total size when the backend supports
// it; (0, false) otherwise (spec 4.1's "unsupported" default).
func TotalSize(fa FileAccess) (uint64, bool) {
	if sr, ok := fa.(SizeReporter); ok {
		return sr.TotalSize()
	}
	return 0, false
}

// PrefetchCommonFiles warms the backend's cache when it supports it; a
// no-op otherwise (spec 4.1's stated default).
func PrefetchCommonFiles(fa FileAccess) {
	if p, ok := fa.(Prefetcher); ok {
		p.PrefetchCommonFiles()
	}
}

// RequireNonEmptyPath is the ArgumentError guard every FileAccess
// operation in spec 4.1 requires ("all require non-null paths; null
// yields an argument error"). Go has no null string, so the empty string
// is treated as the disallowed sentinel, except where a path legitimately
// means "the package root" (ListFiles("") is explicitly valid).
func RequireNonEmptyPath(path, argName string) error {
	if path == "" {
		return lcierrors.NewArgumentError(argName, "path must not be empty")
	}
	return nil
}

// DetectArchiveRoot implements spec 4.1's multi-top-level-directory rule
// for archive-style backends: given every entry path in an archive, it
// returns the single common first path segment all entries share, or ""
// if two or more distinct first segments appear (in which case the
// archive must be treated as root-less and listed from its own root
// directly).
func DetectArchiveRoot(entryPaths []string) string {
	seen := make(map[string]struct{}, 1)
	for _, p := range entryPaths {
		if p == "" {
			continue
		}
		seg := p
		for i, r := range p {
			if r == '/' {
				seg = p[:i]
				break
			}
		}
		if seg == "" {
			continue
		}
		if _, ok := seen[seg]; !ok {
			seen[seg] = struct{}{}
			if len(seen) > 1 {
				return ""
			}
		}
	}
	for seg := range seen {
		return seg
	}
	return ""
}
