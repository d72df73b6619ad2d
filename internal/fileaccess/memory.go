package fileaccess

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
)

// MemFileAccess is an in-memory FileAccess used by this module's own test
// suite and by callers who already have a package's files loaded into
// memory (e.g. after extracting a small archive upstream). It is not a
// production backend — those are external collaborators per spec section
// 1 — but it fully implements the optional capabilities (BatchChecker,
// AllFilesLister, SizeReporter) so the orchestrator's optional-feature
// paths have something real to exercise in tests.
type MemFileAccess struct {
	root        string
	files       map[string][]byte
	order       []string // insertion order, for stable ListFiles output
	ignoreGlobs []string
}

// NewMemFileAccess builds a MemFileAccess rooted at root with the given
// path->content map. ignoreGlobs, if non-empty, are doublestar patterns
// (e.g. "**/*.tmp") excluded from ListFiles/GetAllFiles — the same glob
// dialect a local-filesystem backend would use for its own ignore rules.
func NewMemFileAccess(root string, files map[string][]byte, ignoreGlobs ...string) *MemFileAccess {
	m := &MemFileAccess{root: root, files: make(map[string][]byte, len(files)), ignoreGlobs: ignoreGlobs}
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.files[k] = files[k]
		m.order = append(m.order, k)
	}
	return m
}

// Identity returns a stable hash of (root path, sorted file list),
// suitable as a Package identity key (spec 3: "Identity is (backend,
// root-path)") or as a quick round-trip check in tests.
func (m *MemFileAccess) Identity() uint64 {
	h := xxhash.New()
	_, _ = h.Write([]byte(m.root))
	for _, p := range m.order {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	return h.Sum64()
}

func (m *MemFileAccess) RootPath() string { return m.root }

func (m *MemFileAccess) ignored(path string) bool {
	for _, g := range m.ignoreGlobs {
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
	}
	return false
}

func (m *MemFileAccess) FileExists(path string) (bool, error) {
	if err := RequireNonEmptyPath(path, "path"); err != nil {
		return false, err
	}
	full := FullPath(m, path)
	if m.ignored(full) {
		return false, nil
	}
	if _, ok := m.files[full]; ok {
		return true, nil
	}
	// directory existence: true if any loaded file is nested under it
	prefix := strings.TrimSuffix(full, "/") + "/"
	for _, p := range m.order {
		if strings.HasPrefix(p, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemFileAccess) ListFiles(directory string) ([]string, error) {
	full := FullPath(m, directory)
	prefix := ""
	if full != "" {
		prefix = strings.TrimSuffix(full, "/") + "/"
	}
	var out []string
	for _, p := range m.order {
		if m.ignored(p) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if rest == p && prefix != "" {
			continue // not under this directory
		}
		if strings.Contains(rest, "/") {
			continue // nested deeper, not an immediate child
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *MemFileAccess) GetAllFiles() ([]string, error) {
	var out []string
	for _, p := range m.order {
		if !m.ignored(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemFileAccess) ListFilesBatch(paths []string) (map[string]bool, error) {
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		ok, err := m.FileExists(p)
		if err != nil {
			return nil, err
		}
		out[p] = ok
	}
	return out, nil
}

func (m *MemFileAccess) TotalSize() (uint64, bool) {
	var total uint64
	for _, content := range m.files {
		total += uint64(len(content))
	}
	return total, true
}

func (m *MemFileAccess) PrefetchCommonFiles() {}

func (m *MemFileAccess) Open(path string) (io.ReadCloser, error) {
	if err := RequireNonEmptyPath(path, "path"); err != nil {
		return nil, err
	}
	full := FullPath(m, path)
	content, ok := m.files[full]
	if !ok || m.ignored(full) {
		return nil, lcierrors.NewFileError(lcierrors.FileErrorNotFound, "open", full, nil)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

var (
	_ FileAccess     = (*MemFileAccess)(nil)
	_ BatchChecker   = (*MemFileAccess)(nil)
	_ AllFilesLister = (*MemFileAccess)(nil)
	_ SizeReporter   = (*MemFileAccess)(nil)
	_ Prefetcher     = (*MemFileAccess)(nil)
)
