// Package manifestparser implements component C5: one parser function per
// family, each driving internal/xmlbind or internal/aicc against an
// internal/fileaccess.FileAccess to build the internal/manifest object
// model.
package manifestparser

import (
	"io"
	"path"
	"strconv"
	"strings"

	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

// Warning is a soft issue surfaced during parsing (spec 4.5's "unknown
// enumeration value" and similar non-fatal findings) — collected by the
// caller into a ValidationReport rather than raised.
type Warning struct {
	Field   string
	Value   string
	Message string
}

// Event mirrors the subset of C9's ParsingEventListener a parser can
// raise directly (LoadingExternalMetadata); everything else is emitted by
// the orchestrator around the parser call.
type Event struct {
	Kind string // "LoadingExternalMetadata"
	Path string
}

// Result is what a family parser returns: the manifest plus any soft
// warnings and events collected along the way.
type Result struct {
	Manifest manifest.Manifest
	Warnings []Warning
	Events   []Event
}

func openAndParseXML(fa fileaccess.FileAccess, manifestPath string) (*xmlbind.Node, error) {
	rc, err := fa.Open(manifestPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	root, err := xmlbind.Parse(rc)
	if err != nil {
		return nil, lcierrors.NewParseError(manifestPath, 0, 0, err)
	}
	return root, nil
}

func readAll(fa fileaccess.FileAccess, p string) ([]byte, error) {
	rc, err := fa.Open(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// resolveRelative joins a reference path found inside a manifest against
// the manifest's own directory, per spec 4.5's "resolve relative to the
// manifest" rule for external LOM inclusion.
func resolveRelative(manifestPath, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "/") {
		return strings.TrimPrefix(ref, "/")
	}
	dir := path.Dir(manifestPath)
	if dir == "." {
		return ref
	}
	return path.Join(dir, ref)
}

func findManifestCaseInsensitive(fa fileaccess.FileAccess, wantLower string) (string, error) {
	entries, err := fa.ListFiles("")
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		name := e
		if idx := strings.LastIndexByte(e, '/'); idx >= 0 {
			name = e[idx+1:]
		}
		if strings.ToLower(name) == wantLower {
			return e, nil
		}
	}
	return "", lcierrors.NewFileError(lcierrors.FileErrorNotFound, "open", wantLower, nil)
}

func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseOptionalPercent(s string) *xmlbind.PercentType {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	p, err := xmlbind.ParsePercent(s)
	if err != nil {
		return nil
	}
	return &p
}

func boolAttr(n *xmlbind.Node, name string, def bool) bool {
	v, ok := n.Attr(name)
	if !ok {
		return def
	}
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || v == "1"
}
