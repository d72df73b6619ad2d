// Package detect implements the module-type detector (component C2): a
// priority-ordered chain of small classifier plugins that inspect a
// package's file tree and decide which family it belongs to.
//
// Each Chain owns its own plugin list — there is no process-wide
// registry (spec section 9's rearchitecture note on "plugin registration
// as global mutable state"). NewChain installs the four default
// detectors from spec 4.2; callers register/unregister on top of that.
package detect

import (
	"sort"
	"strings"

	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
	"github.com/jcputney/elearning-module-parser/internal/types"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

// Result is what a successful detection or a single detector probe
// yields.
type Result struct {
	ModuleType types.ModuleType
	Edition    types.ModuleEditionType
}

// DetectFunc inspects a package and returns a non-empty Result when it
// recognizes the package, ok=false when it does not, and an error only
// when the backend itself failed (not when the package simply isn't this
// detector's family).
type DetectFunc func(fa fileaccess.FileAccess) (result Result, ok bool, err error)

// Detector is one plugin in the chain.
type Detector struct {
	Name     string
	Priority int // higher runs first
	Detect   DetectFunc
}

// Chain is a sorted-by-priority list of detectors, evaluated in order
// until one matches.
type Chain struct {
	detectors []Detector
}

// NewChain returns a Chain pre-populated with the four default detectors
// from spec 4.2, highest priority first.
func NewChain() *Chain {
	c := &Chain{}
	c.Register(Detector{Name: "SCORM", Priority: 100, Detect: detectSCORM})
	c.Register(Detector{Name: "cmi5", Priority: 90, Detect: detectCMI5})
	c.Register(Detector{Name: "AICC", Priority: 80, Detect: detectAICC})
	c.Register(Detector{Name: "xAPI", Priority: 40, Detect: detectXAPI})
	return c
}

// Register adds a detector, keeping the chain sorted by descending
// priority. Registration is idempotent by Name: registering a Name that
// already exists replaces the existing entry in place rather than
// duplicating it.
func (c *Chain) Register(d Detector) {
	for i, existing := range c.detectors {
		if existing.Name == d.Name {
			c.detectors[i] = d
			c.resort()
			return
		}
	}
	c.detectors = append(c.detectors, d)
	c.resort()
}

// Unregister removes a detector by name. It is a no-op if the name is not
// registered.
func (c *Chain) Unregister(name string) {
	for i, d := range c.detectors {
		if d.Name == name {
			c.detectors = append(c.detectors[:i], c.detectors[i+1:]...)
			return
		}
	}
}

// List returns a snapshot of the current chain, highest priority first.
func (c *Chain) List() []Detector {
	out := make([]Detector, len(c.detectors))
	copy(out, c.detectors)
	return out
}

func (c *Chain) resort() {
	sort.SliceStable(c.detectors, func(i, j int) bool {
		return c.detectors[i].Priority > c.detectors[j].Priority
	})
}

// Classify runs the chain in priority order and returns the first match.
// It fails with *errors.DetectionError(nil) if no detector matches, or
// *errors.DetectionError(cause) if a detector's probe raised a backend
// error — in the latter case the chain stops immediately rather than
// trying lower-priority detectors.
func (c *Chain) Classify(fa fileaccess.FileAccess) (Result, error) {
	for _, d := range c.detectors {
		result, ok, err := d.Detect(fa)
		if err != nil {
			return Result{}, lcierrors.NewDetectionError(err)
		}
		if ok {
			return result, nil
		}
	}
	return Result{}, lcierrors.NewDetectionError(nil)
}

// findRootFile looks up a root-level file by case-insensitive name and
// returns its actual on-disk name, or "" if absent.
func findRootFile(fa fileaccess.FileAccess, wantLower string) (string, error) {
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
	return "", nil
}

func rootFileWithExt(fa fileaccess.FileAccess, exts ...string) (string, error) {
	entries, err := fa.ListFiles("")
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		lower := strings.ToLower(e)
		for _, ext := range exts {
			if strings.HasSuffix(lower, ext) {
				return e, nil
			}
		}
	}
	return "", nil
}

func detectSCORM(fa fileaccess.FileAccess) (Result, bool, error) {
	manifestPath, err := findRootFile(fa, "imsmanifest.xml")
	if err != nil {
		return Result{}, false, err
	}
	if manifestPath == "" {
		return Result{}, false, nil
	}

	rc, err := fa.Open(manifestPath)
	if err != nil {
		return Result{}, false, err
	}
	defer rc.Close()

	root, err := xmlbind.Parse(rc)
	if err != nil {
		// Malformed XML is a parse-time concern for C5, not a detection
		// failure: we already know it's a SCORM-shaped package because
		// imsmanifest.xml exists at the root.
		return Result{ModuleType: types.ModuleTypeSCORM12}, true, nil
	}

	uris := xmlbind.FindNamespaceURIs(root)
	schemaVersion := strings.TrimSpace(root.Child("metadata").ChildText("schemaversion"))

	edition, is2004 := classifyEdition(uris)
	if !is2004 {
		is2004 = strings.HasPrefix(schemaVersion, "2004") || strings.Contains(schemaVersion, "CAM 1.3")
	}
	if is2004 {
		return Result{ModuleType: types.ModuleTypeSCORM2004, Edition: edition}, true, nil
	}
	return Result{ModuleType: types.ModuleTypeSCORM12}, true, nil
}

// classifyEdition resolves the Open Question from spec section 9: when a
// manifest declares more than one 2004 edition namespace, the newest
// edition wins (4th > 3rd > 2nd) rather than "the first namespace found",
// because a manifest that incrementally adopted newer namespaces is best
// described by the newest one it carries. Matching is substring-based
// against the known edition markers; a namespace URI that doesn't contain
// one of them contributes nothing and detection falls through to
// whichever other signal (schemaversion) is available.
func classifyEdition(uris []string) (types.ModuleEditionType, bool) {
	canonical := map[string]types.ModuleEditionType{
		"http://www.imsglobal.org/xsd/imscp_v1p1":     types.EditionNone, // CP v1.1 alone doesn't imply an edition
		"http://www.adlnet.org/xsd/adlcp_v1p3":        types.EditionNone,
		"http://www.imsglobal.org/xsd/imsss":          types.EditionNone,
		"http://www.adlnet.org/xsd/adlseq_v1p3":       types.EditionNone,
		"http://www.adlnet.org/xsd/adlnav_v1p3":       types.EditionNone,
	}
	is2004 := false
	for _, u := range uris {
		if _, ok := canonical[u]; ok {
			is2004 = true
		}
	}

	rank := map[types.ModuleEditionType]int{types.Edition2nd: 2, types.Edition3rd: 3, types.Edition4th: 4}
	best := types.EditionNone
	for _, u := range uris {
		lower := strings.ToLower(u)
		var candidate types.ModuleEditionType
		switch {
		case strings.Contains(lower, "2004 4th") || strings.Contains(lower, "2004_4ed") || strings.Contains(lower, "4th edition"):
			candidate = types.Edition4th
		case strings.Contains(lower, "2004 3rd") || strings.Contains(lower, "2004_3ed") || strings.Contains(lower, "3rd edition"):
			candidate = types.Edition3rd
		case strings.Contains(lower, "2004 2nd") || strings.Contains(lower, "2004_2ed") || strings.Contains(lower, "2nd edition"):
			candidate = types.Edition2nd
		}
		if candidate != types.EditionNone && rank[candidate] > rank[best] {
			best = candidate
		}
	}
	return best, is2004
}

func detectCMI5(fa fileaccess.FileAccess) (Result, bool, error) {
	path, err := findRootFile(fa, "cmi5.xml")
	if err != nil {
		return Result{}, false, err
	}
	if path == "" {
		return Result{}, false, nil
	}
	return Result{ModuleType: types.ModuleTypeCMI5}, true, nil
}

func detectAICC(fa fileaccess.FileAccess) (Result, bool, error) {
	path, err := rootFileWithExt(fa, ".crs", ".au", ".des", ".cst")
	if err != nil {
		return Result{}, false, err
	}
	if path == "" {
		return Result{}, false, nil
	}
	return Result{ModuleType: types.ModuleTypeAICC}, true, nil
}

func detectXAPI(fa fileaccess.FileAccess) (Result, bool, error) {
	path, err := findRootFile(fa, "tincan.xml")
	if err != nil {
		return Result{}, false, err
	}
	if path == "" {
		return Result{}, false, nil
	}
	return Result{ModuleType: types.ModuleTypeXAPI}, true, nil
}

// XAPIEnabled reports whether a tincan.xml exists at the package root
// regardless of the package's primary classification — spec 4.5's
// "xapiEnabled" flag, which is independent of which detector won the
// chain.
func XAPIEnabled(fa fileaccess.FileAccess) (bool, error) {
	path, err := findRootFile(fa, "tincan.xml")
	if err != nil {
		return false, err
	}
	return path != "", nil
}
