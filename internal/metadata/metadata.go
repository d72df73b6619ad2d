// Package metadata defines ModuleMetadata and its family-specific
// extensions (component C8's output type). It lives in an internal
// package, with the root modparser package re-exporting it via type
// aliases, because internal/projector computes these types and cannot
// import the root package without creating an import cycle (the root
// package imports internal/projector to run C8).
package metadata

import "github.com/jcputney/elearning-module-parser/internal/types"

// ModuleMetadata is the common, consumer-facing projection of any family's
// manifest (spec 4.8). Exactly one of the Extension fields is non-nil,
// matching ModuleType.
type ModuleMetadata struct {
	Title                     string
	Description               string
	LaunchURL                 string
	Identifier                string
	Version                   string
	Duration                  string
	ModuleType                types.ModuleType
	ModuleEditionType         types.ModuleEditionType
	XAPIEnabled               bool
	SizeOnDisk                *uint64
	HasMultipleLaunchableUnits bool

	SCORM12   *SCORM12Extension
	SCORM2004 *SCORM2004Extension
	CMI5      *CMI5Extension
	AICC      *AICCExtension
}

type SCORM12Extension struct {
	Prerequisites  map[string]string
	MasteryScores  map[string]float64
	CustomData     map[string]string
	LomTitle       string
	LomDescription string
	LomKeywords    []string
}

type SCORM2004Extension struct {
	GlobalObjectiveIDs  []string
	ScoIDs              []string
	SequencingLevel     types.SequencingLevel
	SequencingIndicators []types.Indicator
	ActivityNodeCount   int
}

type CMI5Extension struct {
	AssignableUnitIDs   []string
	AssignableUnitURLs  map[string]string
	AUDetails           map[string]CMI5AUDetail
	MasteryScores       map[string]float64
	MoveOnCriteria      map[string]string
	LaunchMethods       map[string]string
	ActivityTypes       map[string]string
	LaunchParameters    map[string]string
	BlockIDs            []string
	ObjectiveIDs        []string
}

type CMI5AUDetail struct {
	ID    string
	Title string
	URL   string
}

type AICCExtension struct {
	AssignableUnitIDs      []string
	AssignableUnitNames    map[string]string
	Prerequisites          map[string]string
	CompletionRequirements map[string]string
}

// ValidationIssueLevel distinguishes a hard error from a soft warning in a
// ValidationReport (spec 4.9).
type ValidationIssueLevel string

const (
	IssueError   ValidationIssueLevel = "ERROR"
	IssueWarning ValidationIssueLevel = "WARNING"
)

type ValidationIssue struct {
	Level   ValidationIssueLevel
	Field   string
	Value   string
	Message string
}

// ValidationReport collects the soft and hard issues found while parsing
// and projecting a manifest (spec 4.9 step 4).
type ValidationReport struct {
	Issues []ValidationIssue
}

func (r *ValidationReport) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Level == IssueError {
			return true
		}
	}
	return false
}

func (r *ValidationReport) AddError(field, value, message string) {
	r.Issues = append(r.Issues, ValidationIssue{Level: IssueError, Field: field, Value: value, Message: message})
}

func (r *ValidationReport) AddWarning(field, value, message string) {
	r.Issues = append(r.Issues, ValidationIssue{Level: IssueWarning, Field: field, Value: value, Message: message})
}
