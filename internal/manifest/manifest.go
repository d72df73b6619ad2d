// Package manifest holds the frozen, per-family object model produced by
// component C5 (spec section 3): SCORM 1.2, SCORM 2004, cmi5, AICC, and
// xAPI manifests. Every type here is built once by a manifestparser
// function and never mutated afterward — callers receive immutable
// handles, per spec section 9's "builder + setter mutability" rearchitecture
// note.
package manifest

import "github.com/jcputney/elearning-module-parser/internal/xmlbind"

// Family identifies which manifest shape a Manifest value carries.
type Family int

const (
	FamilySCORM12 Family = iota
	FamilySCORM2004
	FamilyCMI5
	FamilyAICC
	FamilyXAPI
)

// Manifest is the sum type produced by C5: exactly one of the family
// fields is non-nil, matching Family.
type Manifest struct {
	Family Family

	SCORM12   *SCORM12Manifest
	SCORM2004 *SCORM2004Manifest
	CMI5      *CMI5Manifest
	AICC      *AICCManifest
	XAPI      *XAPIManifest

	// XAPIEnabled is true when this module is itself xAPI, or a
	// tincan.xml sits alongside a SCORM/cmi5 manifest (spec 4.5).
	XAPIEnabled bool
}

// --- SCORM 1.2 -------------------------------------------------------

type SCORM12Manifest struct {
	Identifier string
	Version    string
	Metadata   ScormMetadataRef

	// Base is the <manifest xml:base="..."> attribute, used as the outer
	// prefix to a resource's own xml:base when resolving launchUrl (spec 9 Open
	// Question 1).
	Base string

	DefaultOrganization string
	Organizations       []Organization

	Resources []Resource

	// LomTitle/LomDescription/LomKeywords are populated from an external
	// LOM document referenced via <metadata><adlcp:location> (supplemented
	// feature, SPEC_FULL data model additions).
	LomTitle       xmlbind.TextType
	LomDescription xmlbind.TextType
	LomKeywords    xmlbind.TextType
}

type ScormMetadataRef struct {
	Schema        string
	SchemaVersion string
	Location      string // adlcp:location, relative to the manifest
}

// Organization is a named tree of items (GLOSSARY).
type Organization struct {
	Identifier string
	Title      string
	Items      []Item
}

// Item is recursive: a container item has no Identifierref and ≥1 child;
// a leaf item has an Identifierref into Resources.
type Item struct {
	Identifier     string
	Identifierref  string
	Title          string
	IsVisible      bool
	HasIsVisible   bool // true iff isvisible was present in the source
	Prerequisites  string
	MasteryScore   *float64
	DataFromLMS    string
	Sequencing     *Sequencing // inline <sequencing>, SCORM 2004 only
	SequencingIDRef string     // <sequencing IDRef="...">, SCORM 2004 only
	Items          []Item
}

type Resource struct {
	Identifier string
	Type       string
	ScormType  string // "sco" | "asset"
	Href       string
	Base       string // xml:base
	Files      []string
	Dependency []string
}

// --- SCORM 2004 --------------------------------------------------------

type SCORM2004Manifest struct {
	SCORM12Manifest // same CP shape (identifier, orgs, resources) plus:

	SequencingCollection []Sequencing
	NamespaceURIs        []string
	SchemaLocation        string
}

type Sequencing struct {
	ID                      string
	ControlMode             *ControlMode
	SequencingRules         bool
	LimitConditions         bool
	RollupRules             *RollupRules
	Objectives              *Objectives
	RandomizationControls   bool
	DeliveryControls        *DeliveryControls
	RollupConsiderations    bool
	ConstrainChoiceConsiderations bool
	ADLObjectives           bool
	CompletionThreshold     *CompletionThreshold
	Presentation            *Presentation
}

type ControlMode struct {
	Choice            bool
	ChoiceExit        bool
	Flow              bool
	ForwardOnly       bool
	UseCurrentAttemptObjectiveInfo bool
	UseCurrentAttemptProgressInfo  bool
}

type DeliveryControls struct {
	Tracked                    bool
	CompletionSetByContent     bool
	ObjectiveSetByContent      bool
}

// schema defaults for DeliveryControls, per spec 4.6's
// "only when any attribute differs from its schema default" rule.
var DefaultDeliveryControls = DeliveryControls{
	Tracked:                true,
	CompletionSetByContent: false,
	ObjectiveSetByContent:  false,
}

func (d DeliveryControls) IsSchemaDefault() bool {
	return d == DefaultDeliveryControls
}

type Presentation struct {
	NavigationInterface map[string]string // hideLMSUI tokens, schema-default if empty
}

func (p Presentation) IsSchemaDefault() bool {
	return len(p.NavigationInterface) == 0
}

type Objectives struct {
	Primary   *Objective
	Objective []Objective
}

type Objective struct {
	ObjectiveID         string
	SatisfiedByMeasure  bool
	MinNormalizedMeasure xmlbind.MeasureType
	MapInfo             []ObjectiveMapInfo
}

type ObjectiveMapInfo struct {
	TargetObjectiveID   string
	ReadSatisfiedStatus bool
	WriteSatisfiedStatus bool
	ReadNormalizedMeasure bool
	WriteNormalizedMeasure bool
}

type RollupRules struct {
	RollupRule               []RollupRule
	RollupObjectiveSatisfied bool
	RollupProgressCompletion bool
	ObjectiveMeasureWeight   xmlbind.PercentType
}

type RollupRule struct {
	ConditionCombination string // "all" | "any"
	RollupCondition      []string
	RollupAction         string
	ChildActivitySet     string // all|any|none|atLeastCount|atLeastPercent
	MinimumCount         int
	MinimumPercent       xmlbind.PercentType
}

type CompletionThreshold struct {
	CompletedByMeasure bool
	MinProgressMeasure xmlbind.MeasureType
	ProgressWeight     xmlbind.PercentType
}

// --- cmi5 ---------------------------------------------------------------

type CMI5Manifest struct {
	CourseID          string
	CourseTitle       xmlbind.TextType
	CourseDescription xmlbind.TextType
	Objectives        []CMI5Objective
	Root              CMI5Block
}

type CMI5Objective struct {
	ID          string
	Title       xmlbind.TextType
	Description xmlbind.TextType
}

// CMI5Block is recursive over Blocks/AUs, document order preserved.
type CMI5Block struct {
	ID          string
	Title       xmlbind.TextType
	Description xmlbind.TextType
	Blocks      []CMI5Block
	AUs         []CMI5AU
}

type CMI5AU struct {
	ID               string
	URL              string
	LaunchMethod     string // AnyWindow | OwnWindow
	MoveOn           string
	MasteryScore     *xmlbind.PercentType
	ActivityType     string
	LaunchParameters string
	EntitlementKey   string
	Title            xmlbind.TextType
	Description      xmlbind.TextType
}

// --- AICC -----------------------------------------------------------

type AICCManifest struct {
	Course                 AICCCourse
	Descriptors            []AICCDescriptor
	AssignableUnits        []AICCAssignableUnit
	CourseStructure        []AICCStructureEntry
	ObjectiveRelationships []AICCObjectiveRelationship
	Prerequisites          []AICCPrerequisite
	CompletionRequirements []AICCCompletionRequirement

	// CourseDescription is the reconstructed legacy string-or-map field
	// (spec 4.4's courseDescription back-compat rule), already joined to
	// text by the time the manifest is assembled.
	CourseDescription string
}

type AICCCourse struct {
	ID      string
	Title   string
	Version string
}

type AICCDescriptor struct {
	SystemID    string
	Title       string
	Description string
}

type AICCAssignableUnit struct {
	SystemID     string
	FileName     string
	CommandLine  string
	MasteryScore *xmlbind.PercentType
	MaxTimeAllowed string
	TimeLimitAction string
	CoreVendor   string
	WebLaunch    string
}

type AICCStructureEntry struct {
	BlockID string
	Members []string // ordered member AU/block IDs
}

type AICCObjectiveRelationship struct {
	ObjectiveID string
	Related     []string
}

type AICCPrerequisite struct {
	TargetID   string
	Expression string // raw, parsed on demand via internal/aicc.Parse
}

type AICCCompletionRequirement struct {
	AUID      string
	Criteria  string
}

// --- xAPI -------------------------------------------------------------

type XAPIManifest struct {
	Activities []XAPIActivity
}

type XAPIActivity struct {
	ID          string
	Type        string
	Name        xmlbind.TextType
	Description xmlbind.TextType
	Launch      xmlbind.TextType
}
