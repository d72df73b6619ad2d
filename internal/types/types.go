// Package types holds the small, dependency-free enumerations shared
// across the detection, parsing, and projection stages: the module
// family, the SCORM 2004 edition, and the sequencing-usage
// classification.
package types

// ModuleType classifies which e-learning package family a manifest
// belongs to.
type ModuleType string

const (
	ModuleTypeUnknown   ModuleType = ""
	ModuleTypeSCORM12   ModuleType = "SCORM_12"
	ModuleTypeSCORM2004 ModuleType = "SCORM_2004"
	ModuleTypeAICC      ModuleType = "AICC"
	ModuleTypeCMI5      ModuleType = "CMI5"
	ModuleTypeXAPI      ModuleType = "XAPI"
)

// ModuleEditionType refines ModuleTypeSCORM2004 into the specific
// revision of the 2004 specification a manifest declares.
type ModuleEditionType string

const (
	EditionNone ModuleEditionType = ""
	Edition2nd  ModuleEditionType = "2ND"
	Edition3rd  ModuleEditionType = "3RD"
	Edition4th  ModuleEditionType = "4TH"
)

// SequencingLevel is the outcome of the sequencing usage analyzer (C6).
type SequencingLevel string

const (
	SequencingNone    SequencingLevel = "NONE"
	SequencingMinimal SequencingLevel = "MINIMAL"
	SequencingMulti   SequencingLevel = "MULTI"
	SequencingFull    SequencingLevel = "FULL"
)

// Indicator names one piece of evidence the sequencing usage analyzer
// found while inspecting a SCORM 2004 manifest. The const names mirror
// spec section 4.6 verbatim so a reader can cross-reference directly.
type Indicator string

const (
	IndicatorIMSSSNamespace              Indicator = "IMSSS_NAMESPACE"
	IndicatorSchemaLocationIMSSS         Indicator = "SCHEMA_LOCATION_IMSSS"
	IndicatorSchemaLocationADLSEQ        Indicator = "SCHEMA_LOCATION_ADLSEQ"
	IndicatorItemIsVisibleFalse          Indicator = "ITEM_IS_VISIBLE_FALSE"
	IndicatorItemNoIdentifierRef         Indicator = "ITEM_NO_IDENTIFIER_REF"
	IndicatorActivitySequencing          Indicator = "ACTIVITY_SEQUENCING"
	IndicatorSequencingControlMode       Indicator = "SEQUENCING_CONTROL_MODE"
	IndicatorSequencingRules             Indicator = "SEQUENCING_RULES"
	IndicatorSequencingRandomization     Indicator = "SEQUENCING_RANDOMIZATION"
	IndicatorSequencingADLObjectives     Indicator = "SEQUENCING_ADL_OBJECTIVES"
	IndicatorSequencingRollupConsiderations Indicator = "SEQUENCING_ROLLUP_CONSIDERATIONS"
	IndicatorSequencingConstrainChoice   Indicator = "SEQUENCING_CONSTRAIN_CHOICE"
	IndicatorSequencingDeliveryControls  Indicator = "SEQUENCING_DELIVERY_CONTROLS"
	IndicatorSequencingIDRef             Indicator = "SEQUENCING_IDREF"
	IndicatorSequencingCollection        Indicator = "SEQUENCING_COLLECTION"
	IndicatorPresentationControls        Indicator = "PRESENTATION_CONTROLS"
	IndicatorCompletionThreshold         Indicator = "COMPLETION_THRESHOLD"
	IndicatorResourceSCO                 Indicator = "RESOURCE_SCO"
)

// IndicatorSet is an insertion-order-independent set of Indicator values.
// Iteration order is not guaranteed, and the set does not record the order
// in which indicators were added.
type IndicatorSet map[Indicator]struct{}

func NewIndicatorSet() IndicatorSet { return make(IndicatorSet) }

func (s IndicatorSet) Add(i Indicator) { s[i] = struct{}{} }

func (s IndicatorSet) Has(i Indicator) bool {
	_, ok := s[i]
	return ok
}

// Slice returns the indicators in an unspecified order that can differ
// between calls, even on the same set (Go map iteration order is
// randomized); the result is not sorted.
func (s IndicatorSet) Slice() []Indicator {
	out := make([]Indicator, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	return out
}
