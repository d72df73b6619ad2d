// Package sequencing implements the SCORM 2004 sequencing usage analyzer
// (component C6): classifying whether a manifest truly uses sequencing,
// and at what level, from an evidence set of indicators.
package sequencing

import (
	"strings"

	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/types"
)

// Analysis is C6's output.
type Analysis struct {
	UsesSequencing bool
	Level          types.SequencingLevel
	Indicators     types.IndicatorSet
}

var namespaceIMSSS = "http://www.imsglobal.org/xsd/imsss"
var namespaceADLSEQ = "http://www.adlnet.org/xsd/adlseq_v1p3"

// strongFromSequencing records the spec 4.6 "strong" indicators carried
// by an individual Sequencing block and reports whether it found any.
func strongFromSequencing(seq *manifest.Sequencing, ind types.IndicatorSet) bool {
	if seq == nil {
		return false
	}
	strong := false
	if seq.ControlMode != nil {
		ind.Add(types.IndicatorSequencingControlMode)
		strong = true
	}
	if seq.SequencingRules {
		ind.Add(types.IndicatorSequencingRules)
		strong = true
	}
	if seq.RandomizationControls {
		ind.Add(types.IndicatorSequencingRandomization)
		strong = true
	}
	if seq.ADLObjectives {
		ind.Add(types.IndicatorSequencingADLObjectives)
		strong = true
	}
	if seq.RollupConsiderations {
		ind.Add(types.IndicatorSequencingRollupConsiderations)
		strong = true
	}
	if seq.ConstrainChoiceConsiderations {
		ind.Add(types.IndicatorSequencingConstrainChoice)
		strong = true
	}
	if seq.DeliveryControls != nil && !seq.DeliveryControls.IsSchemaDefault() {
		ind.Add(types.IndicatorSequencingDeliveryControls)
		strong = true
	}
	if seq.Presentation != nil && !seq.Presentation.IsSchemaDefault() {
		ind.Add(types.IndicatorPresentationControls)
		strong = true
	}
	if seq.CompletionThreshold != nil {
		ind.Add(types.IndicatorCompletionThreshold)
		strong = true
	}
	return strong
}

// Analyze implements the spec 4.6 classification, evaluated top-down with
// first match winning: FULL, then MINIMAL, then MULTI, then NONE.
func Analyze(m *manifest.SCORM2004Manifest) Analysis {
	ind := types.NewIndicatorSet()

	for _, uri := range m.NamespaceURIs {
		if uri == namespaceIMSSS {
			ind.Add(types.IndicatorIMSSSNamespace)
		}
	}
	if strings.Contains(m.SchemaLocation, namespaceIMSSS) {
		ind.Add(types.IndicatorSchemaLocationIMSSS)
	}
	if strings.Contains(m.SchemaLocation, namespaceADLSEQ) {
		ind.Add(types.IndicatorSchemaLocationADLSEQ)
	}
	if len(m.SequencingCollection) > 0 {
		ind.Add(types.IndicatorSequencingCollection)
	}
	if countScoResources(m.Resources) > 0 {
		ind.Add(types.IndicatorResourceSCO)
	}

	items := allItems(m.Organizations)

	anyActivitySequencing := false
	idRefResolvesStrong := false

	var walk func([]manifest.Item)
	walk = func(items []manifest.Item) {
		for _, it := range items {
			if !it.HasIsVisible {
				// not an indicator by itself
			} else if !it.IsVisible {
				ind.Add(types.IndicatorItemIsVisibleFalse)
			}
			if it.Identifierref == "" && len(it.Items) == 0 {
				ind.Add(types.IndicatorItemNoIdentifierRef)
			}
			if it.Sequencing != nil {
				anyActivitySequencing = true
				strongFromSequencing(it.Sequencing, ind)
			}
			if it.SequencingIDRef != "" {
				ind.Add(types.IndicatorSequencingIDRef)
				target := sequencingByID(m.SequencingCollection, it.SequencingIDRef)
				if target != nil && strongFromSequencing(target, types.NewIndicatorSet()) {
					idRefResolvesStrong = true
				}
			}
			walk(it.Items)
		}
	}
	walk(items)

	if anyActivitySequencing {
		ind.Add(types.IndicatorActivitySequencing)
	}

	if anyActivitySequencing {
		return Analysis{UsesSequencing: true, Level: types.SequencingFull, Indicators: ind}
	}

	if idRefResolvesStrong {
		return Analysis{UsesSequencing: false, Level: types.SequencingMinimal, Indicators: ind}
	}

	if countScoResources(m.Resources) >= 2 && referencedByDefaultOrg(m) {
		return Analysis{UsesSequencing: false, Level: types.SequencingMulti, Indicators: ind}
	}

	return Analysis{UsesSequencing: false, Level: types.SequencingNone, Indicators: ind}
}

func referencedByDefaultOrg(m *manifest.SCORM2004Manifest) bool {
	org := defaultOrganization(&m.SCORM12Manifest)
	if org == nil {
		return false
	}
	count := 0
	var walk func([]manifest.Item)
	walk = func(items []manifest.Item) {
		for _, it := range items {
			if it.Identifierref != "" {
				if r := findResource(m.Resources, it.Identifierref); r != nil && r.ScormType == "sco" {
					count++
				}
			}
			walk(it.Items)
		}
	}
	walk(org.Items)
	return count >= 2
}

func defaultOrganization(m *manifest.SCORM12Manifest) *manifest.Organization {
	if len(m.Organizations) == 0 {
		return nil
	}
	for i := range m.Organizations {
		if m.Organizations[i].Identifier == m.DefaultOrganization {
			return &m.Organizations[i]
		}
	}
	return &m.Organizations[0]
}

func findResource(resources []manifest.Resource, id string) *manifest.Resource {
	for i := range resources {
		if resources[i].Identifier == id {
			return &resources[i]
		}
	}
	return nil
}

func countScoResources(resources []manifest.Resource) int {
	n := 0
	for _, r := range resources {
		if r.ScormType == "sco" {
			n++
		}
	}
	return n
}

func allItems(orgs []manifest.Organization) []manifest.Item {
	var out []manifest.Item
	for _, o := range orgs {
		out = append(out, o.Items...)
	}
	return out
}

func sequencingByID(collection []manifest.Sequencing, id string) *manifest.Sequencing {
	for i := range collection {
		if collection[i].ID == id {
			return &collection[i]
		}
	}
	return nil
}
