package sequencing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/types"
)

func scoResource(id string) manifest.Resource {
	return manifest.Resource{Identifier: id, ScormType: "sco"}
}

func TestAnalyze_NoneWhenNothingPresent(t *testing.T) {
	m := &manifest.SCORM2004Manifest{}
	m.Organizations = []manifest.Organization{{Identifier: "O1", Items: []manifest.Item{{Identifier: "I1", Identifierref: "R1"}}}}
	m.Resources = []manifest.Resource{scoResource("R1")}
	a := Analyze(m)
	require.Equal(t, types.SequencingNone, a.Level)
	require.False(t, a.UsesSequencing)
}

func TestAnalyze_MultiWhenTwoOrMoreSCOsInDefaultOrgAndNoSequencing(t *testing.T) {
	m := &manifest.SCORM2004Manifest{}
	m.Organizations = []manifest.Organization{{
		Identifier: "O1",
		Items: []manifest.Item{
			{Identifier: "I1", Identifierref: "R1"},
			{Identifier: "I2", Identifierref: "R2"},
		},
	}}
	m.Resources = []manifest.Resource{scoResource("R1"), scoResource("R2")}
	a := Analyze(m)
	require.Equal(t, types.SequencingMulti, a.Level)
	require.False(t, a.UsesSequencing)
}

func TestAnalyze_MinimalWhenIDRefResolvesToStrongSequencing(t *testing.T) {
	strongSeq := manifest.Sequencing{ID: "S1", SequencingRules: true}
	m := &manifest.SCORM2004Manifest{SequencingCollection: []manifest.Sequencing{strongSeq}}
	m.Organizations = []manifest.Organization{{
		Identifier: "O1",
		Items:      []manifest.Item{{Identifier: "I1", Identifierref: "R1", SequencingIDRef: "S1"}},
	}}
	m.Resources = []manifest.Resource{scoResource("R1")}
	a := Analyze(m)
	require.Equal(t, types.SequencingMinimal, a.Level)
	require.False(t, a.UsesSequencing)
}

func TestAnalyze_FullWhenAnyItemHasInlineSequencing(t *testing.T) {
	m := &manifest.SCORM2004Manifest{}
	m.Organizations = []manifest.Organization{{
		Identifier: "O1",
		Items: []manifest.Item{
			{Identifier: "I1", Identifierref: "R1", Sequencing: &manifest.Sequencing{ID: "inline", SequencingRules: true}},
		},
	}}
	m.Resources = []manifest.Resource{scoResource("R1")}
	a := Analyze(m)
	require.Equal(t, types.SequencingFull, a.Level)
	require.True(t, a.UsesSequencing)
	require.True(t, a.Indicators.Has(types.IndicatorActivitySequencing))
	require.True(t, a.Indicators.Has(types.IndicatorSequencingRules))
}

func TestAnalyze_NamespaceAndSchemaLocationIndicators(t *testing.T) {
	m := &manifest.SCORM2004Manifest{
		NamespaceURIs: []string{"http://www.imsglobal.org/xsd/imsss"},
	}
	m.SchemaLocation = "http://www.adlnet.org/xsd/adlseq_v1p3 adlseq_v1p3.xsd"
	a := Analyze(m)
	require.True(t, a.Indicators.Has(types.IndicatorIMSSSNamespace))
	require.True(t, a.Indicators.Has(types.IndicatorSchemaLocationADLSEQ))
}

func TestAnalyze_OneSCOInDefaultOrgIsNotMulti(t *testing.T) {
	m := &manifest.SCORM2004Manifest{}
	m.Organizations = []manifest.Organization{{
		Identifier: "O1",
		Items:      []manifest.Item{{Identifier: "I1", Identifierref: "R1"}},
	}}
	m.Resources = []manifest.Resource{scoResource("R1")}
	a := Analyze(m)
	require.Equal(t, types.SequencingNone, a.Level, "MULTI requires two or more SCOs reachable from the default organization")
}
