package manifestparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcputney/elearning-module-parser/internal/manifest"
)

const scorm2004Manifest = `<?xml version="1.0"?>
<manifest identifier="COURSE1" xml:base="pkg/"
    xmlns:imsss="http://www.imsglobal.org/xsd/imsss">
  <organizations default="ORG1">
    <organization identifier="ORG1">
      <item identifier="ITEM1" identifierref="RES1">
        <title>Lesson 1</title>
        <imsss:sequencing IDRef="SEQ1"/>
      </item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="RES1" scormtype="sco" href="index.html"/>
  </resources>
  <sequencingCollection>
    <sequencing id="SEQ1">
      <sequencingRules/>
    </sequencing>
  </sequencingCollection>
</manifest>`

func TestParseSCORM2004_BasicManifestWithSequencingCollection(t *testing.T) {
	fa := memFA(map[string]string{"imsmanifest.xml": scorm2004Manifest})
	res, err := ParseSCORM2004(fa)
	require.NoError(t, err)
	require.Equal(t, manifest.FamilySCORM2004, res.Manifest.Family)
	m := res.Manifest.SCORM2004
	require.Equal(t, "pkg/", m.Base)
	require.Len(t, m.SequencingCollection, 1)
	require.Equal(t, "SEQ1", m.SequencingCollection[0].ID)
	require.True(t, m.SequencingCollection[0].SequencingRules)
	require.Contains(t, m.NamespaceURIs, "http://www.imsglobal.org/xsd/imsss")
}

func TestParseSCORM2004_UnresolvedIDRefWarns(t *testing.T) {
	doc := `<manifest identifier="C1"><organizations default="O1">
		<organization identifier="O1"><item identifier="I1" identifierref="R1"><sequencing IDRef="NOPE"/></item></organization>
	</organizations>
	<resources><resource identifier="R1" scormtype="sco" href="a.html"/></resources>
	<sequencingCollection/></manifest>`
	fa := memFA(map[string]string{"imsmanifest.xml": doc})
	res, err := ParseSCORM2004(fa)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, "sequencing.IDRef", res.Warnings[0].Field)
	require.Equal(t, "NOPE", res.Warnings[0].Value)
}

func TestParseSCORM2004_RollupRuleThresholdsReadFromRuleNotConditions(t *testing.T) {
	doc := `<manifest identifier="C1"><organizations default="O1">
		<organization identifier="O1"><item identifier="I1" identifierref="R1">
			<sequencing>
				<rollupRules>
					<rollupRule childActivitySet="atLeastCount" minimumCount="2" minimumPercent="0.75">
						<rollupConditions conditionCombination="all">
							<rollupCondition condition="satisfied"/>
						</rollupConditions>
						<rollupAction action="satisfied"/>
					</rollupRule>
				</rollupRules>
			</sequencing>
		</item></organization>
	</organizations>
	<resources><resource identifier="R1" scormtype="sco" href="a.html"/></resources>
	<sequencingCollection/></manifest>`
	fa := memFA(map[string]string{"imsmanifest.xml": doc})
	res, err := ParseSCORM2004(fa)
	require.NoError(t, err)
	item := res.Manifest.SCORM2004.Organizations[0].Items[0]
	require.NotNil(t, item.Sequencing)
	require.NotNil(t, item.Sequencing.RollupRules)
	require.Len(t, item.Sequencing.RollupRules.RollupRule, 1)
	rule := item.Sequencing.RollupRules.RollupRule[0]
	require.Equal(t, "atLeastCount", rule.ChildActivitySet)
	require.Equal(t, 2, rule.MinimumCount)
	require.Equal(t, 0.75, float64(rule.MinimumPercent))
	require.Equal(t, "all", rule.ConditionCombination)
	require.Equal(t, []string{"satisfied"}, rule.RollupCondition)
	require.Equal(t, "satisfied", rule.RollupAction)
}

func TestParseSCORM2004_RollupRuleDefaultsWhenThresholdAttributesAbsent(t *testing.T) {
	doc := `<manifest identifier="C1"><organizations default="O1">
		<organization identifier="O1"><item identifier="I1" identifierref="R1">
			<sequencing>
				<rollupRules>
					<rollupRule>
						<rollupConditions><rollupCondition condition="satisfied"/></rollupConditions>
					</rollupRule>
				</rollupRules>
			</sequencing>
		</item></organization>
	</organizations>
	<resources><resource identifier="R1" scormtype="sco" href="a.html"/></resources>
	<sequencingCollection/></manifest>`
	fa := memFA(map[string]string{"imsmanifest.xml": doc})
	res, err := ParseSCORM2004(fa)
	require.NoError(t, err)
	rule := res.Manifest.SCORM2004.Organizations[0].Items[0].Sequencing.RollupRules.RollupRule[0]
	require.Equal(t, "all", rule.ChildActivitySet)
	require.Equal(t, 0, rule.MinimumCount)
	require.Equal(t, 0.0, float64(rule.MinimumPercent))
}

func TestSequencingByID(t *testing.T) {
	collection := []manifest.Sequencing{{ID: "A"}, {ID: "B"}}
	require.Equal(t, "B", SequencingByID(collection, "B").ID)
	require.Nil(t, SequencingByID(collection, "missing"))
}
