package projector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcputney/elearning-module-parser/internal/activitytree"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/sequencing"
	"github.com/jcputney/elearning-module-parser/internal/types"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

func TestJoinBase_NestedCompositionOfManifestResourceAndHref(t *testing.T) {
	// manifest base + resource base + href all present: each extends the
	// last rather than overriding it.
	got := joinBase(joinBase("pkg/", "lesson1/"), "index.html")
	require.Equal(t, "pkg/lesson1/index.html", got)
}

func TestJoinBase_MissingBasesFallBackToHrefAlone(t *testing.T) {
	require.Equal(t, "index.html", joinBase(joinBase("", ""), "index.html"))
}

func TestJoinBase_OnlyOuterBasePresent(t *testing.T) {
	require.Equal(t, "pkg/index.html", joinBase(joinBase("pkg/", ""), "index.html"))
}

func TestProject_SCORM12ComposesLaunchURLFromManifestAndResourceBase(t *testing.T) {
	score := 0.8
	m := &manifest.SCORM12Manifest{
		Identifier: "C1",
		Base:       "pkg/",
		DefaultOrganization: "O1",
		Organizations: []manifest.Organization{{
			Identifier: "O1", Title: "Course One",
			Items: []manifest.Item{{Identifier: "I1", Identifierref: "R1", MasteryScore: &score}},
		}},
		Resources: []manifest.Resource{{Identifier: "R1", ScormType: "sco", Base: "lesson1/", Href: "index.html"}},
	}
	md, report := Project(Input{Manifest: manifest.Manifest{Family: manifest.FamilySCORM12, SCORM12: m}})
	require.Equal(t, "pkg/lesson1/index.html", md.LaunchURL)
	require.Equal(t, "Course One", md.Title)
	require.Equal(t, types.ModuleTypeSCORM12, md.ModuleType)
	require.Equal(t, 0.8, md.SCORM12.MasteryScores["I1"])
	require.False(t, report.HasErrors())
}

func TestProject_MissingLaunchURLWarns(t *testing.T) {
	m := &manifest.SCORM12Manifest{Identifier: "C1"}
	_, report := Project(Input{Manifest: manifest.Manifest{Family: manifest.FamilySCORM12, SCORM12: m}})
	require.Len(t, report.Issues, 1)
	require.Equal(t, "launchUrl", report.Issues[0].Field)
}

func TestProject_SCORM2004CarriesSequencingAndTreeData(t *testing.T) {
	m := &manifest.SCORM2004Manifest{}
	m.Identifier = "C1"
	m.DefaultOrganization = "O1"
	m.Organizations = []manifest.Organization{{
		Identifier: "O1",
		Items:      []manifest.Item{{Identifier: "I1", Identifierref: "R1"}},
	}}
	m.Resources = []manifest.Resource{{Identifier: "R1", ScormType: "sco", Href: "a.html"}}

	tree, err := activitytree.Build(m.Organizations, m.DefaultOrganization, nil)
	require.NoError(t, err)
	analysis := sequencing.Analyze(m)

	md, _ := Project(Input{
		Manifest:   manifest.Manifest{Family: manifest.FamilySCORM2004, SCORM2004: m},
		Tree:       tree,
		Sequencing: &analysis,
	})
	require.Equal(t, types.ModuleTypeSCORM2004, md.ModuleType)
	require.Nil(t, md.SCORM12)
	require.NotNil(t, md.SCORM2004)
	require.Equal(t, 1, md.SCORM2004.ActivityNodeCount)
	require.Equal(t, []string{"R1"}, md.SCORM2004.ScoIDs)
}

func TestProject_CMI5WalksNestedBlocksForFirstLaunchURL(t *testing.T) {
	score := xmlbind.PercentType(0.7)
	m := &manifest.CMI5Manifest{
		CourseID: "COURSE1",
		Root: manifest.CMI5Block{
			ID: "root",
			Blocks: []manifest.CMI5Block{
				{ID: "nested", AUs: []manifest.CMI5AU{{ID: "AU1", URL: "au1.html", MasteryScore: &score, MoveOn: "Completed"}}},
			},
		},
	}
	md, _ := Project(Input{Manifest: manifest.Manifest{Family: manifest.FamilyCMI5, CMI5: m}})
	require.Equal(t, "au1.html", md.LaunchURL)
	require.Equal(t, "COURSE1", md.Identifier)
	require.Equal(t, 0.7, md.CMI5.MasteryScores["AU1"])
	require.Equal(t, "Completed", md.CMI5.MoveOnCriteria["AU1"])
}

func TestProject_AICCPrefersFileNameOverWebLaunch(t *testing.T) {
	m := &manifest.AICCManifest{
		Course: manifest.AICCCourse{ID: "C1", Title: "AICC Course"},
		AssignableUnits: []manifest.AICCAssignableUnit{
			{SystemID: "AU1", FileName: "au1.html", WebLaunch: "fallback.html"},
			{SystemID: "AU2", FileName: "au2.html"},
		},
	}
	md, _ := Project(Input{Manifest: manifest.Manifest{Family: manifest.FamilyAICC, AICC: m}})
	require.Equal(t, "au1.html", md.LaunchURL)
	require.True(t, md.HasMultipleLaunchableUnits)
}

func TestProject_XAPIUsesFirstActivity(t *testing.T) {
	m := &manifest.XAPIManifest{
		Activities: []manifest.XAPIActivity{
			{ID: "a1", Name: xmlbind.TextType{{Lang: "en", Value: "Course"}}, Launch: xmlbind.TextType{{Lang: "en", Value: "index.html"}}},
		},
	}
	md, _ := Project(Input{Manifest: manifest.Manifest{Family: manifest.FamilyXAPI, XAPI: m, XAPIEnabled: true}})
	require.Equal(t, "Course", md.Title)
	require.Equal(t, "index.html", md.LaunchURL)
	require.True(t, md.XAPIEnabled)
}

func TestProject_SizeOnDiskIsCarriedThrough(t *testing.T) {
	size := uint64(4096)
	m := &manifest.SCORM12Manifest{Identifier: "C1"}
	md, _ := Project(Input{Manifest: manifest.Manifest{Family: manifest.FamilySCORM12, SCORM12: m}, SizeOnDisk: &size})
	require.NotNil(t, md.SizeOnDisk)
	require.Equal(t, uint64(4096), *md.SizeOnDisk)
}
