package manifestparser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jcputney/elearning-module-parser/internal/manifest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const aiccCrs = `[Course]
Course_ID=AICC1
Course_Title=My AICC Course
Version=1.0
[Course_Description]
This course teaches things.
`

const aiccDes = "system_id,title,description\nAU1,Unit One,First unit\nAU2,Unit Two,Second unit\n"

const aiccAu = "system_id,file_name,command_line,mastery_score,max_time_allowed,time_limit_action,core_vendor,web_launch\n" +
	"AU1,au1/index.html,,80,01:00:00,continue,,au1/index.html\n"

const aiccCst = "block,member\nROOT,AU1\nROOT,AU2\n"

const aiccOrt = "objective_id,related_objectives\nOBJ1,OBJ2 OBJ3\n"

const aiccPre = "au,prerequisites\nAU2,AU1\n"

const aiccCmp = "au,completion_criteria\nAU1,Completed\n"

func aiccFiles() map[string]string {
	return map[string]string{
		"course.crs": aiccCrs,
		"course.des": aiccDes,
		"course.au":  aiccAu,
		"course.cst": aiccCst,
		"course.ort": aiccOrt,
		"course.pre": aiccPre,
		"course.cmp": aiccCmp,
	}
}

func TestParseAICC_AllSixTablesLoadConcurrently(t *testing.T) {
	fa := memFA(aiccFiles())
	res, err := ParseAICC(fa)
	require.NoError(t, err)
	require.Equal(t, manifest.FamilyAICC, res.Manifest.Family)
	m := res.Manifest.AICC

	require.Equal(t, "AICC1", m.Course.ID)
	require.Equal(t, "My AICC Course", m.Course.Title)
	require.Equal(t, "This course teaches things.", m.CourseDescription)

	require.Len(t, m.Descriptors, 2)
	require.Equal(t, "AU1", m.Descriptors[0].SystemID)

	require.Len(t, m.AssignableUnits, 1)
	require.Equal(t, "au1/index.html", m.AssignableUnits[0].FileName)
	require.NotNil(t, m.AssignableUnits[0].MasteryScore)

	require.Len(t, m.CourseStructure, 1)
	require.Equal(t, "ROOT", m.CourseStructure[0].BlockID)
	require.Equal(t, []string{"AU1", "AU2"}, m.CourseStructure[0].Members)

	require.Len(t, m.ObjectiveRelationships, 1)
	require.Equal(t, []string{"OBJ2", "OBJ3"}, m.ObjectiveRelationships[0].Related)

	require.Len(t, m.Prerequisites, 1)
	require.Equal(t, "AU2", m.Prerequisites[0].TargetID)
	require.Equal(t, "AU1", m.Prerequisites[0].Expression)

	require.Len(t, m.CompletionRequirements, 1)
	require.Equal(t, "Completed", m.CompletionRequirements[0].Criteria)
}

func TestParseAICC_MissingOptionalTablesAreNotFatal(t *testing.T) {
	fa := memFA(map[string]string{"course.crs": aiccCrs})
	res, err := ParseAICC(fa)
	require.NoError(t, err)
	require.Empty(t, res.Manifest.AICC.Descriptors)
	require.Empty(t, res.Manifest.AICC.AssignableUnits)
}

func TestParseAICC_XAPISiblingSetsFlag(t *testing.T) {
	files := aiccFiles()
	files["tincan.xml"] = "<tincan/>"
	fa := memFA(files)
	res, err := ParseAICC(fa)
	require.NoError(t, err)
	require.True(t, res.Manifest.XAPIEnabled)
}

func TestParseAICC_CaseInsensitiveExtensionMatching(t *testing.T) {
	fa := memFA(map[string]string{"COURSE.CRS": aiccCrs, "COURSE.DES": aiccDes})
	res, err := ParseAICC(fa)
	require.NoError(t, err)
	require.Equal(t, "AICC1", res.Manifest.AICC.Course.ID)
	require.Len(t, res.Manifest.AICC.Descriptors, 2)
}
