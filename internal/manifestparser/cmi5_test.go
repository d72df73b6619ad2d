package manifestparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcputney/elearning-module-parser/internal/manifest"
)

const cmi5Doc = `<?xml version="1.0"?>
<courseStructure>
  <course id="course1">
    <title><langstring lang="en">My Course</langstring></title>
  </course>
  <objectives>
    <objective id="obj1"><title><langstring lang="en">Objective One</langstring></title></objective>
  </objectives>
  <block id="block1">
    <title><langstring lang="en">Block One</langstring></title>
    <au id="au1" launchMethod="OwnWindow" moveOn="Completed" masteryScore="0.8">
      <title><langstring lang="en">AU One</langstring></title>
      <url>au1/index.html</url>
    </au>
    <block id="nested-block">
      <au id="au2" launchMethod="Bogus" moveOn="Completd">
        <url>au2/index.html</url>
      </au>
    </block>
  </block>
</courseStructure>`

func TestParseCMI5_BlockTreeAndObjectives(t *testing.T) {
	fa := memFA(map[string]string{"cmi5.xml": cmi5Doc})
	res, err := ParseCMI5(fa)
	require.NoError(t, err)
	require.Equal(t, manifest.FamilyCMI5, res.Manifest.Family)
	m := res.Manifest.CMI5
	require.Equal(t, "course1", m.CourseID)
	require.Equal(t, "My Course", m.CourseTitle.First())
	require.Len(t, m.Objectives, 1)
	require.Equal(t, "Objective One", m.Objectives[0].Title.First())

	require.Empty(t, m.Root.ID, "the root block wraps the document root, which carries no id attribute")
	require.Empty(t, m.Root.AUs)
	require.Len(t, m.Root.Blocks, 1)
	block1 := m.Root.Blocks[0]
	require.Equal(t, "block1", block1.ID)
	require.Len(t, block1.AUs, 1)
	require.Equal(t, "au1", block1.AUs[0].ID)
	require.Equal(t, "OwnWindow", block1.AUs[0].LaunchMethod)
	require.Equal(t, "Completed", block1.AUs[0].MoveOn)
	require.Len(t, block1.Blocks, 1)
	require.Equal(t, "au2", block1.Blocks[0].AUs[0].ID)
}

func TestParseCMI5_UnknownEnumValuesWarnWithSuggestion(t *testing.T) {
	fa := memFA(map[string]string{"cmi5.xml": cmi5Doc})
	res, err := ParseCMI5(fa)
	require.NoError(t, err)
	var launchWarn, moveOnWarn bool
	for _, w := range res.Warnings {
		if w.Field == "launchMethod" && w.Value == "Bogus" {
			launchWarn = true
		}
		if w.Field == "moveOn" && w.Value == "Completd" {
			moveOnWarn = true
			require.Contains(t, w.Message, "did you mean")
		}
	}
	require.True(t, launchWarn)
	require.True(t, moveOnWarn)
}

func TestParseCMI5_DefaultsWhenAttributesAbsent(t *testing.T) {
	doc := `<courseStructure><course id="c1"/><block id="b1"><au id="a1"><url>a.html</url></au></block></courseStructure>`
	fa := memFA(map[string]string{"cmi5.xml": doc})
	res, err := ParseCMI5(fa)
	require.NoError(t, err)
	au := res.Manifest.CMI5.Root.Blocks[0].AUs[0]
	require.Equal(t, "AnyWindow", au.LaunchMethod)
	require.Equal(t, "NotApplicable", au.MoveOn)
}
