package manifestparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
)

func memFA(files map[string]string) fileaccess.FileAccess {
	b := make(map[string][]byte, len(files))
	for k, v := range files {
		b[k] = []byte(v)
	}
	return fileaccess.NewMemFileAccess("", b)
}

const scorm12Manifest = `<?xml version="1.0"?>
<manifest identifier="COURSE1" version="1.0" xml:base="content/">
  <metadata><schema>ADL SCORM</schema><schemaversion>1.2</schemaversion></metadata>
  <organizations default="ORG1">
    <organization identifier="ORG1"><title>Course One</title>
      <item identifier="ITEM1" identifierref="RES1"><title>Lesson 1</title></item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="RES1" type="webcontent" scormtype="sco" href="index.html" xml:base="lesson1/">
      <file href="index.html"/>
    </resource>
  </resources>
</manifest>`

func TestParseSCORM12_BasicManifest(t *testing.T) {
	fa := memFA(map[string]string{"imsmanifest.xml": scorm12Manifest})
	res, err := ParseSCORM12(fa)
	require.NoError(t, err)
	require.Equal(t, manifest.FamilySCORM12, res.Manifest.Family)
	m := res.Manifest.SCORM12
	require.Equal(t, "COURSE1", m.Identifier)
	require.Equal(t, "content/", m.Base)
	require.Len(t, m.Organizations, 1)
	require.Equal(t, "Course One", m.Organizations[0].Title)
	require.Len(t, m.Resources, 1)
	require.Equal(t, "sco", m.Resources[0].ScormType)
	require.Equal(t, "lesson1/", m.Resources[0].Base)
}

func TestParseSCORM12_CaseInsensitiveManifestFilename(t *testing.T) {
	fa := memFA(map[string]string{"IMSManifest.xml": scorm12Manifest})
	_, err := ParseSCORM12(fa)
	require.NoError(t, err)
}

func TestParseSCORM12_UnresolvedIdentifierrefWarns(t *testing.T) {
	doc := `<manifest identifier="C1"><organizations default="O1">
		<organization identifier="O1"><item identifier="I1" identifierref="MISSING"/></organization>
	</organizations><resources/></manifest>`
	fa := memFA(map[string]string{"imsmanifest.xml": doc})
	res, err := ParseSCORM12(fa)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, "identifierref", res.Warnings[0].Field)
	require.Equal(t, "MISSING", res.Warnings[0].Value)
}

func TestParseSCORM12_UnknownScormTypeWarnsButIsNotFatal(t *testing.T) {
	doc := `<manifest identifier="C1"><organizations default="O1">
		<organization identifier="O1"><item identifier="I1" identifierref="R1"/></organization>
	</organizations>
	<resources><resource identifier="R1" scormtype="scoo" href="a.html"/></resources></manifest>`
	fa := memFA(map[string]string{"imsmanifest.xml": doc})
	res, err := ParseSCORM12(fa)
	require.NoError(t, err)
	require.Equal(t, "scoo", res.Manifest.SCORM12.Resources[0].ScormType)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, "scormType", res.Warnings[0].Field)
}

func TestParseSCORM12_ExternalLOMMetadataEnrichment(t *testing.T) {
	doc := `<manifest identifier="C1"><metadata><schema>ADL SCORM</schema><schemaversion>1.2</schemaversion><location>lom.xml</location></metadata>
		<organizations/><resources/></manifest>`
	lom := `<lom><general><title><langstring lang="en">External Title</langstring></title></general></lom>`
	fa := memFA(map[string]string{"imsmanifest.xml": doc, "lom.xml": lom})
	res, err := ParseSCORM12(fa)
	require.NoError(t, err)
	require.Equal(t, "External Title", res.Manifest.SCORM12.LomTitle.First())
	require.Len(t, res.Events, 1)
	require.Equal(t, "LoadingExternalMetadata", res.Events[0].Kind)
}

func TestParseSCORM12_MissingExternalLOMIsNotFatal(t *testing.T) {
	doc := `<manifest identifier="C1"><metadata><location>missing-lom.xml</location></metadata>
		<organizations/><resources/></manifest>`
	fa := memFA(map[string]string{"imsmanifest.xml": doc})
	res, err := ParseSCORM12(fa)
	require.NoError(t, err, "a broken external LOM reference degrades to best-effort, not a parse failure")
	require.Empty(t, res.Manifest.SCORM12.LomTitle)
}

func TestParseSCORM12_NoManifestFileFails(t *testing.T) {
	fa := memFA(map[string]string{"readme.txt": "nothing"})
	_, err := ParseSCORM12(fa)
	require.Error(t, err)
}

func TestParseSCORM12_XAPISiblingSetsFlag(t *testing.T) {
	fa := memFA(map[string]string{"imsmanifest.xml": scorm12Manifest, "tincan.xml": "<tincan/>"})
	res, err := ParseSCORM12(fa)
	require.NoError(t, err)
	require.True(t, res.Manifest.XAPIEnabled)
}
