package manifestparser

import (
	"strings"

	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

// ParseSCORM12 builds a SCORM 1.2 manifest from imsmanifest.xml, including
// optional external LOM metadata referenced via <metadata><adlcp:location>
// (spec 4.5, SPEC_FULL's LOM enrichment addition).
func ParseSCORM12(fa fileaccess.FileAccess) (Result, error) {
	manifestPath, err := findManifestCaseInsensitive(fa, "imsmanifest.xml")
	if err != nil {
		return Result{}, err
	}
	root, err := openAndParseXML(fa, manifestPath)
	if err != nil {
		return Result{}, err
	}

	m := &manifest.SCORM12Manifest{
		Identifier: root.AttrOr("identifier", ""),
		Version:    root.AttrOr("version", ""),
		Base:       root.AttrOr("xml:base", ""),
	}
	if md := root.Child("metadata"); md != nil {
		m.Metadata = manifest.ScormMetadataRef{
			Schema:        strings.TrimSpace(md.ChildText("schema")),
			SchemaVersion: strings.TrimSpace(md.ChildText("schemaversion")),
			Location:      strings.TrimSpace(md.ChildText("location")),
		}
	}
	m.DefaultOrganization, m.Organizations = parseOrganizations(root)
	var resourceWarnings []Warning
	m.Resources, resourceWarnings = parseResources(root)

	res := Result{Warnings: resourceWarnings}
	for _, id := range collectUnresolvedIdentifierrefs(allItems(m.Organizations), m.Resources) {
		res.Warnings = append(res.Warnings, Warning{Field: "identifierref", Value: id, Message: "does not resolve to a resource"})
	}

	if m.Metadata.Location != "" {
		lomPath := resolveRelative(manifestPath, m.Metadata.Location)
		res.Events = append(res.Events, Event{Kind: "LoadingExternalMetadata", Path: lomPath})
		if lomRoot, err := openAndParseXML(fa, lomPath); err == nil {
			general := lomRoot.ChildPath("lom.general")
			if general == nil {
				general = lomRoot.Child("general")
			}
			if general != nil {
				m.LomTitle = xmlbind.ParseTextType(general.AllChildren("title"))
				m.LomDescription = xmlbind.ParseTextType(general.AllChildren("description"))
				m.LomKeywords = xmlbind.ParseTextType(general.AllChildren("keyword"))
			}
		}
		// external LOM is best-effort enrichment; a failure to load or parse
		// it does not fail the overall manifest parse.
	}

	xapiEnabled, _ := xapiSiblingExists(fa)
	res.Manifest = manifest.Manifest{Family: manifest.FamilySCORM12, SCORM12: m, XAPIEnabled: xapiEnabled}
	return res, nil
}

func allItems(orgs []manifest.Organization) []manifest.Item {
	var out []manifest.Item
	for _, o := range orgs {
		out = append(out, o.Items...)
	}
	return out
}

func xapiSiblingExists(fa fileaccess.FileAccess) (bool, error) {
	_, err := findManifestCaseInsensitive(fa, "tincan.xml")
	if err != nil {
		return false, nil
	}
	return true, nil
}
