package manifestparser

import (
	"strings"

	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

// ParseSCORM2004 builds a SCORM 2004 manifest: the same content-packaging
// shape as SCORM 1.2 plus the sequencing collection and namespace/schema
// metadata C6 needs.
func ParseSCORM2004(fa fileaccess.FileAccess) (Result, error) {
	manifestPath, err := findManifestCaseInsensitive(fa, "imsmanifest.xml")
	if err != nil {
		return Result{}, err
	}
	root, err := openAndParseXML(fa, manifestPath)
	if err != nil {
		return Result{}, err
	}

	m := &manifest.SCORM2004Manifest{}
	m.Identifier = root.AttrOr("identifier", "")
	m.Version = root.AttrOr("version", "")
	m.Base = root.AttrOr("xml:base", "")
	if md := root.Child("metadata"); md != nil {
		m.Metadata = manifest.ScormMetadataRef{
			Schema:        strings.TrimSpace(md.ChildText("schema")),
			SchemaVersion: strings.TrimSpace(md.ChildText("schemaversion")),
		}
	}
	m.DefaultOrganization, m.Organizations = parseOrganizations(root)
	var resourceWarnings []Warning
	m.Resources, resourceWarnings = parseResources(root)
	m.NamespaceURIs = xmlbind.FindNamespaceURIs(root)
	m.SchemaLocation = root.AttrOr("schemalocation", "")

	if sc := root.Child("sequencingcollection"); sc != nil {
		for _, sn := range sc.AllChildren("sequencing") {
			m.SequencingCollection = append(m.SequencingCollection, parseSequencing(sn))
		}
	}

	res := Result{Warnings: resourceWarnings}
	items := allItems(m.Organizations)
	for _, id := range collectUnresolvedIdentifierrefs(items, m.Resources) {
		res.Warnings = append(res.Warnings, Warning{Field: "identifierref", Value: id, Message: "does not resolve to a resource"})
	}
	for _, id := range collectUnresolvedIDRefs(items, m.SequencingCollection) {
		res.Warnings = append(res.Warnings, Warning{Field: "sequencing.IDRef", Value: id, Message: "does not resolve inside sequencingCollection"})
	}

	xapiEnabled, _ := xapiSiblingExists(fa)
	res.Manifest = manifest.Manifest{Family: manifest.FamilySCORM2004, SCORM2004: m, XAPIEnabled: xapiEnabled}
	return res, nil
}

// SequencingByID finds a sequencingCollection entry by ID, or nil.
func SequencingByID(collection []manifest.Sequencing, id string) *manifest.Sequencing {
	for i := range collection {
		if collection[i].ID == id {
			return &collection[i]
		}
	}
	return nil
}

func collectUnresolvedIDRefs(items []manifest.Item, collection []manifest.Sequencing) []string {
	var out []string
	var walk func([]manifest.Item)
	walk = func(items []manifest.Item) {
		for _, it := range items {
			if it.SequencingIDRef != "" && SequencingByID(collection, it.SequencingIDRef) == nil {
				out = append(out, it.SequencingIDRef)
			}
			walk(it.Items)
		}
	}
	walk(items)
	return out
}
