package manifestparser

import (
	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

// ParseXAPI builds the xAPI/TinCan manifest from tincan.xml when xAPI is
// the package's primary classification (spec 3's "xAPI (tincan.xml)").
func ParseXAPI(fa fileaccess.FileAccess) (Result, error) {
	manifestPath, err := findManifestCaseInsensitive(fa, "tincan.xml")
	if err != nil {
		return Result{}, err
	}
	root, err := openAndParseXML(fa, manifestPath)
	if err != nil {
		return Result{}, err
	}

	m := &manifest.XAPIManifest{}
	actNode := root.Child("activities")
	if actNode == nil {
		actNode = root
	}
	for _, an := range actNode.AllChildren("activity") {
		activity := manifest.XAPIActivity{
			ID:   an.AttrOr("id", ""),
			Type: an.AttrOr("type", ""),
		}
		if def := an.Child("name"); def != nil {
			activity.Name = xmlbind.ParseTextType([]*xmlbind.Node{def})
		}
		if def := an.Child("description"); def != nil {
			activity.Description = xmlbind.ParseTextType([]*xmlbind.Node{def})
		}
		if launch := an.AllChildren("launch"); len(launch) > 0 {
			activity.Launch = xmlbind.ParseTextType(launch)
		}
		m.Activities = append(m.Activities, activity)
	}

	res := Result{Manifest: manifest.Manifest{Family: manifest.FamilyXAPI, XAPI: m, XAPIEnabled: true}}
	return res, nil
}
