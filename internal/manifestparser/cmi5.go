package manifestparser

import (
	"strings"

	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

// ParseCMI5 builds the cmi5 courseStructure manifest: a course header, a
// flat objectives list, and a recursive tree of block/au (spec 3).
func ParseCMI5(fa fileaccess.FileAccess) (Result, error) {
	manifestPath, err := findManifestCaseInsensitive(fa, "cmi5.xml")
	if err != nil {
		return Result{}, err
	}
	root, err := openAndParseXML(fa, manifestPath)
	if err != nil {
		return Result{}, err
	}

	m := &manifest.CMI5Manifest{}
	courseNode := root.Child("course")
	if courseNode != nil {
		m.CourseID = courseNode.AttrOr("id", "")
		m.CourseTitle = xmlbind.ParseTextType(courseNode.AllChildren("title"))
		m.CourseDescription = xmlbind.ParseTextType(courseNode.AllChildren("description"))
	}
	if objs := root.Child("objectives"); objs != nil {
		for _, on := range objs.AllChildren("objective") {
			m.Objectives = append(m.Objectives, manifest.CMI5Objective{
				ID:          on.AttrOr("id", ""),
				Title:       xmlbind.ParseTextType(on.AllChildren("title")),
				Description: xmlbind.ParseTextType(on.AllChildren("description")),
			})
		}
	}

	m.Root = parseCMI5Block(root)

	res := Result{Manifest: manifest.Manifest{Family: manifest.FamilyCMI5, CMI5: m}}
	res.Warnings = append(res.Warnings, checkCMI5Enums(m.Root)...)
	return res, nil
}

var knownLaunchMethods = []string{"AnyWindow", "OwnWindow"}
var knownMoveOnValues = []string{"NotApplicable", "Passed", "Completed", "CompletedAndPassed", "CompletedOrPassed"}

// checkCMI5Enums resolves each AU's launchMethod/moveOn against the known
// cmi5 vocabulary (spec 4.5's "unknown enumeration value" warning) via
// xmlbind.ResolveEnum. An exact case-insensitive match is replaced by its
// canonical spelling; anything else keeps its raw value and adds a
// warning naming the closest known value, without failing the parse.
func checkCMI5Enums(b manifest.CMI5Block) []Warning {
	var warnings []Warning
	for i := range b.AUs {
		au := &b.AUs[i]
		if resolved, suggestion, unknown := xmlbind.ResolveEnum(au.LaunchMethod, knownLaunchMethods); unknown {
			warnings = append(warnings, Warning{Field: "launchMethod", Value: au.LaunchMethod, Message: "unknown value" + suggestionSuffix(suggestion)})
		} else {
			au.LaunchMethod = resolved
		}
		if resolved, suggestion, unknown := xmlbind.ResolveEnum(au.MoveOn, knownMoveOnValues); unknown {
			warnings = append(warnings, Warning{Field: "moveOn", Value: au.MoveOn, Message: "unknown value" + suggestionSuffix(suggestion)})
		} else {
			au.MoveOn = resolved
		}
	}
	for _, child := range b.Blocks {
		warnings = append(warnings, checkCMI5Enums(child)...)
	}
	return warnings
}

func suggestionSuffix(suggestion string) string {
	if suggestion == "" {
		return ""
	}
	return " (did you mean " + suggestion + "?)"
}

func parseCMI5Block(n *xmlbind.Node) manifest.CMI5Block {
	block := manifest.CMI5Block{
		ID:          n.AttrOr("id", ""),
		Title:       xmlbind.ParseTextType(n.AllChildren("title")),
		Description: xmlbind.ParseTextType(n.AllChildren("description")),
	}
	for _, bn := range n.AllChildren("block") {
		block.Blocks = append(block.Blocks, parseCMI5Block(bn))
	}
	for _, an := range n.AllChildren("au") {
		block.AUs = append(block.AUs, parseCMI5AU(an))
	}
	return block
}

func parseCMI5AU(n *xmlbind.Node) manifest.CMI5AU {
	au := manifest.CMI5AU{
		ID:               n.AttrOr("id", ""),
		URL:              strings.TrimSpace(n.ChildText("url")),
		LaunchMethod:     n.AttrOr("launchmethod", "AnyWindow"),
		MoveOn:           n.AttrOr("moveon", "NotApplicable"),
		ActivityType:     n.AttrOr("activitytype", ""),
		LaunchParameters: strings.TrimSpace(n.ChildText("launchparameters")),
		EntitlementKey:   strings.TrimSpace(n.ChildText("entitlementkey")),
		Title:            xmlbind.ParseTextType(n.AllChildren("title")),
		Description:      xmlbind.ParseTextType(n.AllChildren("description")),
	}
	if ms, ok := n.Attr("masteryscore"); ok {
		au.MasteryScore = parseOptionalPercent(ms)
	}
	return au
}
