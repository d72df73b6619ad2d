// Package projector implements the metadata projector (component C8):
// flattening a family's manifest object model, activity tree, and
// sequencing analysis into the consumer-facing internal/metadata types.
package projector

import (
	"strings"

	"github.com/jcputney/elearning-module-parser/internal/activitytree"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/metadata"
	"github.com/jcputney/elearning-module-parser/internal/sequencing"
	"github.com/jcputney/elearning-module-parser/internal/types"
)

// Input bundles everything a Project call needs from the upstream
// pipeline stages (C5's manifest, C7's tree, C6's analysis).
type Input struct {
	Manifest    manifest.Manifest
	Tree        *activitytree.Tree
	Sequencing  *sequencing.Analysis
	SizeOnDisk  *uint64
}

// Project produces the ModuleMetadata for whichever family Input.Manifest
// carries, plus a ValidationReport seeded with the soft issues the
// projection itself can detect (missing launch URL, in particular).
func Project(in Input) (*metadata.ModuleMetadata, *metadata.ValidationReport) {
	report := &metadata.ValidationReport{}
	var md *metadata.ModuleMetadata

	switch in.Manifest.Family {
	case manifest.FamilySCORM12:
		md = projectSCORM12(in.Manifest.SCORM12)
	case manifest.FamilySCORM2004:
		md = projectSCORM2004(in.Manifest.SCORM2004, in.Tree, in.Sequencing)
	case manifest.FamilyCMI5:
		md = projectCMI5(in.Manifest.CMI5)
	case manifest.FamilyAICC:
		md = projectAICC(in.Manifest.AICC)
	case manifest.FamilyXAPI:
		md = projectXAPI(in.Manifest.XAPI)
	}

	md.XAPIEnabled = in.Manifest.XAPIEnabled
	md.SizeOnDisk = in.SizeOnDisk

	if md.LaunchURL == "" {
		report.AddWarning("launchUrl", "", "no launch URL could be determined")
	}
	return md, report
}

// --- SCORM 1.2 ----------------------------------------------------------

func projectSCORM12(m *manifest.SCORM12Manifest) *metadata.ModuleMetadata {
	org := defaultOrg(m.Organizations, m.DefaultOrganization)

	title := m.Identifier
	if org != nil && org.Title != "" {
		title = org.Title
	}
	if title == "" {
		title = m.LomTitle.First()
	}
	description := m.LomDescription.First()

	launchURL := ""
	var leaf *manifest.Item
	if org != nil {
		leaf = firstLeafItem(org.Items)
	}
	if leaf != nil {
		if res := findResource(m.Resources, leaf.Identifierref); res != nil {
			launchURL = joinBase(joinBase(m.Base, res.Base), res.Href)
		}
	}

	ext := &metadata.SCORM12Extension{
		Prerequisites: map[string]string{},
		MasteryScores: map[string]float64{},
		CustomData:    map[string]string{},
		LomTitle:      m.LomTitle.First(),
		LomDescription: m.LomDescription.First(),
	}
	for _, lk := range m.LomKeywords {
		ext.LomKeywords = append(ext.LomKeywords, lk.Value)
	}
	var walk func([]manifest.Item)
	walk = func(items []manifest.Item) {
		for _, it := range items {
			if it.Prerequisites != "" {
				ext.Prerequisites[it.Identifier] = it.Prerequisites
			}
			if it.MasteryScore != nil {
				ext.MasteryScores[it.Identifier] = *it.MasteryScore
			}
			if it.DataFromLMS != "" {
				ext.CustomData[it.Identifier] = it.DataFromLMS
			}
			walk(it.Items)
		}
	}
	if org != nil {
		walk(org.Items)
	}

	return &metadata.ModuleMetadata{
		Title:                      title,
		Description:                description,
		LaunchURL:                  launchURL,
		Identifier:                 m.Identifier,
		Version:                    m.Version,
		ModuleType:                 types.ModuleTypeSCORM12,
		HasMultipleLaunchableUnits: countSco(m.Resources) >= 2,
		SCORM12:                    ext,
	}
}

// --- SCORM 2004 ----------------------------------------------------------

func projectSCORM2004(m *manifest.SCORM2004Manifest, tree *activitytree.Tree, analysis *sequencing.Analysis) *metadata.ModuleMetadata {
	base := projectSCORM12(&m.SCORM12Manifest)
	base.ModuleType = types.ModuleTypeSCORM2004

	ext := &metadata.SCORM2004Extension{}
	if analysis != nil {
		ext.SequencingLevel = analysis.Level
		ext.SequencingIndicators = analysis.Indicators.Slice()
	}
	if tree != nil {
		ext.ActivityNodeCount = tree.Count()
	}

	seen := map[string]struct{}{}
	var walkObjectives func(*manifest.Objectives)
	walkObjectives = func(objs *manifest.Objectives) {
		if objs == nil {
			return
		}
		collect := func(o manifest.Objective) {
			for _, mi := range o.MapInfo {
				if mi.TargetObjectiveID == "" {
					continue
				}
				if _, ok := seen[mi.TargetObjectiveID]; !ok {
					seen[mi.TargetObjectiveID] = struct{}{}
					ext.GlobalObjectiveIDs = append(ext.GlobalObjectiveIDs, mi.TargetObjectiveID)
				}
			}
		}
		if objs.Primary != nil {
			collect(*objs.Primary)
		}
		for _, o := range objs.Objective {
			collect(o)
		}
	}
	for _, seq := range m.SequencingCollection {
		walkObjectives(seq.Objectives)
	}
	var walkItems func([]manifest.Item)
	walkItems = func(items []manifest.Item) {
		for _, it := range items {
			if it.Sequencing != nil {
				walkObjectives(it.Sequencing.Objectives)
			}
			if it.Identifierref != "" {
				if r := findResource(m.Resources, it.Identifierref); r != nil && r.ScormType == "sco" {
					ext.ScoIDs = append(ext.ScoIDs, r.Identifier)
				}
			}
			walkItems(it.Items)
		}
	}
	org := defaultOrg(m.Organizations, m.DefaultOrganization)
	if org != nil {
		walkItems(org.Items)
	}

	base.SCORM2004 = ext
	base.SCORM12 = nil
	return base
}

// --- cmi5 -----------------------------------------------------------

func projectCMI5(m *manifest.CMI5Manifest) *metadata.ModuleMetadata {
	title := m.CourseTitle.First()
	if title == "" {
		title = m.CourseID
	}

	ext := &metadata.CMI5Extension{
		AssignableUnitURLs: map[string]string{},
		AUDetails:          map[string]metadata.CMI5AUDetail{},
		MasteryScores:      map[string]float64{},
		MoveOnCriteria:     map[string]string{},
		LaunchMethods:      map[string]string{},
		ActivityTypes:      map[string]string{},
		LaunchParameters:   map[string]string{},
	}
	for _, o := range m.Objectives {
		ext.ObjectiveIDs = append(ext.ObjectiveIDs, o.ID)
	}

	var launchURL string
	auCount := 0
	var walk func(manifest.CMI5Block)
	walk = func(b manifest.CMI5Block) {
		if b.ID != "" {
			ext.BlockIDs = append(ext.BlockIDs, b.ID)
		}
		for _, au := range b.AUs {
			auCount++
			ext.AssignableUnitIDs = append(ext.AssignableUnitIDs, au.ID)
			ext.AssignableUnitURLs[au.ID] = au.URL
			ext.AUDetails[au.ID] = metadata.CMI5AUDetail{ID: au.ID, Title: au.Title.First(), URL: au.URL}
			if au.MasteryScore != nil {
				ext.MasteryScores[au.ID] = float64(*au.MasteryScore)
			}
			ext.MoveOnCriteria[au.ID] = au.MoveOn
			ext.LaunchMethods[au.ID] = au.LaunchMethod
			ext.ActivityTypes[au.ID] = au.ActivityType
			ext.LaunchParameters[au.ID] = au.LaunchParameters
			if launchURL == "" {
				launchURL = au.URL
			}
		}
		for _, child := range b.Blocks {
			walk(child)
		}
	}
	walk(m.Root)

	return &metadata.ModuleMetadata{
		Title:                      title,
		Description:                m.CourseDescription.First(),
		LaunchURL:                  launchURL,
		Identifier:                 m.CourseID,
		ModuleType:                 types.ModuleTypeCMI5,
		HasMultipleLaunchableUnits: false,
		CMI5:                       ext,
	}
}

// --- AICC -----------------------------------------------------------

func projectAICC(m *manifest.AICCManifest) *metadata.ModuleMetadata {
	ext := &metadata.AICCExtension{
		AssignableUnitNames:    map[string]string{},
		Prerequisites:          map[string]string{},
		CompletionRequirements: map[string]string{},
	}
	for _, au := range m.AssignableUnits {
		ext.AssignableUnitIDs = append(ext.AssignableUnitIDs, au.SystemID)
	}
	for _, d := range m.Descriptors {
		if d.Title != "" {
			ext.AssignableUnitNames[d.SystemID] = d.Title
		}
	}
	for _, p := range m.Prerequisites {
		ext.Prerequisites[p.TargetID] = p.Expression
	}
	for _, c := range m.CompletionRequirements {
		ext.CompletionRequirements[c.AUID] = c.Criteria
	}

	launchURL := ""
	if len(m.AssignableUnits) > 0 {
		first := m.AssignableUnits[0]
		if first.FileName != "" {
			launchURL = first.FileName
		} else {
			launchURL = first.WebLaunch
		}
	}

	title := m.Course.Title
	if title == "" {
		title = m.Course.ID
	}

	return &metadata.ModuleMetadata{
		Title:                      title,
		Description:                m.CourseDescription,
		LaunchURL:                  launchURL,
		Identifier:                 m.Course.ID,
		Version:                    m.Course.Version,
		ModuleType:                 types.ModuleTypeAICC,
		HasMultipleLaunchableUnits: len(m.AssignableUnits) >= 2,
		AICC:                       ext,
	}
}

// --- xAPI -----------------------------------------------------------

func projectXAPI(m *manifest.XAPIManifest) *metadata.ModuleMetadata {
	title, description, launchURL, id := "", "", "", ""
	if len(m.Activities) > 0 {
		a := m.Activities[0]
		title = a.Name.First()
		description = a.Description.First()
		launchURL = a.Launch.First()
		id = a.ID
	}
	return &metadata.ModuleMetadata{
		Title:       title,
		Description: description,
		LaunchURL:   launchURL,
		Identifier:  id,
		ModuleType:  types.ModuleTypeXAPI,
	}
}

// --- shared helpers -------------------------------------------------

func defaultOrg(orgs []manifest.Organization, defaultID string) *manifest.Organization {
	if len(orgs) == 0 {
		return nil
	}
	for i := range orgs {
		if orgs[i].Identifier == defaultID {
			return &orgs[i]
		}
	}
	return &orgs[0]
}

func firstLeafItem(items []manifest.Item) *manifest.Item {
	for i := range items {
		if items[i].Identifierref != "" {
			return &items[i]
		}
		if leaf := firstLeafItem(items[i].Items); leaf != nil {
			return leaf
		}
	}
	return nil
}

func findResource(resources []manifest.Resource, id string) *manifest.Resource {
	for i := range resources {
		if resources[i].Identifier == id {
			return &resources[i]
		}
	}
	return nil
}

func countSco(resources []manifest.Resource) int {
	n := 0
	for _, r := range resources {
		if r.ScormType == "sco" {
			n++
		}
	}
	return n
}

// joinBase implements the Open Question resolution: concatenate a base
// under an outer base when both are present, matching RFC 3986 base-URI
// composition rather than letting one silently override the other.
// Callers nest it to compose manifest base, resource base, and href in
// that order.
func joinBase(base, href string) string {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return href
	}
	return base + "/" + href
}
