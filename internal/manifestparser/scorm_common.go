package manifestparser

import (
	"strings"

	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/xmlbind"
)

// parseOrganizations walks <organizations><organization>...<item> into the
// manifest.Organization tree, preserving document order (spec 4.7).
func parseOrganizations(root *xmlbind.Node) (defaultOrg string, orgs []manifest.Organization) {
	orgsNode := root.Child("organizations")
	if orgsNode == nil {
		return "", nil
	}
	defaultOrg = orgsNode.AttrOr("default", "")
	for _, orgNode := range orgsNode.AllChildren("organization") {
		org := manifest.Organization{
			Identifier: orgNode.AttrOr("identifier", ""),
			Title:      strings.TrimSpace(orgNode.ChildText("title")),
		}
		for _, itemNode := range orgNode.AllChildren("item") {
			org.Items = append(org.Items, parseItem(itemNode))
		}
		orgs = append(orgs, org)
	}
	return defaultOrg, orgs
}

func parseItem(n *xmlbind.Node) manifest.Item {
	item := manifest.Item{
		Identifier:    n.AttrOr("identifier", ""),
		Identifierref: n.AttrOr("identifierref", ""),
		Title:         strings.TrimSpace(n.ChildText("title")),
		DataFromLMS:   strings.TrimSpace(n.ChildText("datafromlms")),
	}
	if v, ok := n.Attr("isvisible"); ok {
		item.HasIsVisible = true
		item.IsVisible = strings.EqualFold(v, "true")
	} else {
		item.IsVisible = true
	}
	if ms := n.ChildText("masteryscore"); strings.TrimSpace(ms) != "" {
		item.MasteryScore = parseOptionalFloat(ms)
	}
	if pre := n.ChildText("prerequisites"); strings.TrimSpace(pre) != "" {
		item.Prerequisites = strings.TrimSpace(pre)
	}
	if seqNode := n.Child("sequencing"); seqNode != nil {
		if idref, ok := seqNode.Attr("idref"); ok && idref != "" {
			item.SequencingIDRef = idref
		} else {
			seq := parseSequencing(seqNode)
			item.Sequencing = &seq
		}
	}
	for _, child := range n.AllChildren("item") {
		item.Items = append(item.Items, parseItem(child))
	}
	return item
}

var knownScormTypes = []string{"sco", "asset"}

// parseResources walks <resources><resource> into manifest.Resource,
// document order preserved. Unrecognized scormtype values are resolved
// against the known {sco,asset} vocabulary (spec 4.3's "unknown
// enumeration value" rule) and reported back as warnings.
func parseResources(root *xmlbind.Node) ([]manifest.Resource, []Warning) {
	resourcesNode := root.Child("resources")
	if resourcesNode == nil {
		return nil, nil
	}
	var out []manifest.Resource
	var warnings []Warning
	for _, rn := range resourcesNode.AllChildren("resource") {
		res := manifest.Resource{
			Identifier: rn.AttrOr("identifier", ""),
			Type:       rn.AttrOr("type", ""),
			Href:       rn.AttrOr("href", ""),
		}
		if st, ok := rn.Attr("scormtype"); ok && st != "" {
			resolved, suggestion, unknown := xmlbind.ResolveEnum(st, knownScormTypes)
			if unknown {
				warnings = append(warnings, Warning{Field: "scormType", Value: st, Message: "unknown value" + suggestionSuffix(suggestion)})
				res.ScormType = strings.ToLower(st)
			} else {
				res.ScormType = resolved
			}
		}
		if base, ok := rn.Attr("xml:base"); ok {
			res.Base = base
		} else if base, ok := rn.Attr("base"); ok {
			res.Base = base
		}
		for _, fn := range rn.AllChildren("file") {
			if href, ok := fn.Attr("href"); ok {
				res.Files = append(res.Files, href)
			}
		}
		for _, dn := range rn.AllChildren("dependency") {
			if ref, ok := dn.Attr("identifierref"); ok {
				res.Dependency = append(res.Dependency, ref)
			}
		}
		out = append(out, res)
	}
	return out, warnings
}

// resourceByID finds a resource by identifier, or nil.
func resourceByID(resources []manifest.Resource, id string) *manifest.Resource {
	for i := range resources {
		if resources[i].Identifier == id {
			return &resources[i]
		}
	}
	return nil
}

// collectUnresolvedIdentifierrefs returns item identifierrefs that do not
// resolve to any resource (spec 8's invariant). The parsers surface them
// as warnings only; no error is raised for them.
func collectUnresolvedIdentifierrefs(items []manifest.Item, resources []manifest.Resource) []string {
	var out []string
	var walk func([]manifest.Item)
	walk = func(items []manifest.Item) {
		for _, it := range items {
			if it.Identifierref != "" && resourceByID(resources, it.Identifierref) == nil {
				out = append(out, it.Identifierref)
			}
			walk(it.Items)
		}
	}
	walk(items)
	return out
}

func countScoResources(resources []manifest.Resource) int {
	n := 0
	for _, r := range resources {
		if r.ScormType == "sco" {
			n++
		}
	}
	return n
}

// parseSequencing decodes an inline or collection <sequencing> element
// (SCORM 2004 only).
func parseSequencing(n *xmlbind.Node) manifest.Sequencing {
	seq := manifest.Sequencing{ID: n.AttrOr("id", "")}

	if cm := n.Child("controlmode"); cm != nil {
		seq.ControlMode = &manifest.ControlMode{
			Choice:      boolAttr(cm, "choice", false),
			ChoiceExit:  boolAttr(cm, "choiceexit", true),
			Flow:        boolAttr(cm, "flow", false),
			ForwardOnly: boolAttr(cm, "forwardonly", false),
			UseCurrentAttemptObjectiveInfo: boolAttr(cm, "usecurrentattemptobjectiveinfo", true),
			UseCurrentAttemptProgressInfo:  boolAttr(cm, "usecurrentattemptprogressinfo", true),
		}
	}
	seq.SequencingRules = n.Child("sequencingrules") != nil
	seq.LimitConditions = n.Child("limitconditions") != nil
	seq.RandomizationControls = n.Child("randomizationcontrols") != nil
	seq.RollupConsiderations = n.Child("rollupconsiderations") != nil
	seq.ConstrainChoiceConsiderations = n.Child("constrainchoiceconsiderations") != nil
	seq.ADLObjectives = n.Child("objectives") != nil && n.Child("objectives").Child("adlobjectives") != nil

	if dc := n.Child("deliverycontrols"); dc != nil {
		seq.DeliveryControls = &manifest.DeliveryControls{
			Tracked:                boolAttr(dc, "tracked", true),
			CompletionSetByContent: boolAttr(dc, "completionsetbycontent", false),
			ObjectiveSetByContent:  boolAttr(dc, "objectivesetbycontent", false),
		}
	}
	if p := n.Child("presentation"); p != nil {
		nav := map[string]string{}
		if lms := p.Child("navigationinterface"); lms != nil {
			for k, v := range lms.Attrs {
				nav[k] = v
			}
		}
		seq.Presentation = &manifest.Presentation{NavigationInterface: nav}
	}
	if ct := n.Child("completionthreshold"); ct != nil {
		mpm, _ := xmlbind.ParseMeasure(ct.AttrOr("minprogressmeasure", ""))
		pw, _ := xmlbind.ParsePercent(ct.AttrOr("progressweight", "1"))
		seq.CompletionThreshold = &manifest.CompletionThreshold{
			CompletedByMeasure: boolAttr(ct, "completedbymeasure", false),
			MinProgressMeasure: mpm,
			ProgressWeight:     pw,
		}
	}
	if obj := n.Child("objectives"); obj != nil {
		objs := &manifest.Objectives{}
		for _, on := range obj.AllChildren("primaryobjective") {
			o := parseObjective(on)
			objs.Primary = &o
		}
		for _, on := range obj.AllChildren("objective") {
			objs.Objective = append(objs.Objective, parseObjective(on))
		}
		seq.Objectives = objs
	}
	if rr := n.Child("rollupRules"); rr == nil {
		rr = n.Child("rolluprules")
		if rr != nil {
			seq.RollupRules = parseRollupRules(rr)
		}
	} else {
		seq.RollupRules = parseRollupRules(rr)
	}
	return seq
}

func parseObjective(n *xmlbind.Node) manifest.Objective {
	o := manifest.Objective{
		ObjectiveID:        n.AttrOr("objectiveid", ""),
		SatisfiedByMeasure: boolAttr(n, "satisfiedbymeasure", false),
	}
	if mm := n.Child("minnormalizedmeasure"); mm != nil {
		o.MinNormalizedMeasure, _ = xmlbind.ParseMeasure(strings.TrimSpace(mm.Text))
	}
	if mapInfos := n.AllChildren("mapinfo"); len(mapInfos) > 0 {
		for _, mi := range mapInfos {
			o.MapInfo = append(o.MapInfo, manifest.ObjectiveMapInfo{
				TargetObjectiveID:      mi.AttrOr("targetobjectiveid", ""),
				ReadSatisfiedStatus:    boolAttr(mi, "readsatisfiedstatus", false),
				WriteSatisfiedStatus:   boolAttr(mi, "writesatisfiedstatus", false),
				ReadNormalizedMeasure:  boolAttr(mi, "readnormalizedmeasure", false),
				WriteNormalizedMeasure: boolAttr(mi, "writenormalizedmeasure", false),
			})
		}
	}
	return o
}

func parseRollupRules(n *xmlbind.Node) *manifest.RollupRules {
	rr := &manifest.RollupRules{
		RollupObjectiveSatisfied: boolAttr(n, "rollupobjectivesatisfied", true),
		RollupProgressCompletion: boolAttr(n, "rollupprogresscompletion", true),
	}
	rr.ObjectiveMeasureWeight, _ = xmlbind.ParsePercent(n.AttrOr("objectivemeasureweight", "1"))
	for _, ruleNode := range n.AllChildren("rolluprule") {
		rule := manifest.RollupRule{
			ChildActivitySet: "all",
		}
		if cond := ruleNode.Child("rollupconditions"); cond != nil {
			rule.ConditionCombination = cond.AttrOr("conditioncombination", "any")
			for _, rc := range cond.AllChildren("rollupcondition") {
				if cn, ok := rc.Attr("condition"); ok {
					rule.RollupCondition = append(rule.RollupCondition, cn)
				}
			}
		}
		// childActivitySet/minimumCount/minimumPercent are direct attributes
		// of rollupRule itself, siblings of rollupConditions, not nested
		// under it.
		if cas, ok := ruleNode.Attr("childactivityset"); ok {
			rule.ChildActivitySet = cas
		}
		if mc, ok := ruleNode.Attr("minimumcount"); ok {
			if f := parseOptionalFloat(mc); f != nil {
				rule.MinimumCount = int(*f)
			}
		}
		if mp, ok := ruleNode.Attr("minimumpercent"); ok {
			rule.MinimumPercent, _ = xmlbind.ParsePercent(mp)
		}
		if act := ruleNode.Child("rollupaction"); act != nil {
			if a, ok := act.Attr("action"); ok {
				rule.RollupAction = a
			}
		}
		rr.RollupRule = append(rr.RollupRule, rule)
	}
	return rr
}
