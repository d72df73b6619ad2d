package manifestparser

import (
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jcputney/elearning-module-parser/internal/aicc"
	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
)

// ParseAICC builds the AICC manifest from its table set. The .crs course
// record and the six secondary tables (.des/.au/.cst/.ort/.pre/.cmp) are
// independent of one another, so all seven load concurrently via
// errgroup.Group — the sanctioned internal concurrency
// named in the concurrency model.
func ParseAICC(fa fileaccess.FileAccess) (Result, error) {
	entries, err := fa.ListFiles("")
	if err != nil {
		return Result{}, err
	}

	filesByExt := groupByExt(entries)

	var (
		course      manifest.AICCCourse
		courseDesc  string
		descriptors []manifest.AICCDescriptor
		aus         []manifest.AICCAssignableUnit
		structure   []manifest.AICCStructureEntry
		objRels     []manifest.AICCObjectiveRelationship
		prereqs     []manifest.AICCPrerequisite
		completions []manifest.AICCCompletionRequirement
	)

	g := &errgroup.Group{}
	g.Go(func() error {
		c, desc, err := readCourseTable(fa, filesByExt[".crs"])
		if err != nil {
			return err
		}
		course, courseDesc = c, desc
		return nil
	})
	g.Go(func() error {
		var err error
		descriptors, err = readDescriptorTable(fa, filesByExt[".des"])
		return err
	})
	g.Go(func() error {
		var err error
		aus, err = readAUTable(fa, filesByExt[".au"])
		return err
	})
	g.Go(func() error {
		var err error
		structure, err = readStructureTable(fa, filesByExt[".cst"])
		return err
	})
	g.Go(func() error {
		var err error
		objRels, err = readObjectiveRelationships(fa, filesByExt[".ort"])
		return err
	})
	g.Go(func() error {
		var err error
		prereqs, err = readPrerequisiteTable(fa, filesByExt[".pre"])
		return err
	})
	g.Go(func() error {
		var err error
		completions, err = readCompletionTable(fa, filesByExt[".cmp"])
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	m := &manifest.AICCManifest{
		Course:                 course,
		CourseDescription:      courseDesc,
		Descriptors:            descriptors,
		AssignableUnits:        aus,
		CourseStructure:        structure,
		ObjectiveRelationships: objRels,
		Prerequisites:          prereqs,
		CompletionRequirements: completions,
	}

	xapiEnabled, _ := xapiSiblingExists(fa)
	return Result{Manifest: manifest.Manifest{Family: manifest.FamilyAICC, AICC: m, XAPIEnabled: xapiEnabled}}, nil
}

func groupByExt(entries []string) map[string][]string {
	out := map[string][]string{}
	for _, e := range entries {
		lower := strings.ToLower(e)
		for _, ext := range []string{".crs", ".des", ".au", ".cst", ".ort", ".pre", ".cmp"} {
			if strings.HasSuffix(lower, ext) {
				out[ext] = append(out[ext], e)
			}
		}
	}
	for _, v := range out {
		sort.Strings(v)
	}
	return out
}

func readCourseTable(fa fileaccess.FileAccess, paths []string) (manifest.AICCCourse, string, error) {
	course := manifest.AICCCourse{}
	if len(paths) == 0 {
		return course, "", nil
	}
	rc, err := fa.Open(paths[0])
	if err != nil {
		return course, "", err
	}
	defer rc.Close()
	entries, err := aicc.ReadKeyValueTable(rc)
	if err != nil {
		return course, "", err
	}

	values := map[string]string{}
	var descLines []string
	descSeen := false
	for _, e := range entries {
		if strings.EqualFold(e.Section, "Course_Description") {
			descSeen = true
			if strings.TrimSpace(e.Value) == "" {
				descLines = append(descLines, e.Key)
			} else {
				descLines = append(descLines, e.Key+": "+e.Value)
			}
			continue
		}
		values[strings.ToLower(e.Key)] = e.Value
	}
	course.ID = values["course_id"]
	course.Title = values["course_title"]
	course.Version = values["version"]
	desc := values["course_description"]
	if descSeen {
		desc = strings.Join(descLines, "\n")
	}
	return course, desc, nil
}

func readDescriptorTable(fa fileaccess.FileAccess, paths []string) ([]manifest.AICCDescriptor, error) {
	var out []manifest.AICCDescriptor
	for _, p := range paths {
		t, err := readTable(fa, p)
		if err != nil {
			return nil, err
		}
		for _, rec := range t.Records {
			out = append(out, manifest.AICCDescriptor{
				SystemID:    rec.Get("system_id"),
				Title:       rec.Get("title"),
				Description: rec.Get("description"),
			})
		}
	}
	return out, nil
}

func readAUTable(fa fileaccess.FileAccess, paths []string) ([]manifest.AICCAssignableUnit, error) {
	var out []manifest.AICCAssignableUnit
	for _, p := range paths {
		t, err := readTable(fa, p)
		if err != nil {
			return nil, err
		}
		for _, rec := range t.Records {
			out = append(out, manifest.AICCAssignableUnit{
				SystemID:        rec.Get("system_id"),
				FileName:        rec.Get("file_name"),
				CommandLine:     rec.Get("command_line"),
				MasteryScore:    parseOptionalPercent(rec.Get("mastery_score")),
				MaxTimeAllowed:  rec.Get("max_time_allowed"),
				TimeLimitAction: rec.Get("time_limit_action"),
				CoreVendor:      rec.Get("core_vendor"),
				WebLaunch:       rec.Get("web_launch"),
			})
		}
	}
	return out, nil
}

func readStructureTable(fa fileaccess.FileAccess, paths []string) ([]manifest.AICCStructureEntry, error) {
	grouped := map[string][]string{}
	var order []string
	for _, p := range paths {
		t, err := readTable(fa, p)
		if err != nil {
			return nil, err
		}
		for _, rec := range t.Records {
			block := rec.Get("block")
			member := rec.Get("member")
			if block == "" {
				block = rec.Get("block_id")
			}
			if _, ok := grouped[block]; !ok {
				order = append(order, block)
			}
			if member != "" {
				grouped[block] = append(grouped[block], member)
			}
		}
	}
	var out []manifest.AICCStructureEntry
	for _, b := range order {
		out = append(out, manifest.AICCStructureEntry{BlockID: b, Members: grouped[b]})
	}
	return out, nil
}

func readObjectiveRelationships(fa fileaccess.FileAccess, paths []string) ([]manifest.AICCObjectiveRelationship, error) {
	var out []manifest.AICCObjectiveRelationship
	for _, p := range paths {
		t, err := readTable(fa, p)
		if err != nil {
			return nil, err
		}
		for _, rec := range t.Records {
			out = append(out, manifest.AICCObjectiveRelationship{
				ObjectiveID: rec.Get("objective_id"),
				Related:     strings.Fields(rec.Get("related_objectives")),
			})
		}
	}
	return out, nil
}

func readPrerequisiteTable(fa fileaccess.FileAccess, paths []string) ([]manifest.AICCPrerequisite, error) {
	var out []manifest.AICCPrerequisite
	for _, p := range paths {
		t, err := readTable(fa, p)
		if err != nil {
			return nil, err
		}
		for _, rec := range t.Records {
			target := rec.Get("au")
			if target == "" {
				target = rec.Get("target_id")
			}
			out = append(out, manifest.AICCPrerequisite{
				TargetID:   target,
				Expression: rec.Get("prerequisites"),
			})
		}
	}
	return out, nil
}

func readCompletionTable(fa fileaccess.FileAccess, paths []string) ([]manifest.AICCCompletionRequirement, error) {
	var out []manifest.AICCCompletionRequirement
	for _, p := range paths {
		t, err := readTable(fa, p)
		if err != nil {
			return nil, err
		}
		for _, rec := range t.Records {
			out = append(out, manifest.AICCCompletionRequirement{
				AUID:     rec.Get("au"),
				Criteria: rec.Get("completion_criteria"),
			})
		}
	}
	return out, nil
}

func readTable(fa fileaccess.FileAccess, p string) (*aicc.Table, error) {
	rc, err := fa.Open(p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return aicc.ReadTable(rc)
}
