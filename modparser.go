// Package modparser is the public entry point for parsing e-learning
// content packages (SCORM 1.2, SCORM 2004, AICC, cmi5) with xAPI/TinCan
// recognition. It wires the internal detection, manifest-parsing,
// sequencing-analysis, and activity-tree/metadata-projection layers
// (components C1-C8) behind the small surface described in this file
// (component C9).
package modparser

import (
	"context"
	"time"

	"github.com/jcputney/elearning-module-parser/internal/activitytree"
	"github.com/jcputney/elearning-module-parser/internal/config"
	"github.com/jcputney/elearning-module-parser/internal/detect"
	lcierrors "github.com/jcputney/elearning-module-parser/internal/errors"
	"github.com/jcputney/elearning-module-parser/internal/fileaccess"
	"github.com/jcputney/elearning-module-parser/internal/manifest"
	"github.com/jcputney/elearning-module-parser/internal/manifestparser"
	"github.com/jcputney/elearning-module-parser/internal/metadata"
	"github.com/jcputney/elearning-module-parser/internal/projector"
	"github.com/jcputney/elearning-module-parser/internal/sequencing"
)

// ModuleMetadata, ValidationReport and the family extension types are
// re-exported from internal/metadata so callers never need to import an
// internal package. They live in internal/metadata rather than here to
// avoid an import cycle: internal/projector (which computes them) cannot
// depend on this package.
type (
	ModuleMetadata    = metadata.ModuleMetadata
	SCORM12Extension  = metadata.SCORM12Extension
	SCORM2004Extension = metadata.SCORM2004Extension
	CMI5Extension     = metadata.CMI5Extension
	CMI5AUDetail      = metadata.CMI5AUDetail
	AICCExtension     = metadata.AICCExtension
	ValidationIssue   = metadata.ValidationIssue
	ValidationReport  = metadata.ValidationReport
)

// ParserOptions controls strictness and optional expensive computations
// (spec 6.3). The zero value has StrictMode off; DefaultParserOptions
// returns the defaults.
type ParserOptions struct {
	// StrictMode aborts ParseAndValidate with ValidationFailedError as soon
	// as the report contains any ERROR-level issue. Defaults to true.
	StrictMode bool
	// CalculateModuleSize, when true, asks the backend for the package
	// size via fileaccess.TotalSize and populates ModuleMetadata.SizeOnDisk
	// when the backend reports one.
	CalculateModuleSize bool
}

// DefaultParserOptions returns { StrictMode: true, CalculateModuleSize: false }.
func DefaultParserOptions() ParserOptions {
	strict, calcSize := config.Defaults()
	return ParserOptions{StrictMode: strict, CalculateModuleSize: calcSize}
}

// LoadParserOptions resolves ParserOptions for projectRoot by layering
// explicit overrides over an .elparser.kdl/.elparser.toml config file over
// the package defaults (explicit > KDL > TOML > defaults). Either pointer
// may be nil to leave that field to the file/default layers.
func LoadParserOptions(projectRoot string, explicitStrict, explicitCalcSize *bool) (ParserOptions, error) {
	file, err := config.Load(projectRoot)
	if err != nil {
		return ParserOptions{}, err
	}
	strict, calcSize := config.Resolve(explicitStrict, explicitCalcSize, file)
	return ParserOptions{StrictMode: strict, CalculateModuleSize: calcSize}, nil
}

// ParseResult is the combined output of ParseAndValidate.
type ParseResult struct {
	Metadata *ModuleMetadata
	Report   *ValidationReport
}

// ModuleParserFactory constructs a ModuleParser bound to one file-access
// instance, mirroring spec 6.3's ModuleParserFactory.parser(file_access).
type ModuleParserFactory struct {
	Options  ParserOptions
	Listener ParsingEventListener
}

// NewModuleParserFactory builds a factory with the given options and a
// no-op listener. Use WithListener to attach one.
func NewModuleParserFactory(options ParserOptions) *ModuleParserFactory {
	return &ModuleParserFactory{Options: options, Listener: NoopListener{}}
}

// WithListener returns a copy of the factory with listener attached.
func (f *ModuleParserFactory) WithListener(listener ParsingEventListener) *ModuleParserFactory {
	if listener == nil {
		listener = NoopListener{}
	}
	clone := *f
	clone.Listener = listener
	return &clone
}

// Parser binds the factory's options/listener to a file-access instance.
func (f *ModuleParserFactory) Parser(fa fileaccess.FileAccess) *ModuleParser {
	listener := f.Listener
	if listener == nil {
		listener = NoopListener{}
	}
	return &ModuleParser{fa: fa, options: f.Options, listener: listener}
}

// ParseModule is the one-shot convenience form: detect, parse, project,
// without validation. Equivalent to
// f.Parser(fa).Parse(context.Background()).
func (f *ModuleParserFactory) ParseModule(fa fileaccess.FileAccess) (*ModuleMetadata, error) {
	return f.Parser(fa).Parse(context.Background())
}

// ModuleParser parses and validates a single e-learning package located
// behind a FileAccess. A ModuleParser is stateless between calls and safe
// to reuse sequentially; it holds no process-wide mutable state (spec 5).
type ModuleParser struct {
	fa       fileaccess.FileAccess
	options  ParserOptions
	listener ParsingEventListener
}

// NewModuleParser builds a ModuleParser directly, bypassing the factory.
func NewModuleParser(fa fileaccess.FileAccess, options ParserOptions) *ModuleParser {
	return &ModuleParser{fa: fa, options: options, listener: NoopListener{}}
}

// WithListener attaches a ParsingEventListener and returns the same
// parser for chaining.
func (p *ModuleParser) WithListener(listener ParsingEventListener) *ModuleParser {
	if listener == nil {
		listener = NoopListener{}
	}
	p.listener = listener
	return p
}

// Parse runs detection, family parsing, and projection, returning the
// projected ModuleMetadata. It does not enforce strict mode; callers who
// need the ERROR-aborts-in-strict-mode behavior should call
// ParseAndValidate instead.
func (p *ModuleParser) Parse(ctx context.Context) (*ModuleMetadata, error) {
	result, err := p.run(ctx)
	if err != nil {
		return nil, err
	}
	return result.Metadata, nil
}

// Validate runs the full pipeline and returns only the ValidationReport,
// regardless of StrictMode.
func (p *ModuleParser) Validate(ctx context.Context) (*ValidationReport, error) {
	result, err := p.run(ctx)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

// ParseAndValidate runs the full pipeline and, in strict mode, aborts
// with *errors.ValidationFailedError as soon as the report contains any
// ERROR-level issue. In lenient mode it always returns the ParseResult.
func (p *ModuleParser) ParseAndValidate(ctx context.Context) (*ParseResult, error) {
	result, err := p.run(ctx)
	if err != nil {
		return nil, err
	}
	if p.options.StrictMode && result.Report.HasErrors() {
		return nil, lcierrors.NewValidationFailedError(result.Report)
	}
	return result, nil
}

func (p *ModuleParser) run(ctx context.Context) (*ParseResult, error) {
	started := nowOrZero()
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	p.listener.OnDetectionStarted()
	det, err := detect.NewChain().Classify(p.fa)
	if err != nil {
		return nil, err
	}
	p.listener.OnModuleTypeDetected(det.ModuleType, det.Edition)
	p.listener.OnParsingProgress("detect", 10)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	p.listener.OnParsingStarted()
	parseResult, err := dispatchParse(p.fa, det)
	if err != nil {
		return nil, err
	}
	for _, ev := range parseResult.Events {
		if ev.Kind == "LoadingExternalMetadata" {
			p.listener.OnLoadingExternalMetadata(ev.Path)
		}
	}
	p.listener.OnParsingProgress("manifest", 50)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	report := &metadata.ValidationReport{}
	for _, w := range parseResult.Warnings {
		report.AddWarning(w.Field, w.Value, w.Message)
		p.listener.OnParsingWarning(w.Field, w.Value, w.Message)
	}

	var tree *activitytree.Tree
	var analysis *sequencing.Analysis
	switch parseResult.Manifest.Family {
	case manifest.FamilySCORM12:
		tree, err = activitytree.Build(parseResult.Manifest.SCORM12.Organizations, parseResult.Manifest.SCORM12.DefaultOrganization, nil)
	case manifest.FamilySCORM2004:
		tree, err = activitytree.Build(parseResult.Manifest.SCORM2004.Organizations, parseResult.Manifest.SCORM2004.DefaultOrganization, parseResult.Manifest.SCORM2004.SequencingCollection)
		if err == nil {
			a := sequencing.Analyze(parseResult.Manifest.SCORM2004)
			analysis = &a
		}
	}
	if err != nil {
		return nil, err
	}
	p.listener.OnParsingProgress("sequencing", 75)

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	var sizeOnDisk *uint64
	if p.options.CalculateModuleSize {
		if total, ok := fileaccess.TotalSize(p.fa); ok {
			sizeOnDisk = &total
		}
	}

	meta, projectorReport := projector.Project(projector.Input{
		Manifest:   parseResult.Manifest,
		Tree:       tree,
		Sequencing: analysis,
		SizeOnDisk: sizeOnDisk,
	})
	for _, issue := range projectorReport.Issues {
		report.Issues = append(report.Issues, issue)
		p.listener.OnParsingWarning(issue.Field, issue.Value, issue.Message)
	}

	for _, field := range meta.Schema().Required {
		if schemaFieldEmpty(meta, field) {
			report.AddError(field, "", "required field missing from projected metadata")
		}
	}

	p.listener.OnParsingProgress("project", 100)
	p.listener.OnParsingCompleted(elapsedSince(started))

	return &ParseResult{Metadata: meta, Report: report}, nil
}

// schemaFieldEmpty checks one of ModuleMetadata.Schema()'s required
// property names against the projected value, grounding strict mode's
// self-check in the schema rather than a parallel hand-maintained list.
func schemaFieldEmpty(m *ModuleMetadata, field string) bool {
	switch field {
	case "title":
		return m.Title == ""
	case "launchUrl":
		return m.LaunchURL == ""
	case "identifier":
		return m.Identifier == ""
	case "moduleType":
		return m.ModuleType == ""
	default:
		return false
	}
}

func dispatchParse(fa fileaccess.FileAccess, det detect.Result) (manifestparser.Result, error) {
	switch det.ModuleType {
	case "SCORM_12":
		return manifestparser.ParseSCORM12(fa)
	case "SCORM_2004":
		return manifestparser.ParseSCORM2004(fa)
	case "CMI5":
		return manifestparser.ParseCMI5(fa)
	case "AICC":
		return manifestparser.ParseAICC(fa)
	case "XAPI":
		return manifestparser.ParseXAPI(fa)
	default:
		return manifestparser.Result{}, lcierrors.NewDetectionError(nil)
	}
}

func checkCancelled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// nowOrZero and elapsedSince isolate the one wall-clock read this package
// performs, so ParsingCompleted can report a duration without scattering
// time.Now() calls through run().
func nowOrZero() time.Time {
	return time.Now()
}

func elapsedSince(start time.Time) time.Duration {
	return time.Since(start)
}
