package modparser

import (
	"time"

	"github.com/jcputney/elearning-module-parser/internal/types"
)

// ParsingEventListener observes a single ModuleParser run (spec 4.9).
// Implementations must never block the parse or panic; NoopListener is
// the default when none is attached.
type ParsingEventListener interface {
	OnDetectionStarted()
	OnModuleTypeDetected(moduleType types.ModuleType, edition types.ModuleEditionType)
	OnParsingStarted()
	OnLoadingExternalMetadata(path string)
	OnParsingWarning(field, value, message string)
	OnParsingProgress(phase string, percent int)
	OnParsingCompleted(duration time.Duration)
}

// NoopListener implements ParsingEventListener with no-op methods; it is
// the default listener for a ModuleParser that never calls WithListener.
type NoopListener struct{}

func (NoopListener) OnDetectionStarted()                                                   {}
func (NoopListener) OnModuleTypeDetected(types.ModuleType, types.ModuleEditionType)         {}
func (NoopListener) OnParsingStarted()                                                      {}
func (NoopListener) OnLoadingExternalMetadata(string)                                       {}
func (NoopListener) OnParsingWarning(string, string, string)                                {}
func (NoopListener) OnParsingProgress(string, int)                                          {}
func (NoopListener) OnParsingCompleted(time.Duration)                                       {}
