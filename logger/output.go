package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - User-facing output only: written files, errors with hints, final status
//	1 (-v)      - + Progress, per-target status, format hook results
//	2 (-vv)     - + Timing, config loaded, table statistics
//	3 (-vvv)    - + Per-order assembly detail, rendered formula trace
//	4 (-vvvv)   - + Full derivative table and expression tree dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Written files, command output
	OutputErrors                           // Errors with hints and resolution steps
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress      // Progress indicators (e.g., "Rendering 3/10 orders")
	OutputStartup       // Startup banner, config summary
	OutputTargetStatus  // Per-target rendered/written/formatted status
	OutputOperationInfo // High-level operation summaries

	// Level 2 (-vv) - Detailed
	OutputTiming     // Operation timing (e.g., "table built in 0.2ms")
	OutputConfig     // Config values loaded/applied
	OutputTableStats // Term counts and coefficient mass per order

	// Level 3 (-vvv) - Debug
	OutputAssembly     // Per-order case assembly flow
	OutputFormulaTrace // Rendered column expressions per order
	OutputInternalOp   // Internal operation flow (function entry/exit)

	// Level 4 (-vvvv) - Full dump
	OutputTableDump // Full derivative table contents
	OutputTreeDump  // Full expression tree structure
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	// Level 0 - Always shown
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	// Level 1 - Informational
	OutputProgress:      VerbosityInfo,
	OutputStartup:       VerbosityInfo,
	OutputTargetStatus:  VerbosityInfo,
	OutputOperationInfo: VerbosityInfo,

	// Level 2 - Detailed
	OutputTiming:     VerbosityDebug,
	OutputConfig:     VerbosityDebug,
	OutputTableStats: VerbosityDebug,

	// Level 3 - Debug
	OutputAssembly:     VerbosityTrace,
	OutputFormulaTrace: VerbosityTrace,
	OutputInternalOp:   VerbosityTrace,

	// Level 4 - Full dump
	OutputTableDump: VerbosityAll,
	OutputTreeDump:  VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:       "results",
	OutputErrors:        "errors",
	OutputUserStatus:    "status",
	OutputProgress:      "progress",
	OutputStartup:       "startup",
	OutputTargetStatus:  "target-status",
	OutputOperationInfo: "operation-info",
	OutputTiming:        "timing",
	OutputConfig:        "config",
	OutputTableStats:    "table-stats",
	OutputAssembly:      "assembly",
	OutputFormulaTrace:  "formula-trace",
	OutputInternalOp:    "internal",
	OutputTableDump:     "table-dump",
	OutputTreeDump:      "tree-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories returns all output categories enabled at the given verbosity
func EnabledCategories(verbosity int) []OutputCategory {
	var enabled []OutputCategory
	for cat, minLevel := range categoryLevels {
		if verbosity >= minLevel {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, and target status"
	case VerbosityDebug:
		return "above + timing, config, table statistics"
	case VerbosityTrace:
		return "above + per-order assembly and formula trace"
	case VerbosityAll:
		return "full output including table and tree dumps"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
