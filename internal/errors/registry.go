package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Config Errors (T100-T199)
	// ============================================

	"T100": {
		Category:   CategoryConfig,
		Message:    "Config file not found",
		Suggestion: "Pass --config with the path to a tnet.toml file, or omit it to use defaults.",
	},
	"T101": {
		Category: CategoryConfig,
		Message:  "Config file could not be parsed",
		Detail:   "The file is not valid TOML or a value has the wrong type.",
	},
	"T102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
	},

	// ============================================
	// Relay Errors (T200-T299)
	// ============================================

	"T200": {
		Category:   CategoryRelay,
		Message:    "Failed to listen",
		Suggestion: "Check that the address is free, or change relay.listen.",
	},
	"T201": {
		Category:   CategoryRelay,
		Message:    "Failed to connect to upstream server",
		Suggestion: "Check that the game server is running at relay.upstream.",
	},
	"T202": {
		Category: CategoryRelay,
		Message:  "Admin server failed",
	},

	// ============================================
	// Capture Errors (T300-T399)
	// ============================================

	"T300": {
		Category: CategoryCapture,
		Message:  "Failed to open capture file",
	},
	"T301": {
		Category:   CategoryCapture,
		Message:    "Failed to upload capture",
		Suggestion: "Check capture.s3 settings and AWS credentials.",
	},

	// ============================================
	// CLI Errors (T400-T499)
	// ============================================

	"T400": {
		Category:   CategoryCLI,
		Message:    "Invalid hex input",
		Suggestion: "Frames are hex strings, e.g. 0600160a0005.",
	},
	"T401": {
		Category: CategoryCLI,
		Message:  "Frame could not be decoded",
	},
	"T402": {
		Category: CategoryCLI,
		Message:  "Unknown sample message",
	},
}

// Lookup returns the template for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
