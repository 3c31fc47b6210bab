package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Binding Errors (E100-E119)
	// ============================================

	"E101": {
		Category:   CategoryConfig,
		Message:    "Could not find store",
		Detail:     "A connected component needs a store, either from an enclosing Provider or from an explicit \"store\" prop.",
		Suggestion: "Wrap the root component in a Provider, or pass \"store\" as a prop.",
		DocURL:     "https://vango.dev/docs/connect/errors/E101",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Provider expects exactly one child element",
		Detail:     "Provider renders its child unchanged and therefore needs exactly one child. Wrap siblings in a single element or fragment.",
		Suggestion: "Pass a single child element to the Provider.",
		DocURL:     "https://vango.dev/docs/connect/errors/E102",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Provider store does not satisfy the store contract",
		Detail:     "The \"store\" prop must implement GetState, Dispatch and Subscribe.",
		DocURL:     "https://vango.dev/docs/connect/errors/E103",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Mapper must return a props mapping",
		Detail:   "mapStateToProps, mapDispatchToProps and mergeProps must return a non-nil props mapping on every call.",
		DocURL:   "https://vango.dev/docs/connect/errors/E104",
	},
	"E105": {
		Category:   CategoryConfig,
		Message:    "Wrapped instance is not available",
		Detail:     "The wrapped instance can only be retrieved from connectors created with the WithRef option.",
		Suggestion: "Pass connect.WithRef() to connect.Connect.",
		DocURL:     "https://vango.dev/docs/connect/errors/E105",
	},
	"E106": {
		Category: CategoryRuntime,
		Message:  "Component render failed",
		Detail:   "A component returned an error while rendering. The update was aborted.",
		DocURL:   "https://vango.dev/docs/connect/errors/E106",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed. Supported formats are JSON (.json) and YAML (.yaml, .yml).",
		DocURL:   "https://vango.dev/docs/connect/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   "https://vango.dev/docs/connect/errors/E121",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Snapshot upload failed",
		Detail:   "The state snapshot could not be written to object storage.",
		DocURL:   "https://vango.dev/docs/connect/errors/E140",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
