package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// User data capsule (K001-K009)
	// ============================================

	"K001": {
		Category: CategoryRuntime,
		Message:  "User data type mismatch",
		Detail:   "A view or delegate downcast the user data to a type that does not match the state root registered with its window.",
	},
	"K002": {
		Category: CategoryRuntime,
		Message:  "User data borrow conflict",
		Detail:   "A mutable borrow of the user data was requested while another borrow was live. This usually means a delegate triggered another delegate synchronously.",
	},
	"K003": {
		Category: CategoryRuntime,
		Message:  "User data used after release",
		Detail:   "A user data capsule is only valid for the duration of the call that received it. Store a pointer to shared state instead of the capsule.",
	},

	// ============================================
	// Widget cache (K010-K019)
	// ============================================

	"K010": {
		Category: CategoryRuntime,
		Message:  "Widget cache misuse: retained node in description",
		Detail:   "A node that already belongs to a committed widget tree was passed to Build. Descriptions must be built fresh on every render.",
	},
	"K011": {
		Category: CategoryRuntime,
		Message:  "Widget cache misuse: reentrant build",
		Detail:   "Build was called while the same cache was already building.",
	},
	"K012": {
		Category: CategoryRuntime,
		Message:  "Widget cache misuse: concurrent build",
		Detail:   "Build was called from two goroutines at once. Render passes must be serialized on the window's render goroutine.",
	},
	"K013": {
		Category: CategoryRuntime,
		Message:  "Widget cache misuse: empty description",
		Detail:   "Build was called with a nil widget or a widget that described no node.",
	},

	// ============================================
	// Window (K020-K029)
	// ============================================

	"K020": {
		Category: CategoryWindow,
		Message:  "Event queue full",
		Detail:   "The window's event queue is full; the input event was dropped.",
	},
	"K021": {
		Category: CategoryWindow,
		Message:  "Window closed",
		Detail:   "The window's render loop is no longer running.",
	},
	"K022": {
		Category: CategoryWindow,
		Message:  "Widget not found",
		Detail:   "No widget with this ID exists in the committed tree. The view may have re-rendered without it.",
	},
	"K023": {
		Category: CategoryWindow,
		Message:  "Window already running",
		Detail:   "Run was called twice on the same window.",
	},

	// ============================================
	// Config (K030-K039)
	// ============================================

	"K030": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file could not be parsed.",
	},
	"K031": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// CLI (K040-K049)
	// ============================================

	"K040": {
		Category: CategoryCLI,
		Message:  "Command failed",
		Detail:   "The command did not complete.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
