// Package envconfig reads the small set of environment variables that
// control diagnostic behavior of the tokenizer operators.
package envconfig

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// Set via OPENVINO_TOKENIZERS_PRINT_DEBUG_INFO in the environment. When
// true, rx.Compile logs regex-compile failures at slog's Warn level
// instead of staying silent.
var (
	debugOnce sync.Once
	debug     bool
)

// PrintDebugInfo reports whether OPENVINO_TOKENIZERS_PRINT_DEBUG_INFO is
// set to a truthy value. It is read once and cached, matching the
// once-per-process attribute resolution the rest of the operators use for
// their own lazy caches.
func PrintDebugInfo() bool {
	debugOnce.Do(func() {
		debug = parseBool(os.Getenv("OPENVINO_TOKENIZERS_PRINT_DEBUG_INFO"))
	})
	return debug
}

// parseBool accepts the same relaxed vocabulary of truthy strings used
// elsewhere for boolean environment variables: "1", "true", "on" (and
// their negatives), case-insensitively.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	case "", "0", "false", "off", "no":
		return false
	}

	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}

	return false
}
