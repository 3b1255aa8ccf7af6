package status

import (
	"fmt"
)

// FileFormatter defines how item results and progress should be formatted
type FileFormatter interface {
	// FormatItem formats a single item result
	FormatItem(r ItemResult, mode Mode) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatItem formats an item result with emojis
func (f *DefaultFileFormatter) FormatItem(r ItemResult, mode Mode) string {
	switch {
	case r.Status == StatusError:
		return fmt.Sprintf("❌ Failed %s: %s", r.Path, r.Message)
	case r.Status == StatusSkipped:
		return fmt.Sprintf("👍 Unchanged %s", r.Path)
	case mode == ModePreview:
		return fmt.Sprintf("🔍 Planned %s", describeChange(r))
	default:
		return fmt.Sprintf("📝 Modified %s", describeChange(r))
	}
}

func describeChange(r ItemResult) string {
	if r.Original != "" && r.New != "" && r.Original != r.New && r.Count <= 1 {
		return fmt.Sprintf("%s (%s → %s)", r.Path, r.Original, r.New)
	}
	if r.Count > 1 {
		return fmt.Sprintf("%s (%d matches)", r.Path, r.Count)
	}
	return r.Path
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}
