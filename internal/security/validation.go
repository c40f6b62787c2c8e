// Package security provides input validation for user-supplied text.
package security

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "options-lab/internal/errors"
)

// Limits for user-supplied scenario text.
const (
	MaxScenarioNameLen  = 60
	MaxScenarioNotesLen = 500
)

// Validation patterns
var (
	// Scenario name: letters, digits, spaces and a few separators
	scenarioNamePattern = regexp.MustCompile(`^[A-Za-z0-9_ .()-]{1,60}$`)

	// Scenario id: a UUID
	scenarioIDPattern = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)

	// SQL injection patterns
	sqlInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(union\s+select|select\s+\*|drop\s+table|insert\s+into|delete\s+from|update\s+.*\s+set)`),
		regexp.MustCompile(`(?i)(--|;|\\x00)`),
		regexp.MustCompile(`(?i)(or\s+1\s*=\s*1|and\s+1\s*=\s*1)`),
	}

	// Script injection patterns, relevant when notes are shown in the web UI
	scriptInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<\s*script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on(load|error|click)\s*=`),
	}
)

// InputValidator provides input validation functionality.
type InputValidator struct {
	strictMode bool
}

// NewInputValidator creates a new input validator. Strict mode also scans
// free text for injection patterns.
func NewInputValidator(strictMode bool) *InputValidator {
	return &InputValidator{strictMode: strictMode}
}

// ValidateScenarioName validates the display name of a saved scenario.
func (v *InputValidator) ValidateScenarioName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return apperrors.NewInputError("name", name, "scenario name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxScenarioNameLen {
		return apperrors.NewInputError("name", truncate(name), fmt.Sprintf("scenario name too long (max %d characters)", MaxScenarioNameLen))
	}

	if !scenarioNamePattern.MatchString(name) {
		return apperrors.NewInputError("name", name, "invalid scenario name format")
	}

	if v.containsInjection(name) {
		return apperrors.NewInputError("name", name, "invalid characters detected")
	}

	return nil
}

// ValidateScenarioID validates a scenario id taken from a path or argument.
func (v *InputValidator) ValidateScenarioID(id string) error {
	if !scenarioIDPattern.MatchString(strings.TrimSpace(id)) {
		return apperrors.NewInputError("id", id, "invalid scenario id")
	}
	return nil
}

// ValidateText validates free-form text input.
func (v *InputValidator) ValidateText(field, text string, maxLen int) error {
	if utf8.RuneCountInString(text) > maxLen {
		return apperrors.NewInputError(field, truncate(text), fmt.Sprintf("text too long (max %d characters)", maxLen))
	}

	if v.strictMode && v.containsInjection(text) {
		return apperrors.NewInputError(field, "", "potentially dangerous content detected")
	}

	return nil
}

// containsInjection checks for SQL or script injection patterns.
func (v *InputValidator) containsInjection(input string) bool {
	for _, pattern := range sqlInjectionPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	for _, pattern := range scriptInjectionPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

// SanitizeText removes control characters from free-form text.
func SanitizeText(text string) string {
	var result strings.Builder
	for _, r := range text {
		if r == '\n' || (r >= 32 && r != 127) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// truncate shortens s to its first 20 runes for error messages.
func truncate(s string) string {
	const keep = 20
	if utf8.RuneCountInString(s) <= keep {
		return s
	}
	return string([]rune(s)[:keep]) + "..."
}
