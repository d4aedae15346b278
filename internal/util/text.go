// Package util holds small text helpers shared across packages.
package util

import (
	"fmt"
	"regexp"
	"strings"
)

// ExtractLangBlock extracts the contents of the first fenced code block
// with the given language tag. Models often wrap structured answers in
// markdown fences; when no fence is found the trimmed input is returned
// unchanged so bare JSON answers still parse.
func ExtractLangBlock(text, language string) string {
	pattern := fmt.Sprintf("(?s)```%s\\s*\\n(.*?)\\n```", regexp.QuoteMeta(language))
	re := regexp.MustCompile(pattern)

	if match := re.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(text)
}

// Truncate caps s at maxLen bytes and appends marker when content was
// dropped. A maxLen <= 0 disables truncation.
func Truncate(s string, maxLen int, marker string) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + marker
}
