package block

import (
	"strings"
	"unicode/utf8"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
	"golang.org/x/net/html"
)

// CleanContent strips markup from raw item content and enforces the length
// invariants. Markup is removed rather than escaped so stored content stays
// plain text regardless of which surface renders it.
func CleanContent(raw string) (string, error) {
	cleaned := strings.TrimSpace(StripTags(raw))
	if cleaned == "" {
		return "", apperrors.New(apperrors.CodeBlockItemEmptyContent, "item content is required")
	}
	if utf8.RuneCountInString(cleaned) > MaxContentRunes {
		return "", apperrors.WithMetadata(apperrors.CodeBlockItemContentTooBig,
			"item content exceeds maximum length",
			map[string]string{"max_runes": "500"})
	}
	return cleaned, nil
}

// StripTags removes HTML elements from raw, keeping only text nodes.
// Script and style bodies are dropped entirely.
func StripTags(raw string) string {
	if !strings.ContainsAny(raw, "<>") {
		return raw
	}
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	var builder strings.Builder
	skipDepth := 0
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			return builder.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedElement(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedElement(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
			}
		}
	}
}

func isSkippedElement(name string) bool {
	switch name {
	case "script", "style", "iframe", "object":
		return true
	}
	return false
}
