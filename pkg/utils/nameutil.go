package utils

import (
	"fmt"
	"strings"
)

// FallbackArchiveName is used when neither slug nor title yields a usable name.
const FallbackArchiveName = "galeria"

// ArchiveBaseName derives the archive folder/file base name from a gallery.
// Preference order: slug, then title, then FallbackArchiveName.
func ArchiveBaseName(slug, title string) string {
	if name := SanitizeFileName(slug); name != "" {
		return name
	}
	if name := SanitizeFileName(title); name != "" {
		return name
	}
	return FallbackArchiveName
}

// EntryName builds the deterministic archive entry name for the photo at the
// given position in the export ordering: "<prefix>-001.jpg", "<prefix>-002.jpg"
// and so on. Numbering is 1-based and zero-padded so listings sort naturally.
func EntryName(prefix string, index int) string {
	return fmt.Sprintf("%s-%03d.jpg", prefix, index+1)
}

// SanitizeFileName lowers the input and reduces it to a safe, portable file
// name fragment: spaces become dashes, anything outside [a-z0-9._-] is
// dropped, and leading/trailing separators are trimmed.
func SanitizeFileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-':
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-._")
}

// NormalizeEmail canonicalizes a client email the way the portal stores it:
// trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
