package urlvault

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// NoteExtension is the file extension of written notes.
const NoteExtension = ".md"

// DefaultFilenameLength caps sanitized filenames, in characters.
const DefaultFilenameLength = 120

var (
	illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
	trailingDotsSpaces   = regexp.MustCompile(`[. ]+$`)
)

// SanitizeFilename makes name safe to use as a file name: illegal characters
// are stripped, whitespace collapsed, trailing dots and spaces removed and the
// result capped at maxLen characters. An empty result becomes "untitled".
func SanitizeFilename(name string, maxLen int) string {
	safe := illegalFilenameChars.ReplaceAllString(name, "")
	safe = strings.TrimSpace(whitespaceRun.ReplaceAllString(safe, " "))
	safe = trailingDotsSpaces.ReplaceAllString(safe, "")
	if safe == "" {
		return "untitled"
	}
	if maxLen > 0 {
		if runes := []rune(safe); len(runes) > maxLen {
			safe = trailingDotsSpaces.ReplaceAllString(string(runes[:maxLen]), "")
		}
	}
	return safe
}

// NoteFilename derives the note file name from an article title.
// A blank title falls back to "article".
func NoteFilename(title string) string {
	return SanitizeFilename(FirstNonEmpty(title, "article"), DefaultFilenameLength) + NoteExtension
}

// UniquePath returns basePath if it is free, otherwise the first free
// candidate of the form "name (2).ext", "name (3).ext", ...
func UniquePath(basePath string, exists func(p string) (bool, error)) (string, error) {
	taken, err := exists(basePath)
	if err != nil {
		return "", err
	}
	if !taken {
		return basePath, nil
	}

	ext := path.Ext(basePath)
	stem := strings.TrimSuffix(basePath, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
