package youtube

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// ErrFileNotFound means the tool reported success but no plausible output
// file could be located. Callers must treat this as a failed acquisition.
var ErrFileNotFound = errors.New("audio file not found after download")

// A matcher tries to locate the produced file in dir for the reported title.
// Matchers run in order and the first hit wins, so a stricter tool contract
// (exact output path) can replace the whole list with a single matcher.
type matcher func(dir, title string) (string, bool)

func resolveMatchers(since time.Time) []matcher {
	return []matcher{
		matchSafeTitle,
		matchTitlePrefix,
		matchNewerThan(since),
	}
}

// resolveOutput finds the MP3 the extraction tool wrote into dir. The tool's
// title sanitization and extension negotiation are not a stable contract, so
// this is heuristic by design.
func resolveOutput(dir, title string, since time.Time) (string, error) {
	for _, match := range resolveMatchers(since) {
		if path, ok := match(dir, title); ok {
			return path, nil
		}
	}
	return "", ErrFileNotFound
}

// safeTitle keeps alphanumerics, spaces, hyphens and underscores, drops the
// rest and trims surrounding whitespace.
func safeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func matchSafeTitle(dir, title string) (string, bool) {
	path := filepath.Join(dir, safeTitle(title)+".mp3")
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

func matchTitlePrefix(dir, title string) (string, bool) {
	prefix := title
	if runes := []rune(title); len(runes) > 20 {
		prefix = string(runes[:20])
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".mp3") {
			continue
		}
		if strings.Contains(name, prefix) {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// matchNewerThan picks any MP3 written after the download started. Low
// confidence: it exists only as a last resort when the name-based matchers
// miss.
func matchNewerThan(since time.Time) matcher {
	return func(dir, _ string) (string, bool) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", false
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".mp3") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(since) {
				return filepath.Join(dir, name), true
			}
		}
		return "", false
	}
}
