// Package fonts resolves a UI font name from configuration to a file on disk.
package fonts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// ErrNotFound is returned when no font file matches.
var ErrNotFound = fmt.Errorf("font not found: %w", os.ErrNotExist)

// Dirs are the directories searched, relative to the working directory. The second
// entry covers running from cmd/sandbox.
var Dirs = []string{"assets/fonts", "../../assets/fonts"}

// Scan returns the font files under dir as slash-separated paths relative to dir.
// A missing dir yields no files and no error.
func Scan(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and drops spaces, dashes and underscores so "Fira Code",
// "fira-code" and "FiraCode" compare equal.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// Find returns the first font under dirs whose relative path contains name after
// normalization. An existing file path is returned as is. Among several matches a
// "Regular" face wins.
func Find(name string, dirs ...string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNotFound
	}
	if st, err := os.Stat(name); err == nil && !st.IsDir() && isFont(name) {
		return name, nil
	}
	if len(dirs) == 0 {
		dirs = Dirs
	}
	want := normalize(strings.TrimSuffix(name, filepath.Ext(name)))

	var matches []string
	for _, dir := range dirs {
		list, err := Scan(dir)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), want) {
				matches = append(matches, filepath.Join(dir, filepath.FromSlash(rel)))
			}
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(m)), "regular") {
			return m, nil
		}
	}
	return matches[0], nil
}
