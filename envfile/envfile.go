// Copyright 2023 Canonical Ltd.

// Package envfile reads KEY=VALUE environment files.
//
// The format is deliberately minimal: every line holding an "=" is an
// assignment, split on its first "=". There is no quoting, no escaping and
// no comment syntax, so a line such as "# port=80" assigns "80" to the key
// "# port".
package envfile

import (
	"strings"
	"unicode"

	"github.com/canonical/build-web-env/fsutil"
)

// Loader loads environment files from disk.
type Loader struct{}

// Load reads the file at path and parses it with Parse. A missing or
// unreadable file returns an error whose cause is fsutil.ErrFileRead.
func (Loader) Load(path string) (map[string]string, error) {
	return Load(path)
}

// Load reads the file at path and parses it with Parse.
func Load(path string) (map[string]string, error) {
	content, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(content), nil
}

// Parse turns content into a key to value map. Lines without "=" or with
// nothing before it are skipped. Keys and values are trimmed of whitespace
// and byte order marks, so a key of only spaces becomes the empty key.
// Later assignments to the same key win.
func Parse(content string) map[string]string {
	env := make(map[string]string)

	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		env[trim(key)] = trim(value)
	}

	return env
}

func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}
