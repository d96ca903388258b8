// Copyright 2023 Canonical Ltd.

package placeholder

import (
	"sort"
	"strings"

	"github.com/canonical/build-web-env/fsutil"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Token returns the placeholder text for key, e.g. "{{API_URL}}".
func Token(key string) string {
	return openDelim + key + closeDelim
}

// Replace substitutes every occurrence of Token(key) in content with
// env[key]. Values are inserted literally. Placeholders whose key is not in
// env are left as they are.
func Replace(content string, env map[string]string) string {
	out, _ := replace(content, env)
	return out
}

func replace(content string, env map[string]string) (string, int) {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	count := 0
	for _, key := range keys {
		token := Token(key)
		n := strings.Count(content, token)
		if n == 0 {
			continue
		}
		count += n
		content = strings.ReplaceAll(content, token, env[key])
	}

	return content, count
}

// Unresolved returns the sorted, distinct names of the placeholders left in
// content.
func Unresolved(content string) []string {
	seen := make(map[string]bool)
	var names []string

	rest := content
	for {
		start := strings.Index(rest, openDelim)
		if start == -1 {
			break
		}

		inner := rest[start+len(openDelim):]
		end := strings.Index(inner, closeDelim)
		if end == -1 {
			break
		}

		name := inner[:end]
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "{}\n") {
			rest = rest[start+1:]
			continue
		}

		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = inner[end+len(closeDelim):]
	}

	sort.Strings(names)
	return names
}

// Report describes the outcome of a Render call.
type Report struct {
	// Replacements is the number of placeholders that were substituted.
	Replacements int
	// Unresolved holds the names of placeholders with no matching key.
	Unresolved []string
}

// Substitutor renders placeholder templates on disk.
type Substitutor struct {
	// Atomic makes Render write through a temporary file and a rename
	// instead of truncating the target in place.
	Atomic bool
}

// Render reads templatePath, replaces its placeholders with the values in
// env and writes the result to targetPath. Passing the same path for both
// rewrites the template in place, after which its placeholders are gone.
//
// Read failures have fsutil.ErrFileRead as cause and write failures have
// fsutil.ErrFileWrite.
func (s Substitutor) Render(templatePath, targetPath string, env map[string]string) (*Report, error) {
	content, err := fsutil.ReadFile(templatePath)
	if err != nil {
		return nil, err
	}

	out, count := replace(content, env)

	if err := fsutil.WriteFile(targetPath, out, s.Atomic); err != nil {
		return nil, err
	}

	return &Report{
		Replacements: count,
		Unresolved:   Unresolved(out),
	}, nil
}
