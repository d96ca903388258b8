// Copyright 2023 Canonical Ltd.

package placeholder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/canonical/build-web-env/fsutil"
	"github.com/canonical/build-web-env/placeholder"

	qt "github.com/frankban/quicktest"
	"gopkg.in/errgo.v1"
)

func TestReplace(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		desc string
		// Inputs
		content string
		env     map[string]string
		// Outputs
		expected string
	}{{
		desc:     "replaces every known key",
		content:  `const u = "{{URL}}"; const n = "{{NAME}}";`,
		env:      map[string]string{"NAME": "alice", "URL": "http://x"},
		expected: `const u = "http://x"; const n = "alice";`,
	}, {
		desc:     "replaces all occurrences",
		content:  "{{A}}-{{A}}-{{A}}",
		env:      map[string]string{"A": "x"},
		expected: "x-x-x",
	}, {
		desc:     "missing keys are left untouched",
		content:  `const m = "{{MISSING}}"; const n = "{{NAME}}";`,
		env:      map[string]string{"NAME": "alice"},
		expected: `const m = "{{MISSING}}"; const n = "alice";`,
	}, {
		desc:     "empty environment",
		content:  "{{A}}",
		env:      map[string]string{},
		expected: "{{A}}",
	}, {
		desc:     "values are inserted literally",
		content:  "{{PRICE}} {{PATTERN}}",
		env:      map[string]string{"PRICE": "$& $1 $$", "PATTERN": `^a.*\d+$`},
		expected: `$& $1 $$ ^a.*\d+$`,
	}, {
		desc:     "keys are matched literally",
		content:  "{{A.B}} {{AxB}}",
		env:      map[string]string{"A.B": "dot"},
		expected: "dot {{AxB}}",
	}, {
		desc:     "placeholders with inner spaces do not match",
		content:  "{{ NAME }}",
		env:      map[string]string{"NAME": "alice"},
		expected: "{{ NAME }}",
	}, {
		desc:     "the empty key fills empty braces",
		content:  "{{}} {{ }}",
		env:      map[string]string{"": "v"},
		expected: "v {{ }}",
	}, {
		desc:     "comment-style keys are substituted too",
		content:  "{{# port}}",
		env:      map[string]string{"# port": "80"},
		expected: "80",
	}}

	for _, test := range tests {
		test := test

		c.Run(test.desc, func(c *qt.C) {
			c.Parallel()

			out := placeholder.Replace(test.content, test.env)
			c.Assert(out, qt.Equals, test.expected)
		})
	}
}

func TestReplaceResolvedOutputIsStable(t *testing.T) {
	c := qt.New(t)

	env := map[string]string{"NAME": "alice", "URL": "http://x"}
	first := placeholder.Replace(`window.env = {url: "{{URL}}", name: "{{NAME}}"};`, env)
	second := placeholder.Replace(first, env)
	c.Assert(second, qt.Equals, first)

	// A second run with different values has nothing left to substitute.
	third := placeholder.Replace(first, map[string]string{"NAME": "bob"})
	c.Assert(third, qt.Equals, first)
}

func TestUnresolved(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		content  string
		expected []string
	}{
		{content: "", expected: nil},
		{content: "no placeholders", expected: nil},
		{content: "{{B}} {{A}} {{B}}", expected: []string{"A", "B"}},
		{content: "{{}} {{ }} {{A", expected: nil},
		{content: "{{{A}}}", expected: []string{"A"}},
		{content: "{{a\nb}} {{C}}", expected: []string{"C"}},
	}

	for _, test := range tests {
		c.Assert(placeholder.Unresolved(test.content), qt.DeepEquals, test.expected, qt.Commentf("content %q", test.content))
	}
}

func TestRender(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		desc   string
		atomic bool
	}{{
		desc:   "in place",
		atomic: false,
	}, {
		desc:   "atomic",
		atomic: true,
	}}

	for _, test := range tests {
		test := test

		c.Run(test.desc, func(c *qt.C) {
			path := filepath.Join(c.TempDir(), "env.js")
			err := os.WriteFile(path, []byte(`const u = "{{URL}}"; const n = "{{NAME}}"; const m = "{{MISSING}}";`), 0o644)
			c.Assert(err, qt.IsNil)

			s := placeholder.Substitutor{Atomic: test.atomic}
			report, err := s.Render(path, path, map[string]string{"NAME": "alice", "URL": "http://x", "UNUSED": "y"})
			c.Assert(err, qt.IsNil)
			c.Assert(report, qt.DeepEquals, &placeholder.Report{
				Replacements: 2,
				Unresolved:   []string{"MISSING"},
			})

			data, err := os.ReadFile(path)
			c.Assert(err, qt.IsNil)
			c.Assert(string(data), qt.Equals, `const u = "http://x"; const n = "alice"; const m = "{{MISSING}}";`)
		})
	}
}

func TestRenderSeparateTemplate(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	tmpl := filepath.Join(dir, "env.js.tmpl")
	target := filepath.Join(dir, "env.js")
	err := os.WriteFile(tmpl, []byte("{{A}}"), 0o644)
	c.Assert(err, qt.IsNil)

	_, err = placeholder.Substitutor{}.Render(tmpl, target, map[string]string{"A": "1"})
	c.Assert(err, qt.IsNil)

	data, err := os.ReadFile(target)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "1")

	data, err = os.ReadFile(tmpl)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "{{A}}")
}

func TestRenderErrors(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	tmpl := filepath.Join(dir, "env.js")
	err := os.WriteFile(tmpl, []byte("{{A}}"), 0o644)
	c.Assert(err, qt.IsNil)

	_, err = placeholder.Substitutor{}.Render(filepath.Join(dir, "missing.js"), tmpl, nil)
	c.Assert(err, qt.ErrorMatches, `.*missing\.js does not exist: .*`)
	c.Assert(errgo.Cause(err), qt.Equals, fsutil.ErrFileRead)

	_, err = placeholder.Substitutor{}.Render(tmpl, filepath.Join(dir, "nested", "env.js"), nil)
	c.Assert(err, qt.ErrorMatches, `cannot write .*`)
	c.Assert(errgo.Cause(err), qt.Equals, fsutil.ErrFileWrite)
}
