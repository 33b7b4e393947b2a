package lint

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/patchlint/internal/model"
	"github.com/sprite-ai/patchlint/internal/patch"
)

// header occupies lines 1-7, so the first body line is line 8.
const header = `From 0123456789abcdef Mon Sep 17 00:00:00 2001
Subject: [PATCH] test
---
diff --git a/f.cc b/f.cc
--- a/f.cc
+++ b/f.cc
@@ -1,1 +1,3 @@
`

func wellFormed(body ...string) string {
	return header + strings.Join(body, "\n") + "\n"
}

func lintText(t *testing.T, name, text string) model.FileReport {
	t.Helper()
	l, err := New(DefaultOptions())
	require.NoError(t, err)
	return l.Lint(patch.FromString(name, text))
}

func TestBalancedFunctionIsClean(t *testing.T) {
	r := lintText(t, "func.patch", wellFormed("+void f() {", "+  do_thing();", "+}"))

	assert.True(t, r.Valid(), "unexpected issues: %v", r.Issues)
}

func TestUnclosedBrace(t *testing.T) {
	r := lintText(t, "open.patch", wellFormed("+void f() {"))

	require.Len(t, r.Issues, 1)
	assert.Equal(t, 0, r.Issues[0].Line)
	assert.True(t, r.Issues[0].FileLevel())
	assert.Equal(t, "1 unclosed braces", r.Issues[0].Message)
	assert.Equal(t, model.IssueBraces, r.Issues[0].Kind)
}

func TestUnmatchedClosingBraceResetsBalance(t *testing.T) {
	r := lintText(t, "close.patch", wellFormed("+}", "+if (x) {", "+  y();", "+}"))

	require.Len(t, r.Issues, 1)
	assert.Equal(t, 8, r.Issues[0].Line)
	assert.Equal(t, "unmatched closing brace", r.Issues[0].Message)
	assert.Equal(t, NameBraces, r.Issues[0].Check)
}

func TestCommentLinesDoNotCount(t *testing.T) {
	for _, line := range []string{"+  // } not real", "+/* { */", "+ * }"} {
		lines := patch.Classify(strings.Split(wellFormed(line), "\n"))
		issues, state := ScanBraces(lines, DefaultCommentPrefixes)

		assert.Empty(t, issues, "line %q", line)
		assert.Equal(t, 0, state.Balance, "line %q", line)
		assert.True(t, state.InsideDiff)
	}
}

func TestTrailingCommentStillCounts(t *testing.T) {
	// only leading comment markers are recognised
	lines := patch.Classify(strings.Split(wellFormed("+x(); // {"), "\n"))
	_, state := ScanBraces(lines, DefaultCommentPrefixes)

	assert.Equal(t, 1, state.Balance)
}

func TestRemovedAndContextLinesIgnored(t *testing.T) {
	r := lintText(t, "mixed.patch", wellFormed("-void old() {", " }", "+int x = 1;"))

	assert.True(t, r.Valid(), "unexpected issues: %v", r.Issues)
}

func TestBalancePersistsAcrossHunks(t *testing.T) {
	text := wellFormed("+void f() {", "@@ -10,1 +12,2 @@", " ctx", "+}")
	r := lintText(t, "hunks.patch", text)

	assert.True(t, r.Valid(), "unexpected issues: %v", r.Issues)
}

func TestNoAddedBracesKeepsBalanceZero(t *testing.T) {
	lines := patch.Classify(strings.Split(wellFormed("+a();", "+b();", "-c() {", " d {"), "\n"))
	issues, state := ScanBraces(lines, DefaultCommentPrefixes)

	assert.Empty(t, issues)
	assert.Equal(t, 0, state.Balance)
}

func TestBalancedSequencesNeverReport(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		var body []string
		depth := 0
		for i := 0; i < 30; i++ {
			switch {
			case depth > 0 && rng.Intn(2) == 0:
				body = append(body, "+  }")
				depth--
			case rng.Intn(3) == 0:
				body = append(body, "+  call();")
			default:
				body = append(body, "+  if (x) {")
				depth++
			}
		}
		for ; depth > 0; depth-- {
			body = append(body, "+}")
		}

		lines := patch.Classify(strings.Split(wellFormed(body...), "\n"))
		issues, state := ScanBraces(lines, DefaultCommentPrefixes)
		require.Empty(t, issues, "iteration %d", iter)
		require.Equal(t, 0, state.Balance)
	}
}

func TestMissingHeaderOnly(t *testing.T) {
	text := strings.TrimPrefix(wellFormed("+int x;"), "From 0123456789abcdef Mon Sep 17 00:00:00 2001\n")
	r := lintText(t, "noheader.patch", text)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, "missing proper patch header", r.Issues[0].Message)
	assert.Equal(t, model.IssueStructure, r.Issues[0].Kind)
}

func TestCheckStructure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"well formed", wellFormed("+x"), nil},
		{"empty", "", []string{"missing proper patch header", "missing file diff markers", "missing diff sections"}},
		{"no hunks", "From x\n--- a\n+++ b\n", []string{"missing diff sections"}},
		{"only minus marker", "From x\n--- a\n@@ -1 +1 @@\n", []string{"missing file diff markers"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, i := range CheckStructure(tt.text) {
				got = append(got, i.Message)
				assert.True(t, i.FileLevel())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructureProblemsDoNotStopOtherChecks(t *testing.T) {
	r := lintText(t, "branding-broken.patch", "@@ -1 +1 @@\n+Chrome }\n")

	var kinds []model.IssueKind
	for _, i := range r.Issues {
		kinds = append(kinds, i.Kind)
	}
	assert.Contains(t, kinds, model.IssueStructure)
	assert.Contains(t, kinds, model.IssueBraces)
	assert.Contains(t, kinds, model.IssueBranding)
}

func TestBranding(t *testing.T) {
	bad := lintText(t, "branding.patch", wellFormed("+  title = \"Chromium\";"))
	require.Len(t, bad.Issues, 1)
	assert.Equal(t, 8, bad.Issues[0].Line)
	assert.Equal(t, "inconsistent branding — should use 'PrivacyAgent'", bad.Issues[0].Message)

	good := lintText(t, "branding.patch", wellFormed("+  title = \"PrivacyAgent (Chromium based)\";"))
	assert.True(t, good.Valid(), "unexpected issues: %v", good.Issues)
}

func TestBrandingOnlyForMatchingFiles(t *testing.T) {
	r := lintText(t, "feature.patch", wellFormed("+Chromium"))
	assert.True(t, r.Valid())

	r = lintText(t, "Add-BRANDING-strings.patch", wellFormed("+Chrome"))
	assert.Len(t, r.Issues, 1)
}

func TestBrandingIgnoresCommentSkipping(t *testing.T) {
	r := lintText(t, "branding.patch", wellFormed("+// Chrome"))
	assert.Len(t, r.Issues, 1)
}

func TestCustomBranding(t *testing.T) {
	opts := DefaultOptions()
	opts.Branding = Branding{OldTerms: []string{"Acme"}, Replacement: "Globex", FileFilter: "strings"}
	l, err := New(opts)
	require.NoError(t, err)

	r := l.Lint(patch.FromString("ui-strings.patch", wellFormed("+Acme", "+Chromium")))
	require.Len(t, r.Issues, 1)
	assert.Equal(t, "inconsistent branding — should use 'Globex'", r.Issues[0].Message)
}

func TestSkip(t *testing.T) {
	opts := DefaultOptions()
	opts.Skip = []string{NameBraces, NameStructure}
	l, err := New(opts)
	require.NoError(t, err)

	r := l.Lint(patch.FromString("x.patch", "+}\n"))
	assert.True(t, r.Valid(), "unexpected issues: %v", r.Issues)

	_, err = New(Options{Skip: []string{"bogus"}})
	assert.ErrorContains(t, err, `unknown check "bogus"`)
}

func TestLintStats(t *testing.T) {
	text := strings.Replace(header, "@@ -1,1 +1,3 @@", "@@ -1,2 +1,5 @@", 1) +
		" a\n+void f() {\n+  do_thing();\n+}\n b\n"
	r := lintText(t, "func.patch", text)
	require.True(t, r.Valid(), "unexpected issues: %v", r.Issues)

	assert.Equal(t, 1, r.Stats.Files)
	assert.Equal(t, 3, r.Stats.Added)
}

func TestTraceBraces(t *testing.T) {
	lines := patch.Classify(strings.Split(wellFormed("+}", "+f() {", "+x();", "+  // {", "+} {"), "\n"))
	steps := TraceBraces(lines, DefaultCommentPrefixes)

	require.Len(t, steps, 3)
	assert.Equal(t, BraceStep{Line: 8, Text: "}", Close: 1, Balance: -1, Unmatched: true}, steps[0])
	assert.Equal(t, BraceStep{Line: 9, Text: "f() {", Open: 1, Balance: 1}, steps[1])
	assert.Equal(t, BraceStep{Line: 12, Text: "} {", Open: 1, Close: 1, Balance: 1}, steps[2])
}

func TestReadErrorReport(t *testing.T) {
	r := ReadErrorReport("/x/a.patch", "a.patch", errors.New("permission denied"))

	require.Len(t, r.Issues, 1)
	assert.False(t, r.Valid())
	assert.Equal(t, model.IssueIO, r.Issues[0].Kind)
	assert.Equal(t, "error reading file: permission denied", r.Issues[0].Message)
}
