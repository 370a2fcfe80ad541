package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/gnustyle/pkg/patch"
	"github.com/dkoosis/gnustyle/pkg/report"
	"github.com/dkoosis/gnustyle/pkg/sarif"
)

// isolate runs the test in an empty directory with no config file and a
// clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	for _, key := range []string{"GNUSTYLE_FORMAT", "GNUSTYLE_THEME", "GNUSTYLE_NO_COLOR", "NO_COLOR", "GNUSTYLE_DEBUG"} {
		t.Setenv(key, "")
	}
	return dir
}

func addLinePatch(path, line string) string {
	return fmt.Sprintf("diff --git a/%[1]s b/%[1]s\n"+
		"--- a/%[1]s\n"+
		"+++ b/%[1]s\n"+
		"@@ -1,2 +1,3 @@\n"+
		" int a;\n"+
		"+%[2]s\n"+
		" int b;\n", path, line)
}

func writePatch(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "change.patch")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestE2E_LineLengthViolation(t *testing.T) {
	dir := isolate(t)
	line := strings.Repeat("a", 81) + " = 123;"
	p := writePatch(t, dir, addLinePatch("gcc/tree.c", line))

	var stdout, stderr bytes.Buffer
	code := run([]string{p}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, report.ExitViolations, code, "stderr: %s", stderr.String())
	want := "=== ERROR type #1: lines should not exceed 80 characters (1 error(s)) ===\n" +
		"gcc/tree.c:2:80:" + line + "\n" +
		"\n"
	assert.Equal(t, want, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestE2E_TestsuiteOnlyPatch(t *testing.T) {
	dir := isolate(t)
	line := strings.Repeat("a", 100) + "   "
	p := writePatch(t, dir, addLinePatch("gcc/testsuite/gcc.dg/pr123.c", line))

	var stdout, stderr bytes.Buffer
	code := run([]string{p}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, report.ExitOK, code, "stderr: %s", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestE2E_QuickfixNoViolations(t *testing.T) {
	dir := isolate(t)
	p := writePatch(t, dir, addLinePatch("gcc/tree.c", "int c;"))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "quickfix", p}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, report.ExitOK, code, "stderr: %s", stderr.String())
	assert.Empty(t, stdout.String(), "no summary line without violations")

	data, err := os.ReadFile(filepath.Join(dir, report.DefaultQuickfixFile))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestE2E_QuickfixWithViolations(t *testing.T) {
	dir := isolate(t)
	p := writePatch(t, dir, addLinePatch("gcc/tree.c", "int c;  "))
	out := filepath.Join(dir, "style.err")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format=quickfix", "-o", out, p}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, report.ExitViolations, code, "stderr: %s", stderr.String())
	assert.Equal(t, "1 error(s) written to "+out+" file.\n", stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "gcc/tree.c:2:6:trailing whitespace\n", string(data))
}

func TestE2E_Stdin(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader(addLinePatch("lib/a.c", "x = a [0];")), &stdout, &stderr)

	assert.Equal(t, report.ExitViolations, code)
	assert.Contains(t, stdout.String(), "there should be no space before a left square bracket (1 error(s))")
	assert.Contains(t, stdout.String(), "lib/a.c:2:6:x = a [0];")
}

func TestE2E_SARIF(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "sarif", "-"}, strings.NewReader(addLinePatch("lib/a.c", "if (x) {")), &stdout, &stderr)
	require.Equal(t, report.ExitViolations, code, "stderr: %s", stderr.String())

	var doc sarif.Document
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	require.Len(t, doc.Runs[0].Results, 1)
	r := doc.Runs[0].Results[0]
	assert.Equal(t, "braces-on-separate-line", r.RuleID)
	assert.Equal(t, "lib/a.c", r.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 8, r.Locations[0].PhysicalLocation.Region.StartColumn)
}

func TestE2E_DisableFlag(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--disable", "braces-on-separate-line", "-"}, strings.NewReader(addLinePatch("lib/a.c", "if (x) {")), &stdout, &stderr)

	assert.Equal(t, report.ExitOK, code, "stderr: %s", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestE2E_ConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gnustyle.yaml"), []byte("line_limit: 10\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader(addLinePatch("lib/a.c", "int abcdef;")), &stdout, &stderr)

	assert.Equal(t, report.ExitViolations, code)
	assert.Contains(t, stdout.String(), "lines should not exceed 10 characters")
}

func TestE2E_DebugLogsToStderr(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--debug", "-"}, strings.NewReader(addLinePatch("gcc/testsuite/x.c", "int c;")), &stdout, &stderr)

	assert.Equal(t, report.ExitOK, code)
	assert.Contains(t, stderr.String(), "skipping test-suite file")
	assert.Empty(t, stdout.String())
}

func TestE2E_EmptyPatch(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader("\n\n"), &stdout, &stderr)
	assert.Equal(t, report.ExitOK, code)
	assert.Empty(t, stdout.String())
}

func TestE2E_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{name: "malformed patch", args: []string{"-"}, stdin: "this is not a patch\n"},
		{name: "missing file", args: []string{"does-not-exist.patch"}},
		{name: "no arguments", args: nil},
		{name: "unknown format", args: []string{"-f", "json", "-"}, stdin: addLinePatch("a.c", "x")},
		{name: "unknown flag", args: []string{"--frobnicate", "-"}},
		{name: "unknown check", args: []string{"--disable", "tabs", "-"}, stdin: addLinePatch("a.c", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			assert.Equal(t, report.ExitError, code)
			assert.Contains(t, stderr.String(), "gnustyle:")
			assert.Empty(t, stdout.String())
		})
	}
}

func TestExitFor(t *testing.T) {
	assert.Equal(t, report.ExitDependency, exitFor(fmt.Errorf("load: %w", report.ErrDependency)))
	assert.Equal(t, report.ExitError, exitFor(fmt.Errorf("x: %w", patch.ErrMalformed)))
	assert.Equal(t, report.ExitError, exitFor(os.ErrNotExist))
}

func TestChecksCommand(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"checks", "--disable", "trailing-operator"}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, report.ExitOK, code, "stderr: %s", stderr.String())
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "line-length "))
	assert.Contains(t, lines[0], "Line Length")
	assert.True(t, strings.HasSuffix(lines[10], "trailing operator (disabled)"))
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, report.ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "gnustyle dev"))
}

func TestE2E_SvnDiff(t *testing.T) {
	isolate(t)
	input := "Index: gcc/foo.c\n" +
		"===================================================================\n" +
		"--- gcc/foo.c\t(revision 209000)\n" +
		"+++ gcc/foo.c\t(working copy)\n" +
		"@@ -1,2 +1,3 @@\n" +
		" int a;\n" +
		"+int b;  \n" +
		" int c;\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "quickfix", "-o", "svn.err", "-"}, strings.NewReader(input), &stdout, &stderr)

	require.Equal(t, report.ExitViolations, code, "stderr: %s", stderr.String())
	data, err := os.ReadFile("svn.err")
	require.NoError(t, err)
	assert.Equal(t, "gcc/foo.c:2:6:trailing whitespace\n", string(data))
}

func TestE2E_CtimeHeaderDates(t *testing.T) {
	isolate(t)
	input := "--- x.c\tMon Jan  1 10:00:00 2014\n" +
		"+++ x.c\tMon Jan  1 10:05:00 2014\n" +
		"@@ -1 +1 @@\n" +
		"-int a;\n" +
		"+int a [2];\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader(input), &stdout, &stderr)

	require.Equal(t, report.ExitViolations, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "x.c:1:6:int a [2];")
}

func TestE2E_DebugLogsHunks(t *testing.T) {
	isolate(t)
	input := "diff --git a/gcc/old.c b/gcc/new.c\n" +
		"similarity index 90%\n" +
		"rename from gcc/old.c\n" +
		"rename to gcc/new.c\n" +
		"--- a/gcc/old.c\n" +
		"+++ b/gcc/new.c\n" +
		"@@ -10,2 +10,3 @@ build_tree (void)\n" +
		" int a;\n" +
		"+int b;\n" +
		" int c;\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"--debug", "-"}, strings.NewReader(input), &stdout, &stderr)

	require.Equal(t, report.ExitOK, code, "stderr: %s", stderr.String())
	logs := stderr.String()
	assert.Contains(t, logs, "path=gcc/new.c orig=gcc/old.c new=false added_lines=1")
	assert.Contains(t, logs, `section="build_tree (void)"`)
}

func TestRootHelp_MentionsSubcommandNames(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--help"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, report.ExitOK, code)
	assert.Contains(t, stdout.String(), "./checks")
}

func TestE2E_PatchNamedLikeSubcommand(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checks"), []byte(addLinePatch("lib/a.c", "int c;  ")), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"./checks"}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, report.ExitViolations, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "lib/a.c:2:6:")
}
