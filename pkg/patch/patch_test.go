package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/gnustyle/pkg/patch"
)

const gitPatch = `diff --git a/gcc/tree.c b/gcc/tree.c
index 1111111..2222222 100644
--- a/gcc/tree.c
+++ b/gcc/tree.c
@@ -10,4 +10,5 @@ build_tree (void)
 int a;
-int b;
+int b = 1;
+int c;
 int d;
 int e;
diff --git a/gcc/testsuite/gcc.dg/pr1.c b/gcc/testsuite/gcc.dg/pr1.c
new file mode 100644
index 0000000..3333333
--- /dev/null
+++ b/gcc/testsuite/gcc.dg/pr1.c
@@ -0,0 +1,2 @@
+int main ()  {
+}
diff --git a/gcc/old.c b/gcc/old.c
deleted file mode 100644
index 4444444..0000000
--- a/gcc/old.c
+++ /dev/null
@@ -1,1 +0,0 @@
-int gone;
`

func TestParse_GitPatch(t *testing.T) {
	files, err := patch.Parse([]byte(gitPatch))
	require.NoError(t, err)
	require.Len(t, files, 2, "deleted file must be skipped")

	pr := files[0]
	assert.Equal(t, "gcc/testsuite/gcc.dg/pr1.c", pr.Path, "new files come before modified ones")
	assert.True(t, pr.New)
	assert.Len(t, pr.AddedLines(), 2)

	tree := files[1]
	assert.Equal(t, "gcc/tree.c", tree.Path)
	assert.False(t, tree.New)
	require.Len(t, tree.Hunks, 1)
	assert.Equal(t, 10, tree.Hunks[0].NewStart)

	added := tree.AddedLines()
	require.Len(t, added, 2)
	assert.Equal(t, patch.Line{Kind: patch.Added, Number: 11, Text: "int b = 1;"}, added[0])
	assert.Equal(t, patch.Line{Kind: patch.Added, Number: 12, Text: "int c;"}, added[1])

	lines := tree.Hunks[0].Lines
	require.Len(t, lines, 6)
	assert.Equal(t, patch.Removed, lines[1].Kind)
	assert.Equal(t, 0, lines[1].Number)
	assert.Equal(t, 13, lines[4].Number, "context after additions continues the target numbering")

	assert.Equal(t, "build_tree (void)", tree.Hunks[0].Section)
	assert.Equal(t, "gcc/tree.c", tree.OrigPath)
}

func TestParse_KeepsTrailingWhitespaceButNotNewline(t *testing.T) {
	input := "--- a/foo.c\n+++ b/foo.c\n@@ -0,0 +1,2 @@\n+int x;  \n+int y;\r\n"

	files, err := patch.Parse([]byte(input))
	require.NoError(t, err)
	require.Len(t, files, 1)

	added := files[0].AddedLines()
	require.Len(t, added, 2)
	assert.Equal(t, "int x;  ", added[0].Text)
	assert.Equal(t, "int y;\r", added[1].Text)
}

func TestParse_EmptyInput(t *testing.T) {
	files, err := patch.Parse([]byte("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestParse_MalformedInput(t *testing.T) {
	_, err := patch.Parse([]byte("hello world\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, patch.ErrMalformed)
}

func TestTargetPath(t *testing.T) {
	tests := map[string]string{
		"b/gcc/tree.c":  "gcc/tree.c",
		"a/gcc/tree.c":  "gcc/tree.c",
		"build/gcc.c":   "build/gcc.c",
		"bb/foo.c":      "bb/foo.c",
		"/dev/null":     "/dev/null",
		"plain/file.cc": "plain/file.cc",
	}
	for in, want := range tests {
		assert.Equal(t, want, patch.TargetPath(in), in)
	}
}

func TestExclude(t *testing.T) {
	files := []patch.File{
		{Path: "gcc/tree.c"},
		{Path: "gcc/testsuite/gcc.dg/pr1.c"},
		{Path: "libstdc++-v3/testsuite/util.h"},
	}

	kept, skipped := patch.Exclude(files, patch.DefaultTestsuiteMarker)
	require.Len(t, kept, 1)
	assert.Equal(t, "gcc/tree.c", kept[0].Path)
	assert.Equal(t, []string{"gcc/testsuite/gcc.dg/pr1.c", "libstdc++-v3/testsuite/util.h"}, skipped)

	all, none := patch.Exclude(files, "")
	assert.Len(t, all, 3)
	assert.Empty(t, none)
}

const svnPatch = "Index: gcc/foo.c\n" +
	"===================================================================\n" +
	"--- gcc/foo.c\t(revision 209000)\n" +
	"+++ gcc/foo.c\t(working copy)\n" +
	"@@ -1,2 +1,3 @@\n" +
	" int a;\n" +
	"+int b;  \n" +
	" int c;\n"

func TestParse_SvnHeaders(t *testing.T) {
	files, err := patch.Parse([]byte(svnPatch))
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, "gcc/foo.c", files[0].Path)
	added := files[0].AddedLines()
	require.Len(t, added, 1)
	assert.Equal(t, patch.Line{Kind: patch.Added, Number: 2, Text: "int b;  "}, added[0])
}

func TestParse_HeaderTimestamps(t *testing.T) {
	tests := map[string]string{
		"ctime":         "Mon Jan  1 10:00:00 2014",
		"iso with zone": "2014-01-01 10:00:00.123456789 +0100",
		"iso no zone":   "2014-01-01 10:00:00",
	}
	for name, stamp := range tests {
		t.Run(name, func(t *testing.T) {
			input := "--- x.c\t" + stamp + "\n+++ x.c\t" + stamp + "\n@@ -1 +1 @@\n-int a;\n+int a ;\n"
			files, err := patch.Parse([]byte(input))
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, "x.c", files[0].Path)
			assert.Len(t, files[0].AddedLines(), 1)
		})
	}
}

func TestParse_NewFilesFirst(t *testing.T) {
	input := "diff --git a/old.c b/old.c\n--- a/old.c\n+++ b/old.c\n@@ -1 +1 @@\n-x\n+y\n" +
		"diff --git a/new.c b/new.c\nnew file mode 100644\n--- /dev/null\n+++ b/new.c\n@@ -0,0 +1 @@\n+z\n" +
		"diff --git a/other.c b/other.c\n--- a/other.c\n+++ b/other.c\n@@ -1 +1 @@\n-x\n+y\n"

	files, err := patch.Parse([]byte(input))
	require.NoError(t, err)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"new.c", "old.c", "other.c"}, paths)
}
