package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDir(t *testing.T) {
	assert.NoError(t, ValidateDir(""))
	assert.NoError(t, ValidateDir("articles"))
	assert.NoError(t, ValidateDir("articles/"))
	assert.NoError(t, ValidateDir("deep/nested/path"))
	assert.NoError(t, ValidateDir("dir with spaces"))
	assert.NoError(t, ValidateDir("日本語"))

	assert.ErrorIs(t, ValidateDir("/absolute"), ErrEscapesRoot)
	assert.ErrorIs(t, ValidateDir("."), ErrInvalidPath)
	assert.ErrorIs(t, ValidateDir("./"), ErrInvalidPath)
	assert.Error(t, ValidateDir("foo\x00bar"))
}

func TestValidateFile(t *testing.T) {
	assert.NoError(t, ValidateFile("notes.txt"))
	assert.NoError(t, ValidateFile("doc/FAQ"))
	assert.NoError(t, ValidateFile("a/b/c/d/e/f/g/h/i/j.txt"))

	assert.ErrorIs(t, ValidateFile(""), ErrInvalidPath)
	assert.ErrorIs(t, ValidateFile("doc/"), ErrInvalidPath)
	assert.Error(t, ValidateFile("/etc/passwd"))
	assert.Error(t, ValidateFile(`doc\..\..\secret`))
}

func TestTraversalVariants(t *testing.T) {
	cases := []string{
		"..",
		"../",
		"../escape",
		"foo/../../etc/passwd",
		"foo/../../../etc/shadow",
		"a/b/c/../../../../tmp/x",
		"a/..",
	}
	for _, c := range cases {
		assert.ErrorIs(t, ValidateDir(c), ErrEscapesRoot,
			"dir should reject: %q", c)
		assert.ErrorIs(t, ValidateFile(c+"/x"), ErrEscapesRoot,
			"file should reject: %q", c+"/x")
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("readme"))
	assert.NoError(t, ValidateName("notes.txt"))
	assert.NoError(t, ValidateName(".hidden"))

	assert.Error(t, ValidateName(""))
	assert.Error(t, ValidateName("."))
	assert.Error(t, ValidateName(".."))
	assert.Error(t, ValidateName("a/b"))
	assert.Error(t, ValidateName(`a\b`))
}

func TestCleanRelPath(t *testing.T) {
	assert.Equal(t, "foo/bar", CleanRelPath("./foo/bar"))
	assert.Equal(t, "foo/bar", CleanRelPath("foo//bar"))
	assert.Equal(t, "foo/bar", CleanRelPath("foo/bar/"))
	assert.Equal(t, "foo", CleanRelPath("foo/bar/.."))
	assert.Equal(t, "", CleanRelPath(""))
	assert.Equal(t, "", CleanRelPath("./"))
}

func TestJoinAndParent(t *testing.T) {
	assert.Equal(t, "notes.txt", Join("", "notes.txt"))
	assert.Equal(t, "doc/notes.txt", Join("doc", "notes.txt"))
	assert.Equal(t, "doc/notes.txt", Join("doc/", "notes.txt"))

	assert.Equal(t, "", Parent("doc"))
	assert.Equal(t, "doc", Parent("doc/misc"))
	assert.Equal(t, "doc/misc", Parent("doc/misc/old/"))
	assert.Equal(t, "", Parent(""))
}
