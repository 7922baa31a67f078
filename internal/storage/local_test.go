package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFolderSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "markdown content")
	writeFile(t, dir, "notes.txt", "plain text content")
	writeFile(t, dir, filepath.Join("sub", "deep.md"), "nested content")

	docs, skipped, err := NewFolderSource(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, skipped)
	require.Len(t, docs, 3)

	bySource := map[string]string{}
	for _, d := range docs {
		bySource[d.Source] = d.Text
	}
	assert.Equal(t, "markdown content", bySource["readme.md"])
	assert.Equal(t, "plain text content", bySource["notes.txt"])
	assert.Equal(t, "nested content", bySource["sub/deep.md"])
}

func TestFolderSource_Load_SkipsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "kept")
	writeFile(t, dir, "photo.png", "binary")
	writeFile(t, dir, "data.json", "{}")

	docs, skipped, err := NewFolderSource(dir).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "keep.md", docs[0].Source)

	require.Len(t, skipped, 2)
	paths := []string{skipped[0].Path, skipped[1].Path}
	assert.ElementsMatch(t, []string{"photo.png", "data.json"}, paths)
	assert.Contains(t, skipped[0].Reason, "unsupported file type")
}

func TestFolderSource_Load_UppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "SHOUTY.MD", "accepted regardless of case")

	docs, _, err := NewFolderSource(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestFolderSource_Load_NoSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "only.pdf", "nope")

	_, skipped, err := NewFolderSource(dir).Load(context.Background())
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
	assert.Len(t, skipped, 1)
}

func TestFolderSource_Load_MissingFolder(t *testing.T) {
	_, _, err := NewFolderSource(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
}

func TestFolderSource_Load_PathIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "file.md", "content")

	_, _, err := NewFolderSource(filepath.Join(dir, "file.md")).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestParseS3URL(t *testing.T) {
	bucket, prefix, err := ParseS3URL("s3://my-bucket/docs/guides")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "docs/guides", prefix)

	bucket, prefix, err = ParseS3URL("s3://my-bucket")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Empty(t, prefix)

	_, _, err = ParseS3URL("http://my-bucket/docs")
	assert.Error(t, err)

	_, _, err = ParseS3URL("s3://")
	assert.Error(t, err)
}
