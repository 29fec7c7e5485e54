package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilenameFromURL_PathSegment(t *testing.T) {
	name := FilenameFromURL("https://example.com/files/model.safetensors", 1)
	assert.Equal(t, "model.safetensors", name)
}

func TestFilenameFromURL_StripsQuery(t *testing.T) {
	name := FilenameFromURL("https://example.com/files/model.safetensors?token=abc&type=Model", 1)
	assert.Equal(t, "model.safetensors", name)
}

func TestFilenameFromURL_FallbackWhenNoPath(t *testing.T) {
	assert.Equal(t, "file_1", FilenameFromURL("https://example.com", 1))
	assert.Equal(t, "file_3", FilenameFromURL("https://example.com/", 3))
}

func TestFilenameFromURL_NumericAPIPath(t *testing.T) {
	name := FilenameFromURL("https://civitai.com/api/download/models/12345", 2)
	assert.Equal(t, "12345", name)
}

func TestFilenameFromDisposition_SimpleForm(t *testing.T) {
	name := FilenameFromDisposition(`attachment; filename="model.safetensors"`)
	assert.Equal(t, "model.safetensors", name)
}

func TestFilenameFromDisposition_ExtendedForm(t *testing.T) {
	name := FilenameFromDisposition(`attachment; filename*=UTF-8''my%20model.safetensors`)
	assert.Equal(t, "my model.safetensors", name)
}

func TestFilenameFromDisposition_ExtendedFormWins(t *testing.T) {
	cd := `attachment; filename="plain.bin"; filename*=utf-8''encoded.bin`
	assert.Equal(t, "encoded.bin", FilenameFromDisposition(cd))
}

func TestFilenameFromDisposition_Empty(t *testing.T) {
	assert.Equal(t, "", FilenameFromDisposition(""))
	assert.Equal(t, "", FilenameFromDisposition("attachment"))
}

func TestSafeFilename_StripsDirectories(t *testing.T) {
	assert.Equal(t, "x.bin", SafeFilename("/etc/../x.bin"))
	assert.Equal(t, "x.bin", SafeFilename(`C:\temp\x.bin`))
	assert.Equal(t, "passwd", SafeFilename("../../etc/passwd"))
}

func TestSafeFilename_RejectsUnusable(t *testing.T) {
	assert.Equal(t, "", SafeFilename(""))
	assert.Equal(t, "", SafeFilename("."))
	assert.Equal(t, "", SafeFilename(".."))
	assert.Equal(t, "", SafeFilename("/"))
	assert.Equal(t, "", SafeFilename("   "))
}
