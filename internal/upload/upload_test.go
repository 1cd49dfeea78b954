package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageConstraints() Constraints {
	return ImageConstraints(2, []string{"jpg", "jpeg", "png", "webp", "gif"})
}

func TestValidateAcceptsImageUnderLimit(t *testing.T) {
	res := Validate(File{Name: "team.jpg", Size: 3 << 19, MIME: "image/jpeg"}, imageConstraints()) // 1.5MB

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	res := Validate(File{Name: "hero.png", Size: 3 << 20, MIME: "image/png"}, imageConstraints())

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "too large")
	assert.Contains(t, res.Errors[0], "2MB")
}

func TestValidateRejectsDisallowedExtension(t *testing.T) {
	res := Validate(File{Name: "brochure.pdf", Size: 1 << 20, MIME: "application/pdf"}, imageConstraints())

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], ".pdf is not allowed")
}

func TestValidateRejectsMissingFile(t *testing.T) {
	res := Validate(File{}, imageConstraints())

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "no file")
}

func TestValidateSizeCheckedBeforeExtension(t *testing.T) {
	// Oversized and wrong type: only the size error surfaces.
	res := Validate(File{Name: "dump.pdf", Size: 5 << 20, MIME: "application/pdf"}, imageConstraints())

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "too large")
}

func TestValidateRejectsMismatchedMIME(t *testing.T) {
	res := Validate(File{Name: "script.png", Size: 1 << 18, MIME: "text/html"}, imageConstraints())

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "text/html")
}

func TestValidateUnknownMIMEIsWarningOnly(t *testing.T) {
	res := Validate(File{Name: "photo.jpg", Size: 1 << 18, MIME: "application/octet-stream"}, imageConstraints())

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.Warnings)
}

func TestValidateUnderMinimum(t *testing.T) {
	c := imageConstraints()
	c.MinSize = 1 << 10

	res := Validate(File{Name: "dot.png", Size: 12, MIME: "image/png"}, c)

	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "too small")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("A.JPG"))
	assert.Equal(t, "", Extension("noext"))
	assert.Equal(t, "webp", Extension("a.b.webp"))
}
