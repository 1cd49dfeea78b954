// Package upload validates files against size and type constraints before
// they are accepted by the storage layer.
package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

// File describes the candidate file. MIME may be empty when the caller
// could not sniff a content type.
type File struct {
	Name string
	Size int64
	MIME string
}

// Constraints bound what Validate accepts. Zero values disable the
// corresponding check.
type Constraints struct {
	MaxSize           int64
	MinSize           int64
	AllowedExtensions []string
	AllowedTypes      []string
}

// Result carries the validation outcome. Warnings never block acceptance.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImageConstraints builds the constraint set for image uploads from the
// configured size cap (in MB) and extension allow-list.
func ImageConstraints(maxSizeMB int, formats []string) Constraints {
	exts := make([]string, 0, len(formats))
	types := make([]string, 0, len(formats))
	for _, f := range formats {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if ext == "" {
			continue
		}
		exts = append(exts, ext)
		switch ext {
		case "jpg", "jpeg":
			types = append(types, "image/jpeg")
		case "png":
			types = append(types, "image/png")
		case "webp":
			types = append(types, "image/webp")
		case "gif":
			types = append(types, "image/gif")
		case "svg":
			types = append(types, "image/svg+xml")
		}
	}
	return Constraints{
		MaxSize:           int64(maxSizeMB) << 20,
		AllowedExtensions: exts,
		AllowedTypes:      types,
	}
}

// Validate runs the checks in a fixed order and stops at the first failure:
// existence, size, extension, MIME type. An undetectable MIME type is
// reported as a warning rather than a failure.
func Validate(f File, c Constraints) Result {
	res := Result{}

	if strings.TrimSpace(f.Name) == "" || f.Size <= 0 {
		res.Errors = append(res.Errors, "no file was provided")
		return res
	}

	if c.MaxSize > 0 && f.Size > c.MaxSize {
		res.Errors = append(res.Errors,
			fmt.Sprintf("file is too large: %s exceeds the %s limit", formatSize(f.Size), formatSize(c.MaxSize)))
		return res
	}
	if c.MinSize > 0 && f.Size < c.MinSize {
		res.Errors = append(res.Errors,
			fmt.Sprintf("file is too small: %s is under the %s minimum", formatSize(f.Size), formatSize(c.MinSize)))
		return res
	}

	ext := Extension(f.Name)
	if len(c.AllowedExtensions) > 0 {
		if ext == "" {
			res.Errors = append(res.Errors, "file has no extension; allowed: "+strings.Join(c.AllowedExtensions, ", "))
			return res
		}
		if !containsFold(c.AllowedExtensions, ext) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("file type .%s is not allowed; allowed: %s", ext, strings.Join(c.AllowedExtensions, ", ")))
			return res
		}
	}

	if len(c.AllowedTypes) > 0 {
		mime := normalizeMIME(f.MIME)
		if mime == "" {
			res.Warnings = append(res.Warnings, "file content type could not be determined; accepted by extension")
		} else if !containsFold(c.AllowedTypes, mime) {
			res.Errors = append(res.Errors, fmt.Sprintf("content type %s is not allowed", mime))
			return res
		}
	}

	res.IsValid = true
	return res
}

// Extension returns the lowercase extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func normalizeMIME(mime string) string {
	mime = strings.TrimSpace(strings.ToLower(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if mime == "application/octet-stream" {
		// Browsers fall back to this for anything unrecognized.
		return ""
	}
	return mime
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}

func formatSize(n int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
	)
	switch {
	case n >= mb:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/mb), ".0") + "MB"
	case n >= kb:
		return fmt.Sprintf("%dKB", n/kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
