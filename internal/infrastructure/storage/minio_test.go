package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinIOStore_ObjectNaming(t *testing.T) {
	s := &MinIOStore{bucket: "media", basePath: "baloncesto", publicURL: "https://cdn.unl.edu.ec"}

	name := s.objectName(12, "image/png")
	assert.Regexp(t, regexp.MustCompile(`^baloncesto/coaches/12/[0-9a-f-]{36}\.png$`), name)
	assert.Regexp(t, `\.jpg$`, s.objectName(12, "image/heic"))

	url := s.objectURL(name)
	assert.Equal(t, "https://cdn.unl.edu.ec/media/"+name, url)
	assert.Equal(t, name, s.objectKey(url))
}

func TestMinIOStore_ObjectKey(t *testing.T) {
	s := &MinIOStore{bucket: "media", basePath: "baloncesto"}

	testCases := []struct {
		name string
		url  string
		want string
	}{
		{"empty", "", ""},
		{"bucket url", "http://localhost:9000/media/baloncesto/coaches/1/a.jpg", "baloncesto/coaches/1/a.jpg"},
		{"base path fallback", "https://proxy/files/baloncesto/coaches/1/a.jpg", "baloncesto/coaches/1/a.jpg"},
		{"bare key", "coaches/1/a.jpg", "coaches/1/a.jpg"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.objectKey(tc.url))
		})
	}
}

func TestMinIOStore_NoBasePath(t *testing.T) {
	s := &MinIOStore{bucket: "media", publicURL: "http://localhost:9000"}

	assert.Regexp(t, `^coaches/3/`, s.objectName(3, "image/webp"))
}
