package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetPublicURL(t *testing.T) {
	s := &MinIOStorage{bucket: "focushub", endpoint: "localhost:9000"}
	assert.Equal(t, "http://localhost:9000/focushub/avatars/a.png", s.GetPublicURL("avatars/a.png"))

	s.useSSL = true
	assert.Equal(t, "https://localhost:9000/focushub/avatars/a.png", s.GetPublicURL("avatars/a.png"))

	s.publicURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/focushub/avatars/a.png", s.GetPublicURL("avatars/a.png"))
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)
	key := ObjectKey("avatars", ".PNG", at)
	assert.True(t, strings.HasPrefix(key, "avatars/2026/01/02/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.NotEqual(t, key, ObjectKey("avatars", ".PNG", at))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", DetectContentType(".JPG"))
	assert.Equal(t, "audio/mpeg", DetectContentType(".mp3"))
	assert.Equal(t, "application/octet-stream", DetectContentType(".exe"))
}
