package httpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeByName(t *testing.T) {
	assert.Equal(t, "video/mp4", contentTypeByName("movies/starfall.mp4"))
	assert.Equal(t, "image/png", contentTypeByName("posters/starfall.png"))
	assert.Equal(t, "application/octet-stream", contentTypeByName("blob"))
}
