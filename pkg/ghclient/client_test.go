package ghclient

import (
	"errors"
	"net/http"
	"testing"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	assert.True(t, NotFound(&api.HTTPError{StatusCode: http.StatusNotFound}))
	assert.False(t, NotFound(&api.HTTPError{StatusCode: http.StatusInternalServerError}))
	assert.False(t, NotFound(errors.New("boom")))
	assert.False(t, NotFound(nil))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(errors.New("gh: authentication required")))
	assert.False(t, IsAuthError(errors.New("connection reset by peer")))
	assert.False(t, IsAuthError(nil))
}
