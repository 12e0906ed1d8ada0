package provider

import (
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestWrapCall(t *testing.T) {
	assert.NoError(t, WrapCall("x", nil))

	err := WrapCall("firecrawl", errors.New("boom"))
	var ce *CallError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, "firecrawl", ce.Provider)

	// Already-normalized errors pass through unchanged.
	orig := Unavailable("notion", "no token")
	assert.Equal(t, error(orig), WrapCall("notion", orig))

	wrapped := WrapCall("github", WrapCall("github", errors.New("boom")))
	var inner *CallError
	assert.ErrorAs(t, wrapped, &inner)
	assert.Equal(t, "github", inner.Provider)
}

func TestIsRecoverable(t *testing.T) {
	assert.False(t, IsRecoverable(nil))
	assert.False(t, IsRecoverable(errors.New("plain")))
	assert.True(t, IsRecoverable(Unavailable("railway", "")))
	assert.True(t, IsRecoverable(&CallError{Provider: "x", Err: errors.New("y")}))

	// Recoverability survives wrapping.
	assert.True(t, IsRecoverable(eris.Wrap(Unavailable("railway", ""), "deploy")))
}
