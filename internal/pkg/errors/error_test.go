package errors

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesMessageAndLocation(t *testing.T) {
	e := New("upload rejected")
	require.NotNil(t, e)

	assert.Regexp(t, `^upload rejected: at .*TestNewCarriesMessageAndLocation`, e.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := New("transport failed")
	wrapped := Wrap(cause, "failed to upload file")

	assert.Equal(t, cause, errors.Unwrap(wrapped))
	assert.True(t, Is(wrapped, cause))
	assert.Contains(t, wrapped.Error(), "failed to upload file")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing to wrap"))
}

func TestSentinelMatchesThroughWrap(t *testing.T) {
	errSentinel := Sentinel("no file selected")
	wrapped := Wrap(Wrap(errSentinel, "inner"), "outer")

	assert.True(t, Is(wrapped, errSentinel))
	assert.Equal(t, "no file selected", errSentinel.Error())
}

type codeErr struct{ code int }

func (c *codeErr) Error() string { return "code" }

func TestAsFindsTypedError(t *testing.T) {
	wrapped := Wrap(&codeErr{code: 500}, "upload failed")

	var target *codeErr
	require.True(t, As(wrapped, &target))
	assert.Equal(t, 500, target.code)
}

func TestErrorfAppendsLocation(t *testing.T) {
	e := Errorf("status %d", 404)
	assert.Regexp(t, `^status 404 at .*TestErrorfAppendsLocation`, e.Error())
}

func TestFilePath(t *testing.T) {
	path := filePath()

	if path == "" {
		t.Fatalf("expected non-empty string but got empty string")
	}

	pattern := `^at testing.tRunner.*`
	match, err := regexp.Match(pattern, []byte(path))
	if err != nil {
		t.Fatal(err)
	}

	if !match {
		t.Fatalf("expected %q to match %q", path, pattern)
	}
}
