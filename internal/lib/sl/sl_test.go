package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}

func TestMasked_LongValue(t *testing.T) {
	attr := sl.Masked("token", "abcdefghijklmnop")

	assert.Equal(t, "token", attr.Key)
	assert.Equal(t, slog.StringValue("abcd...mnop"), attr.Value)
}

func TestMasked_ShortValueKeptAsIs(t *testing.T) {
	attr := sl.Masked("token", "abcd")

	assert.Equal(t, slog.StringValue("abcd"), attr.Value)
}
