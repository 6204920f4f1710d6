package dictgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := dictgen.Errorf(dictgen.ESTRUCTURE, "could not find %q", "info box")

	assert.Equal(t, dictgen.ESTRUCTURE, dictgen.ErrorCode(err))
	assert.Equal(t, "could not find \"info box\"", dictgen.ErrorMessage(err))
}

func TestErrorf_Wrapping(t *testing.T) {
	t.Parallel()

	cause := dictgen.Errorf(dictgen.EDOWNSTREAM, "connection reset")
	err := dictgen.Errorf(dictgen.EDOWNSTREAM, "error fetching page: %w", cause)

	assert.Equal(t, dictgen.EDOWNSTREAM, dictgen.ErrorCode(err))
	assert.ErrorIs(t, err, cause)
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dictgen.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, dictgen.ErrorMessage(nil))
}
