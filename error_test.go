package docqa_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/docqa"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docqa.Errorf(docqa.ENOTFOUND, "collection %q not found", "docs")

	assert.Equal(t, docqa.ENOTFOUND, docqa.ErrorCode(err))
	assert.Equal(t, "collection \"docs\" not found", docqa.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docqa.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docqa.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	t.Run("unwraps application error", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("upsert: %w", docqa.Errorf(docqa.EINVALID, "bad payload"))

		assert.Equal(t, docqa.EINVALID, docqa.ErrorCode(err))
		assert.Equal(t, "bad payload", docqa.ErrorMessage(err))
	})

	t.Run("reports internal for other errors", func(t *testing.T) {
		t.Parallel()

		err := errors.New("connection refused")

		assert.Equal(t, docqa.EINTERNAL, docqa.ErrorCode(err))
		assert.Equal(t, "Internal error.", docqa.ErrorMessage(err))
	})
}
