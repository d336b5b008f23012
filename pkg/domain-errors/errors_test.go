package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("wrapped error keeps cause and code", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "failed to load records")

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, "failed to load records: connection reset", err.Error())
	})
}

func TestHasCode(t *testing.T) {
	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeNotFound))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeNotFound, "record not found")
		outer := Wrap(inner, CodeDataIntegrity, "ledger rejected")

		assert.True(t, Is(outer, CodeDataIntegrity))
		assert.Equal(t, CodeDataIntegrity, CodeOf(outer))
	})
}
