package aisle_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/RichardMcSorley/aisle"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := aisle.Errorf(aisle.ENOTFOUND, "run %q not found", "test")

	assert.Equal(t, aisle.ENOTFOUND, aisle.ErrorCode(err))
	assert.Equal(t, "run \"test\" not found", aisle.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, aisle.ErrorCode(nil))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, aisle.EINTERNAL, aisle.ErrorCode(errors.New("boom")))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("query failed: %w", aisle.Errorf(aisle.EUNAVAILABLE, "source unreachable"))

	assert.Equal(t, aisle.EUNAVAILABLE, aisle.ErrorCode(err))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, aisle.ErrorMessage(nil))
}

func TestErrorMessage_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", aisle.ErrorMessage(errors.New("boom")))
}

func TestExhaustedError(t *testing.T) {
	t.Parallel()

	cause := aisle.Errorf(aisle.EUNAVAILABLE, "source unreachable")
	err := aisle.ExhaustedError(cause, "query:milk: retry attempts exhausted")

	assert.Equal(t, aisle.EEXHAUSTED, aisle.ErrorCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "query:milk: retry attempts exhausted: source unreachable", err.Error())
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, aisle.Retryable(aisle.Errorf(aisle.EUNAVAILABLE, "source unreachable")))
	assert.True(t, aisle.Retryable(aisle.RateLimitErrorf(0, "rate limited")))
	assert.False(t, aisle.Retryable(aisle.Errorf(aisle.EINVALID, "bad request")))
	assert.False(t, aisle.Retryable(aisle.Errorf(aisle.ENOTFOUND, "no such category")))
	assert.False(t, aisle.Retryable(errors.New("boom")))
	assert.False(t, aisle.Retryable(nil))
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()

	t.Run("carries the source hint", func(t *testing.T) {
		t.Parallel()

		err := aisle.RateLimitErrorf(30*time.Second, "rate limited: HTTP 429")

		d, ok := aisle.RetryAfter(err)
		assert.True(t, ok)
		assert.Equal(t, 30*time.Second, d)
	})

	t.Run("absent without a hint", func(t *testing.T) {
		t.Parallel()

		_, ok := aisle.RetryAfter(aisle.RateLimitErrorf(0, "rate limited: HTTP 403"))
		assert.False(t, ok)
	})

	t.Run("absent for plain errors", func(t *testing.T) {
		t.Parallel()

		_, ok := aisle.RetryAfter(errors.New("boom"))
		assert.False(t, ok)
	})
}
