package apperror

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Run("Wrapped app error keeps its kind", func(t *testing.T) {
		err := fmt.Errorf("claim task: %w", Conflict("task already claimed"))
		assert.Equal(t, KindConflict, KindOf(err))
		assert.True(t, Is(err, KindConflict))
	})

	t.Run("Foreign error is unexpected", func(t *testing.T) {
		assert.Equal(t, KindUnexpected, KindOf(sql.ErrConnDone))
	})

	t.Run("Nil has no kind", func(t *testing.T) {
		assert.Equal(t, Kind(""), KindOf(nil))
		assert.False(t, Is(nil, KindUnexpected))
	})
}

func TestWrap(t *testing.T) {
	nf := NotFound("attendance not found")
	assert.Same(t, nf, Wrap(nf, "ignored"))

	err := Wrap(sql.ErrConnDone, "failed to load task")
	assert.Equal(t, KindUnexpected, KindOf(err))
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, "internal server error", PublicMessage(err))

	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindUnexpected:      http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), string(kind))
	}
}
