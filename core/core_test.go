package core_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbuy/auth/core"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	core.JSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestText(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	core.Text(rec, http.StatusNotFound, "User not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found\n", rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Email string `json:"email"`
	}

	t.Run("decodes valid body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
		var p payload
		require.NoError(t, core.DecodeJSON(req, &p))
		assert.Equal(t, "a@b.co", p.Email)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		var p payload
		assert.ErrorIs(t, core.DecodeJSON(req, &p), core.ErrInvalidBody)
	})

	t.Run("rejects trailing garbage", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}{"x":1}`))
		var p payload
		assert.ErrorIs(t, core.DecodeJSON(req, &p), core.ErrInvalidBody)
	})
}
