package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `json:"email"     validate:"required,email"`
	Size  int    `json:"page_size" validate:"gte=1,lte=20"`
}

type selfValidating struct {
	called bool
}

func (s *selfValidating) Validate() error {
	s.called = true
	return errors.New("custom")
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.com","page_size":3}`))
		var req sampleRequest
		require.NoError(t, DecodeJSON(r, &req))
		assert.Equal(t, sampleRequest{Email: "a@b.com", Size: 3}, req)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var req sampleRequest
		assert.ErrorIs(t, DecodeJSON(r, &req), ErrEmptyBody)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"mail":"a@b.com"}`))
		var req sampleRequest
		err := DecodeJSON(r, &req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON body")
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		var req sampleRequest
		assert.Error(t, DecodeJSON(r, &req))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateRequest(&sampleRequest{Email: "a@b.com", Size: 20}))

	err := ValidateRequest(&sampleRequest{Email: "nope", Size: 21})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "email", verrs[0].Field())
	assert.Equal(t, "page_size", verrs[1].Field())

	custom := &selfValidating{}
	assert.EqualError(t, ValidateRequest(custom), "custom")
	assert.True(t, custom.called)
}
