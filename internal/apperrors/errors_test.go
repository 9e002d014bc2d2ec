package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		errType ErrorType
		want    int
	}{
		{InvalidArgument, http.StatusBadRequest},
		{CityNotFound, http.StatusNotFound},
		{UpstreamAuth, http.StatusBadGateway},
		{UpstreamUnavailable, http.StatusServiceUnavailable},
		{MalformedUpstream, http.StatusBadGateway},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.errType), func(t *testing.T) {
			assert.Equal(t, tc.want, New(tc.errType, "boom").HTTPStatus())
		})
	}
}

func TestWrapPreservesChain(t *testing.T) {
	raw := errors.New("dial tcp: connection refused")
	err := Wrap(raw, UpstreamUnavailable, "upstream fetch failed")

	assert.ErrorIs(t, err, raw)
	assert.Contains(t, err.Error(), "connection refused")

	appErr, ok := As(fmt.Errorf("during lookup: %w", err))
	assert.True(t, ok)
	assert.Equal(t, UpstreamUnavailable, appErr.Type)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, InvalidArgument, "ignored"))
}

func TestIsType(t *testing.T) {
	err := New(CityNotFound, "no matching city")
	assert.True(t, IsType(err, CityNotFound))
	assert.False(t, IsType(err, UpstreamAuth))
	assert.False(t, IsType(errors.New("plain"), CityNotFound))
}
