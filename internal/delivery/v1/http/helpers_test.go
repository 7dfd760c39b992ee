package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DRSN-tech/products-api/pkg/e"
	"github.com/stretchr/testify/require"
)

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"bad request sentinel", e.ErrStatusBadRequest, http.StatusBadRequest},
		{"invalid product id", e.ErrInvalidProductID, http.StatusBadRequest},
		{"wrapped invalid id", e.Wrap("parseProductID", e.ErrInvalidProductID), http.StatusBadRequest},
		{"invalid body", e.ErrInvalidBody, http.StatusBadRequest},
		{"storage failure", errors.New("duplicate key value"), http.StatusInternalServerError},
		{"not found leaks as 500", e.ErrProductNotFound, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tc.err)
			require.Equal(t, tc.wantCode, code)
			require.NotEmpty(t, msg)
		})
	}
}

func TestToHTTPResponse_InternalDetailsHidden(t *testing.T) {
	code, msg := ToHTTPResponse(errors.New("pq: password authentication failed"))
	require.Equal(t, http.StatusInternalServerError, code)
	require.NotContains(t, msg, "password")
}
