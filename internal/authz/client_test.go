package authz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_ValidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		var req verifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok-abc", req.Token)
		json.NewEncoder(w).Encode(verifyResponse{Valid: true, UserID: "u-1", Email: "trader@example.com"})
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).Verify(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "trader@example.com", id.Email)
}

func TestVerify_RejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(verifyResponse{Valid: false, Reason: "token expired"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Verify(context.Background(), "tok-old")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Contains(t, err.Error(), "token expired")
}

func TestVerify_UnauthorizedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Verify(context.Background(), "tok")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerify_CollaboratorDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}
