// Package authz calls the external authentication collaborator to verify
// bearer tokens presented to the read API.
package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInvalidToken is returned when the collaborator rejects a token. Any
// other error means the verify call itself failed.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified caller extracted into the request context.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Verifier checks bearer tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Client is the HTTP verifier against the authentication collaborator.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient targets the collaborator at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Reason string `json:"reason,omitempty"`
}

// Verify posts the token to the collaborator's verify operation. A rejected
// token yields ErrInvalidToken wrapped with the downstream reason.
func (c *Client) Verify(ctx context.Context, token string) (Identity, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return Identity{}, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to call token verifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Identity{}, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("token verifier returned status %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return Identity{}, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if !vr.Valid {
		if vr.Reason != "" {
			return Identity{}, fmt.Errorf("%w: %s", ErrInvalidToken, vr.Reason)
		}
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: vr.UserID, Email: vr.Email}, nil
}
