package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/repospector/repospector/shared/api"
)

// Login returns the raw response on success because the caller forwards
// its session cookie to the browser.
func (c *APIClient) Login(ctx context.Context, email, password string) (*http.Response, error) {
	body, err := json.Marshal(api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login data: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, responseError(resp)
	}
	return resp, nil
}

// ForgotPassword returns the backend's message, which is generic whether or
// not the account exists.
func (c *APIClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.postForMessage(ctx, "/forgot-password", api.ForgotPasswordRequest{Email: email})
}

func (c *APIClient) ResetPassword(ctx context.Context, token, password string) (string, error) {
	return c.postForMessage(ctx, "/reset-password", api.ResetPasswordRequest{Token: token, Password: password})
}

func (c *APIClient) postForMessage(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", responseError(resp)
	}

	var msg api.MessageResponse
	if err := decode(resp, &msg); err != nil {
		return "", err
	}
	return msg.Message, nil
}
