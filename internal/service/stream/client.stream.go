package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connect-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Client talks to the chat/video provider. The core never depends on the
// provider succeeding: callers treat UpsertUser failures as log-and-continue.
type Client struct {
	apiKey    string
	apiSecret string
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
}

func NewClient(apiKey, apiSecret, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

// CreateToken mints the provider-side token the frontend uses for chat and
// calls. Not a session token; it only identifies the user to the provider.
func (c *Client) CreateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id required")
	}
	claims := jwt.MapClaims{"user_id": userID}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.apiSecret))
}

// serverToken authenticates this service to the provider API.
func (c *Client) serverToken() (string, error) {
	claims := jwt.MapClaims{"server": true}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.apiSecret))
}

// UpsertUser creates or updates the user's provider profile. Retries twice
// on timeout before giving up; the caller decides whether the error matters.
func (c *Client) UpsertUser(ctx context.Context, p domain.PublicProfile) error {
	const maxRetries = 2

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Info("provider upsert timeout, retrying",
				zap.String("user_id", p.ID),
				zap.Int("attempt", attempt))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = c.upsertOnce(ctx, p)
		if err == nil {
			c.logger.Info("provider user upserted", zap.String("user_id", p.ID))
			return nil
		}
		if !isTimeout(err) {
			return err
		}
	}
	return err
}

func (c *Client) upsertOnce(ctx context.Context, p domain.PublicProfile) error {
	body := map[string]interface{}{
		"users": map[string]interface{}{
			p.ID: map[string]interface{}{
				"id":    p.ID,
				"name":  p.FullName,
				"image": p.ProfilePicture,
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/users?api_key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	token, err := c.serverToken()
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("Stream-Auth-Type", "jwt")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("provider upsert failed: status %d", resp.StatusCode)
	}
	return nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
