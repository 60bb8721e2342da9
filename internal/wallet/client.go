package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/playarena/backend/internal/config"
)

// ReserveRequest asks the wallet service to lock the stake from both
// players before a session is created.
type ReserveRequest struct {
	MatchID    string `json:"matchId"`
	Player1ID  string `json:"player1Id"`
	Player2ID  string `json:"player2Id"`
	BetAmount  int    `json:"betAmount"`
	Currency   string `json:"currency"`
	WalletMode string `json:"walletMode"`
}

// PayoutRequest settles a finished match. Fire-and-forget from the game's
// perspective; the caller never blocks on the outcome.
type PayoutRequest struct {
	MatchID   string `json:"matchId"`
	GameType  string `json:"gameType"`
	Player1ID string `json:"player1Id"`
	Player2ID string `json:"player2Id"`
	WinnerID  string `json:"winnerId,omitempty"`
	BetAmount int    `json:"betAmount"`
	Currency  string `json:"currency"`
	IsDraw    bool   `json:"isDraw"`
}

// Client talks to the external wallet service. The wallet owns all ledger
// accounting; this client only sees success or failure.
type Client struct {
	baseURL    string
	serviceID  string
	jwtSecret  []byte
	currency   string
	httpClient *http.Client
}

// NewClient creates a wallet client from config.
func NewClient(cfg *config.Config) *Client {
	if cfg == nil || cfg.WalletBaseURL == "" {
		log.Printf("[WALLET] Wallet service not configured - skipping initialization")
		return nil
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.WalletBaseURL, "/"),
		serviceID:  cfg.WalletServiceID,
		jwtSecret:  []byte(cfg.WalletJWTSecret),
		currency:   cfg.WalletCurrency,
		httpClient: &http.Client{Timeout: time.Duration(cfg.WalletTimeoutSeconds) * time.Second},
	}
}

// Currency returns the configured settlement currency.
func (c *Client) Currency() string {
	return c.currency
}

// serviceToken signs a short-lived HS256 token identifying this service
// to the wallet boundary.
func (c *Client) serviceToken() (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    c.serviceID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.jwtSecret)
}

// post sends a JSON body with a signed bearer token and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := c.serviceToken()
	if err != nil {
		return fmt.Errorf("failed to sign service token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wallet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("wallet returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode wallet response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("wallet rejected request: %s", result.Error)
	}

	return nil
}

// ReserveStake locks the stake from both players. Called synchronously
// during session initialization; an error here must abort the session.
func (c *Client) ReserveStake(ctx context.Context, req ReserveRequest) error {
	if req.Currency == "" {
		req.Currency = c.currency
	}
	if err := c.post(ctx, "/api/match/create", req); err != nil {
		return err
	}
	log.Printf("[WALLET] Stake reserved: match=%s amount=%d mode=%s", req.MatchID, req.BetAmount, req.WalletMode)
	return nil
}

// Payout disburses the pooled stake to the winner, or returns it to both
// players on a draw.
func (c *Client) Payout(ctx context.Context, req PayoutRequest) error {
	if req.Currency == "" {
		req.Currency = c.currency
	}
	if err := c.post(ctx, "/api/payout", req); err != nil {
		return err
	}
	log.Printf("[WALLET] Payout processed: match=%s winner=%s draw=%v", req.MatchID, req.WinnerID, req.IsDraw)
	return nil
}
