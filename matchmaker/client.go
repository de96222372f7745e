package matchmaker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrRequestFailed   = errors.New("matchmaker request failed")
	ErrMissingMatchID  = errors.New("matchmaker response carries no match identifier")
	ErrUnexpectedReply = errors.New("matchmaker returned a non-success status")
)

// CreateMatchRequest carries what the matchmaker needs to provision a
// joinable game: the mode and both participants' display identities.
type CreateMatchRequest struct {
	Mode    string `json:"mode"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// Client talks to the external match-creation service. Calls are rate
// limited so a burst of round materializations cannot hammer the service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration, rps float64) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// idKeys are the field names under which known matchmaker versions return
// the created match identifier. The first present wins.
var idKeys = []string{"gameId", "game_id", "matchId", "match_id", "id"}

// CreateRemoteMatch provisions a game and returns its external identifier.
func (c *Client) CreateRemoteMatch(ctx context.Context, req CreateMatchRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrRequestFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/games", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUnexpectedReply, resp.StatusCode, payload)
	}

	var reply map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}

	id, ok := extractMatchID(reply)
	if !ok {
		return "", ErrMissingMatchID
	}
	return id, nil
}

// extractMatchID accepts the identifier under any of the known keys, as a
// string or a JSON number.
func extractMatchID(reply map[string]any) (string, bool) {
	for _, key := range idKeys {
		value, present := reply[key]
		if !present {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v, true
			}
		case float64:
			return strconv.FormatInt(int64(v), 10), true
		}
	}
	return "", false
}
