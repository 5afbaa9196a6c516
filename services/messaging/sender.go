package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender delivers a text message to a conversation.
type Sender interface {
	SendText(ctx context.Context, to, text string) error
}

type outboundMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// GatewaySender posts messages to the messaging gateway's HTTP API.
type GatewaySender struct {
	endpoint string
	token    string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewGatewaySender sends through baseURL, allowing at most ratePerSec
// messages per second. A non-positive rate disables the limit.
func NewGatewaySender(baseURL, token string, ratePerSec float64, client *http.Client) *GatewaySender {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	burst := 1
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
		burst = int(ratePerSec)
		if burst < 1 {
			burst = 1
		}
	}
	return &GatewaySender{
		endpoint: strings.TrimRight(baseURL, "/") + "/messages",
		token:    token,
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

func (g *GatewaySender) SendText(ctx context.Context, to, text string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("gateway rate limit: %w", err)
	}

	body, err := json.Marshal(outboundMessage{To: to, Text: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// LogSender only logs outgoing messages. Used when no gateway is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger.With(zap.String("component", "messaging.log_sender"))}
}

func (l *LogSender) SendText(_ context.Context, to, text string) error {
	l.logger.Info("outbound message", zap.String("to", to), zap.String("text", text))
	return nil
}
