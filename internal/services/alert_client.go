package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clinic-voice/backend/internal/events"
	"go.uber.org/zap"
)

// Alert is the JSON body posted to the alert webhook. Text makes it usable
// as a Slack-compatible incoming webhook message.
type Alert struct {
	Text         string `json:"text"`
	Endpoint     string `json:"endpoint"`
	StatusCode   int    `json:"status_code"`
	Category     string `json:"category,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
}

// AlertClient posts alerts to an incoming webhook.
type AlertClient struct {
	url        string
	httpClient *http.Client
}

func NewAlertClient(url string) *AlertClient {
	return &AlertClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *AlertClient) Send(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alert webhook unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("alert webhook returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// AlertForwarder turns failed-invocation events into alerts.
type AlertForwarder struct {
	client    *AlertClient
	minStatus int
	log       *zap.Logger
}

func NewAlertForwarder(client *AlertClient, minStatus int, log *zap.Logger) *AlertForwarder {
	return &AlertForwarder{client: client, minStatus: minStatus, log: log}
}

// Forward sends an alert for invocation events at or above the minimum
// status. It reports whether an alert was sent.
func (f *AlertForwarder) Forward(ctx context.Context, event events.Event) bool {
	if event.Type != events.EventInvocationLogged {
		return false
	}
	status := event.StatusCode()
	if status < f.minStatus {
		return false
	}

	alert := Alert{StatusCode: status}
	alert.Endpoint, _ = event.Payload["endpoint"].(string)
	alert.Category, _ = event.Payload["category"].(string)
	alert.ErrorMessage, _ = event.Payload["error_message"].(string)
	alert.Timestamp, _ = event.Payload["timestamp"].(string)

	alert.Text = fmt.Sprintf("%s returned %d", alert.Endpoint, status)
	if alert.ErrorMessage != "" {
		alert.Text += ": " + alert.ErrorMessage
	}

	if err := f.client.Send(ctx, alert); err != nil {
		f.log.Warn("failed to forward alert", zap.String("endpoint", alert.Endpoint), zap.Error(err))
		return false
	}
	f.log.Info("alert forwarded", zap.String("endpoint", alert.Endpoint), zap.Int("status", status))
	return true
}
