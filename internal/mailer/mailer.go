// Package mailer delivers notification email through the transactional
// email HTTP API. Sends happen strictly after the state change they describe
// has committed; a failed send is logged and never propagated back into the
// lifecycle.
package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Sender is what the lifecycle service depends on. Implemented by Client and
// by the test mock.
type Sender interface {
	Send(to, subject, html string) error
}

type Client struct {
	APIURL  string
	APIKey  string
	From    string
	Enabled bool

	httpClient *http.Client
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// NewClient reads the email API settings from the environment. When any of
// them is missing the client is disabled and sends become logged no-ops,
// which keeps local development working without an API key.
func NewClient() *Client {
	apiURL := os.Getenv("EMAIL_API_URL")
	apiKey := os.Getenv("EMAIL_API_KEY")
	from := os.Getenv("EMAIL_FROM")

	enabled := apiURL != "" && apiKey != "" && from != ""
	if !enabled {
		log.Println("WARNING: Mailer disabled: missing EMAIL_API_URL, EMAIL_API_KEY or EMAIL_FROM")
	}

	return &Client{
		APIURL:     apiURL,
		APIKey:     apiKey,
		From:       from,
		Enabled:    enabled,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send posts one message to the email API. Callers treat the returned error
// as log-only; the system of record has already committed.
func (c *Client) Send(to, subject, html string) error {
	if !c.Enabled {
		log.Printf("INFO: Mailer disabled, skipping email to %s: %s", to, subject)
		return nil
	}

	body, err := json.Marshal(sendRequest{
		From:    c.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.APIURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil && parsed.ID != "" {
		log.Printf("INFO: Email sent to %s (id %s): %s", to, parsed.ID, subject)
	} else {
		log.Printf("INFO: Email sent to %s: %s", to, subject)
	}
	return nil
}
