// Package forms validates contact-form submissions and forwards them to a
// hosted forms endpoint.
package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneStrip   = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// ErrNotConfigured is returned by Submit when no endpoint is set.
var ErrNotConfigured = errors.New("forms: endpoint not configured")

// Submission is one contact-form entry.
type Submission struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

// Errors maps a field name to its validation message.
type Errors map[string]string

// Error implements error so a failed validation can be returned as one.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range []string{"name", "email", "phone", "message"} {
		if msg, ok := e[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Trim removes surrounding whitespace from every field.
func (s *Submission) Trim() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate checks the submission and returns nil when it is acceptable.
func (s Submission) Validate() Errors {
	errs := Errors{}
	if utf8.RuneCountInString(strings.TrimSpace(s.Name)) < 2 {
		errs["name"] = "Name must be at least 2 characters."
	}
	if !emailPattern.MatchString(strings.TrimSpace(s.Email)) {
		errs["email"] = "Please enter a valid email address."
	}
	if phone := strings.TrimSpace(s.Phone); phone != "" && !ValidPhone(phone) {
		errs["phone"] = "Phone number must have 7 to 15 digits."
	}
	if utf8.RuneCountInString(strings.TrimSpace(s.Message)) < 10 {
		errs["message"] = "Message must be at least 10 characters."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidPhone reports whether phone holds 7 to 15 digits once separators and
// a leading plus sign are removed.
func ValidPhone(phone string) bool {
	digits := strings.TrimPrefix(phoneStrip.Replace(strings.TrimSpace(phone)), "+")
	if len(digits) < 7 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Config configures a Client.
type Config struct {
	Endpoint   string // full URL of the hosted form
	PageName   string // reported alongside every submission
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client posts submissions to the forms endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.PageName == "" {
		cfg.PageName = "Contact"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{cfg: cfg, http: cfg.HTTPClient, log: cfg.Logger.With("component", "forms")}
}

type field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type pageContext struct {
	PageURI  string `json:"pageUri"`
	PageName string `json:"pageName"`
}

type payload struct {
	Fields  []field     `json:"fields"`
	Context pageContext `json:"context"`
}

func (c *Client) payload(s Submission, pageURI string) payload {
	fields := []field{
		{Name: "firstname", Value: s.Name},
		{Name: "email", Value: s.Email},
	}
	if s.Phone != "" {
		fields = append(fields, field{Name: "phone", Value: s.Phone})
	}
	fields = append(fields, field{Name: "message", Value: s.Message})
	return payload{
		Fields:  fields,
		Context: pageContext{PageURI: pageURI, PageName: c.cfg.PageName},
	}
}

// Submit validates s and posts it. Submissions are never retried.
func (c *Client) Submit(ctx context.Context, s Submission, pageURI string) error {
	if c == nil || c.cfg.Endpoint == "" {
		return ErrNotConfigured
	}
	s.Trim()
	if errs := s.Validate(); errs != nil {
		return errs
	}

	blob, err := json.Marshal(c.payload(s, pageURI))
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(blob))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("form submission failed", "duration", time.Since(start), "error", err)
		return fmt.Errorf("failed to submit form: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("form submission rejected", "status", resp.StatusCode, "duration", time.Since(start))
		return fmt.Errorf("forms endpoint returned %s", resp.Status)
	}
	c.log.Info("form submitted", "duration", time.Since(start))
	return nil
}
