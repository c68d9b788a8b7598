// Package remote stores unavailable dates behind the calendar REST API,
// either a blockout serve instance or the original booking backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/logger"
	"github.com/julianstephens/blockout/internal/models"
	"github.com/julianstephens/blockout/internal/storage"
)

type Store struct {
	base   *url.URL
	raw    string
	client *http.Client
}

// New returns a store for the API rooted at baseURL, for example
// http://127.0.0.1:8000/calender_api. A nil client uses a default with
// constants.RemoteTimeout.
func New(baseURL string, client *http.Client) *Store {
	if client == nil {
		client = &http.Client{Timeout: constants.RemoteTimeout}
	}
	return &Store{raw: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *Store) Init() error {
	return s.Load()
}

func (s *Store) Load() error {
	if s.base != nil {
		return nil
	}
	u, err := url.Parse(s.raw)
	if err != nil {
		return fmt.Errorf("invalid remote URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid remote URL %q: scheme must be http or https", s.raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid remote URL %q: missing host", s.raw)
	}
	s.base = u
	return nil
}

func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.raw
}

func (s *Store) datesURL(productID string) string {
	return s.base.JoinPath("products", productID, "unavailable-dates").String() + "/"
}

func (s *Store) FetchUnavailableDates(ctx context.Context, productID string) ([]models.Day, error) {
	if s.base == nil {
		return nil, fmt.Errorf("remote store not loaded")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.datesURL(productID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var body []models.UnavailableDate
	if err := s.do(req, &body); err != nil {
		return nil, err
	}

	days := make([]models.Day, len(body))
	for i, item := range body {
		days[i] = item.Date
	}
	return days, nil
}

func (s *Store) PersistUnavailableDates(ctx context.Context, productID string, dates []models.Day, reason string) error {
	if s.base == nil {
		return fmt.Errorf("remote store not loaded")
	}

	payload := models.PersistRequest{Dates: dates, Reason: reason}
	if payload.Dates == nil {
		payload.Dates = []models.Day{}
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.datesURL(productID), bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, nil)
}

func (s *Store) GetChangeLog(context.Context, string, int) ([]models.ChangeEntry, error) {
	return nil, storage.ErrNotSupported
}

// do sends req and decodes a JSON body into out when out is non-nil.
func (s *Store) do(req *http.Request, out any) error {
	logger.Debug("Remote request", "method", req.Method, "url", req.URL.String())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
