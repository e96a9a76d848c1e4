package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/exp/slog"

	"finmap/internal/app/client/config"
	"finmap/internal/domain/mapping"
	"finmap/internal/domain/pinelabs"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}
	baseURL := scheme + cfg.ServerAddress

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   baseURL,
		userAgent: "Finmap-Client/1.0",
	}, nil
}

func (h *httpClient) SetToken(token string) {
	h.token = token
}

func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	return nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("sending request",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	h.log.Debug("received response",
		"status", resp.StatusCode,
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Error != "" {
				return fmt.Errorf("server error: %s", errResp.Error)
			}
			if errResp.Detail != "" {
				return fmt.Errorf("server error: %s", errResp.Detail)
			}
		}
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}

func (h *httpClient) Register(ctx context.Context, login, password string) error {
	req := map[string]string{
		"login":    login,
		"password": password,
	}

	resp, err := h.doRequest(ctx, "POST", "/user/register", req)
	if err != nil {
		return err
	}

	var registerResp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &registerResp); err != nil {
		return err
	}
	if registerResp.Status == "Error" {
		return fmt.Errorf("registration failed: %s", registerResp.Error)
	}
	return nil
}

func (h *httpClient) Login(ctx context.Context, login, password string) (string, error) {
	req := map[string]string{
		"login":    login,
		"password": password,
	}

	resp, err := h.doRequest(ctx, "POST", "/user/login", req)
	if err != nil {
		return "", err
	}

	var loginResp struct {
		Token  string `json:"token"`
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", err
	}
	if loginResp.Status == "Error" || loginResp.Token == "" {
		return "", fmt.Errorf("login failed: %s", loginResp.Error)
	}

	h.token = loginResp.Token
	return loginResp.Token, nil
}

func (h *httpClient) Logout(ctx context.Context) error {
	resp, err := h.doRequest(ctx, "POST", "/user/logout", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) ListMappings(ctx context.Context, all bool) (mapping.ListResponse, error) {
	path := "/api/mappings"
	if all {
		path += "?all=true"
	}

	resp, err := h.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return mapping.ListResponse{}, err
	}

	var listResp mapping.ListResponse
	if err := h.parseResponse(resp, &listResp); err != nil {
		return mapping.ListResponse{}, err
	}
	return listResp, nil
}

func (h *httpClient) SearchMappings(ctx context.Context, term, brand string, limit, offset int) ([]mapping.Mapping, error) {
	q := url.Values{}
	if term != "" {
		q.Set("term", term)
	}
	if brand != "" {
		q.Set("brand", brand)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/mappings/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := h.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var searchResp struct {
		Mappings []mapping.Mapping `json:"mappings"`
		Total    int               `json:"total"`
	}
	if err := h.parseResponse(resp, &searchResp); err != nil {
		return nil, err
	}
	return searchResp.Mappings, nil
}

func (h *httpClient) CreateMapping(ctx context.Context, m mapping.Mapping) (int, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/mappings", m)
	if err != nil {
		return 0, err
	}

	var createResp struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	if err := h.parseResponse(resp, &createResp); err != nil {
		return 0, err
	}
	return createResp.ID, nil
}

func (h *httpClient) GetMapping(ctx context.Context, id int) (*mapping.Mapping, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/mappings/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var m mapping.Mapping
	if err := h.parseResponse(resp, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (h *httpClient) UpdateMapping(ctx context.Context, m mapping.Mapping) error {
	resp, err := h.doRequest(ctx, "PUT", "/api/mappings/"+strconv.Itoa(m.ID), m)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) DeleteMapping(ctx context.Context, id int) error {
	resp, err := h.doRequest(ctx, "DELETE", "/api/mappings/"+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpClient) ListDetails(ctx context.Context) (pinelabs.ListResponse, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/pinelabs", nil)
	if err != nil {
		return pinelabs.ListResponse{}, err
	}

	var listResp pinelabs.ListResponse
	if err := h.parseResponse(resp, &listResp); err != nil {
		return pinelabs.ListResponse{}, err
	}
	return listResp, nil
}

// ReconcileDetails sends the full desired detail set for one mapping.
func (h *httpClient) ReconcileDetails(ctx context.Context, mappingID int, entries []pinelabs.Entry) (*pinelabs.ReconcileResult, error) {
	req := struct {
		Details []pinelabs.Entry `json:"details"`
	}{Details: entries}

	resp, err := h.doRequest(ctx, "PUT",
		fmt.Sprintf("/api/mappings/%d/pinelabs", mappingID), req)
	if err != nil {
		return nil, err
	}

	var reconcileResp struct {
		Status string                   `json:"status"`
		Result pinelabs.ReconcileResult `json:"result"`
	}
	if err := h.parseResponse(resp, &reconcileResp); err != nil {
		return nil, err
	}
	return &reconcileResp.Result, nil
}

func (h *httpClient) DeleteDetail(ctx context.Context, id int) error {
	resp, err := h.doRequest(ctx, "DELETE", "/api/pinelabs/"+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

// ExportCSV downloads the caller's detail rows as CSV.
func (h *httpClient) ExportCSV(ctx context.Context) ([]byte, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/export/pinelabs", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return data, nil
}
