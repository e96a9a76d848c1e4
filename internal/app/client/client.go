package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"finmap/internal/app/client/config"
	"finmap/internal/domain/mapping"
	"finmap/internal/domain/pinelabs"
)

type App struct {
	config        *config.Config
	log           *slog.Logger
	httpClient    *httpClient
	storage       Storage
	state         *AppState
	authenticated bool
	mu            gosync.RWMutex
}

// AppState is persisted between invocations in the config directory.
type AppState struct {
	UserLogin     string    `json:"user_login"`
	LastRefresh   time.Time `json:"last_refresh"`
	MappingsCount int       `json:"mappings_count"`
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	state, err := loadAppState(cfg)
	if err != nil {
		log.Warn("failed to load app state", "error", err)
		state = &AppState{}
	}

	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init http client: %w", err)
	}

	var storage Storage
	sqliteStorage, err := NewSQLiteStorage(cfg.CachePath)
	if err != nil {
		log.Warn("failed to init sqlite cache, falling back to memory", "error", err)
		storage = NewMemoryStorage()
	} else {
		storage = sqliteStorage
	}

	app := &App{
		config:     cfg,
		log:        log,
		httpClient: httpCl,
		storage:    storage,
		state:      state,
	}

	if token, err := app.GetToken(); err == nil && token != "" {
		httpCl.SetToken(token)
		app.mu.Lock()
		app.authenticated = true
		app.mu.Unlock()
		log.Debug("token loaded from file")
	}

	return app, nil
}

func loadAppState(cfg *config.Config) (*AppState, error) {
	statePath := cfg.ConfigDir + "/state.json"

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return &AppState{}, nil
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, err
	}

	var state AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

func (a *App) saveAppState() error {
	statePath := a.config.ConfigDir + "/state.json"
	data, err := json.MarshalIndent(a.state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(statePath, data, 0600)
}

// CheckConnection pings the server health endpoint.
func (a *App) CheckConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.httpClient.HealthCheck(ctx)
}

func (a *App) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.authenticated {
		token, err := a.GetToken()
		if err == nil && token != "" {
			a.authenticated = true
		}
	}

	return a.authenticated
}

func (a *App) GetToken() (string, error) {
	tokenBytes, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("token not found, run: finmap auth login")
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(tokenBytes), nil
}

func (a *App) SaveToken(token string) error {
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	a.httpClient.SetToken(token)

	return nil
}

func (a *App) ClearToken() error {
	a.mu.Lock()
	a.authenticated = false
	a.state.UserLogin = ""

	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		a.mu.Unlock()
		return fmt.Errorf("remove token: %w", err)
	}

	if err := a.saveAppState(); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("save state: %w", err)
	}
	a.mu.Unlock()

	return nil
}

func (a *App) Register(ctx context.Context, login, password string) error {
	if err := a.httpClient.Register(ctx, login, password); err != nil {
		return err
	}

	a.log.Info("user registered", "login", login)
	return nil
}

func (a *App) Login(ctx context.Context, login, password string) (string, error) {
	token, err := a.httpClient.Login(ctx, login, password)
	if err != nil {
		return "", err
	}

	if err = a.SaveToken(token); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.state.UserLogin = login

	if err = a.saveAppState(); err != nil {
		a.log.Warn("failed to save state", "error", err)
	}
	a.mu.Unlock()

	a.log.Info("logged in", "login", login)
	return token, nil
}

func (a *App) Logout(ctx context.Context) error {
	if a.IsAuthenticated() {
		if err := a.httpClient.Logout(ctx); err != nil {
			a.log.Warn("failed to revoke session on server", "error", err)
		}
	}
	return a.ClearToken()
}

// Refresh pulls the server's mappings and detail rows into the local
// cache.
func (a *App) Refresh(ctx context.Context) error {
	if !a.IsAuthenticated() {
		return fmt.Errorf("authentication required, run: finmap auth login")
	}

	mappings, err := a.httpClient.ListMappings(ctx, false)
	if err != nil {
		return fmt.Errorf("fetch mappings: %w", err)
	}

	if err := a.storage.ReplaceMappings(mappings.Mappings); err != nil {
		return fmt.Errorf("cache mappings: %w", err)
	}

	details, err := a.httpClient.ListDetails(ctx)
	if err != nil {
		return fmt.Errorf("fetch details: %w", err)
	}

	if err := a.storage.ReplaceDetails(details.Details); err != nil {
		return fmt.Errorf("cache details: %w", err)
	}

	a.mu.Lock()
	a.state.LastRefresh = time.Now()
	a.state.MappingsCount = mappings.Total
	if err := a.saveAppState(); err != nil {
		a.log.Warn("failed to save state", "error", err)
	}
	a.mu.Unlock()

	a.log.Debug("cache refreshed",
		"mappings", mappings.Total, "details", details.Total)
	return nil
}

// ListMappings serves from the server when reachable, refreshing the
// cache on the way; otherwise it falls back to the cache.
func (a *App) ListMappings(ctx context.Context) ([]mapping.Item, error) {
	if a.IsAuthenticated() {
		if err := a.Refresh(ctx); err != nil {
			a.log.Warn("refresh failed, serving cached data", "error", err)
		}
	}

	return a.storage.ListMappings()
}

func (a *App) SearchMappings(ctx context.Context, term, brand string, limit, offset int) ([]mapping.Mapping, error) {
	if !a.IsAuthenticated() {
		return nil, fmt.Errorf("authentication required, run: finmap auth login")
	}
	return a.httpClient.SearchMappings(ctx, term, brand, limit, offset)
}

func (a *App) CreateMapping(ctx context.Context, m mapping.Mapping) (int, error) {
	if !a.IsAuthenticated() {
		return 0, fmt.Errorf("authentication required, run: finmap auth login")
	}

	id, err := a.httpClient.CreateMapping(ctx, m)
	if err != nil {
		return 0, err
	}

	if err := a.Refresh(ctx); err != nil {
		a.log.Warn("cache refresh after create failed", "error", err)
	}
	return id, nil
}

func (a *App) GetMapping(ctx context.Context, id int) (*mapping.Mapping, error) {
	if a.IsAuthenticated() {
		m, err := a.httpClient.GetMapping(ctx, id)
		if err == nil {
			return m, nil
		}
		a.log.Warn("server fetch failed, trying cache", "mapping_id", id, "error", err)
	}

	cached, err := a.storage.GetMapping(id)
	if err != nil {
		return nil, err
	}
	return &mapping.Mapping{
		ID:        cached.ID,
		StoreName: cached.StoreName,
		Brand:     cached.Brand,
		Financier: cached.Financier,
		StoreCode: cached.StoreCode,
		MID:       cached.MID,
		Requester: cached.Requester,
	}, nil
}

func (a *App) UpdateMapping(ctx context.Context, m mapping.Mapping) error {
	if !a.IsAuthenticated() {
		return fmt.Errorf("authentication required, run: finmap auth login")
	}

	if err := a.httpClient.UpdateMapping(ctx, m); err != nil {
		return err
	}

	if err := a.Refresh(ctx); err != nil {
		a.log.Warn("cache refresh after update failed", "error", err)
	}
	return nil
}

func (a *App) DeleteMapping(ctx context.Context, id int) error {
	if !a.IsAuthenticated() {
		return fmt.Errorf("authentication required, run: finmap auth login")
	}

	if err := a.httpClient.DeleteMapping(ctx, id); err != nil {
		return err
	}

	if err := a.Refresh(ctx); err != nil {
		a.log.Warn("cache refresh after delete failed", "error", err)
	}
	return nil
}

// ListDetails serves detail rows from the cache, refreshing first when
// the server is reachable.
func (a *App) ListDetails(ctx context.Context, mappingID int, term string) ([]pinelabs.Row, error) {
	if a.IsAuthenticated() {
		if err := a.Refresh(ctx); err != nil {
			a.log.Warn("refresh failed, serving cached data", "error", err)
		}
	}

	return a.storage.ListDetails(mappingID, term)
}

// SetDetails replaces the full detail set of one mapping on the server.
func (a *App) SetDetails(ctx context.Context, mappingID int, entries []pinelabs.Entry) (*pinelabs.ReconcileResult, error) {
	if !a.IsAuthenticated() {
		return nil, fmt.Errorf("authentication required, run: finmap auth login")
	}

	result, err := a.httpClient.ReconcileDetails(ctx, mappingID, entries)
	if err != nil {
		return nil, err
	}

	if err := a.Refresh(ctx); err != nil {
		a.log.Warn("cache refresh after reconcile failed", "error", err)
	}
	return result, nil
}

func (a *App) DeleteDetail(ctx context.Context, id int) error {
	if !a.IsAuthenticated() {
		return fmt.Errorf("authentication required, run: finmap auth login")
	}

	if err := a.httpClient.DeleteDetail(ctx, id); err != nil {
		return err
	}

	if err := a.Refresh(ctx); err != nil {
		a.log.Warn("cache refresh after delete failed", "error", err)
	}
	return nil
}

// ExportCSV downloads the CSV export to the given path, or returns the
// bytes when path is empty.
func (a *App) ExportCSV(ctx context.Context, path string) ([]byte, error) {
	if !a.IsAuthenticated() {
		return nil, fmt.Errorf("authentication required, run: finmap auth login")
	}

	data, err := a.httpClient.ExportCSV(ctx)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write export file: %w", err)
		}
	}
	return data, nil
}

func (a *App) Close() {
	if err := a.storage.Close(); err != nil {
		a.log.Warn("failed to close cache", "error", err)
	}
}
