// Package geo - клиент справочника IBGE (штаты и муниципалитеты) для каскадных селектов.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chamaai_backend/internal/cache"
	"chamaai_backend/internal/logger"
	"chamaai_backend/pkg/apperrors"
)

const DefaultBaseURL = "https://servicodados.ibge.gov.br/api/v1/localidades"

type State struct {
	ID   int    `json:"id"`
	Code string `json:"sigla"`
	Name string `json:"nome"`
}

type City struct {
	ID   int    `json:"id"`
	Name string `json:"nome"`
}

type Client interface {
	States(ctx context.Context) ([]State, error)
	Cities(ctx context.Context, stateID int) ([]City, error)
}

type ibgeClient struct {
	baseURL  string
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewClient(baseURL string, timeout time.Duration, c cache.Cache, cacheTTL time.Duration) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return &ibgeClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (c *ibgeClient) States(ctx context.Context) ([]State, error) {
	var states []State
	if err := c.fetch(ctx, "estados", "/estados?orderBy=nome", &states); err != nil {
		return nil, err
	}
	return states, nil
}

func (c *ibgeClient) Cities(ctx context.Context, stateID int) ([]City, error) {
	if stateID <= 0 {
		return nil, apperrors.FieldError("id", "Must be a valid IBGE state id")
	}
	var cities []City
	path := "/estados/" + strconv.Itoa(stateID) + "/municipios?orderBy=nome"
	if err := c.fetch(ctx, "municipios:"+strconv.Itoa(stateID), path, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// fetch сначала смотрит в кэш. Ошибка кэша не мешает запросу к IBGE.
func (c *ibgeClient) fetch(ctx context.Context, key, path string, out interface{}) error {
	if raw, err := c.cache.Get(ctx, key); err == nil {
		if json.Unmarshal(raw, out) == nil {
			return nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.CtxWarn(ctx, "geo cache read failed", "key", key, "error", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperrors.ErrQuery(err, "geo", http.StatusBadGateway)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.ErrNetwork(err, "geo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.ErrQuery(fmt.Errorf("ibge %s: status %d", path, resp.StatusCode), "geo", http.StatusBadGateway)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return apperrors.ErrQuery(fmt.Errorf("decode ibge response: %w", err), "geo", http.StatusBadGateway)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.ErrQuery(fmt.Errorf("decode ibge response: %w", err), "geo", http.StatusBadGateway)
	}
	logger.CtxDebug(ctx, "ibge request", "path", path, "duration", time.Since(start))

	if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
		logger.CtxWarn(ctx, "geo cache write failed", "key", key, "error", err)
	}
	return nil
}
