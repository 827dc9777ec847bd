package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/tightlines/internal/models"
)

// APIClient is a typed client for the Tightlines HTTP API
type APIClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	logger  *logrus.Logger
}

// NewAPIClient creates a client for the API rooted at baseURL
func NewAPIClient(baseURL string, cfg HTTPClientConfig, logger *logrus.Logger) (*APIClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &APIClient{
		http:    NewRateLimitedHTTPClient(cfg, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// ListCompetitions lists published competitions, optionally filtered by status
func (c *APIClient) ListCompetitions(ctx context.Context, status string) (*models.CompetitionList, error) {
	var out models.CompetitionList
	if err := c.getJSON(ctx, competitionsPath(status), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCompetition fetches one competition with its current status
func (c *APIClient) GetCompetition(ctx context.Context, id uuid.UUID) (*models.CompetitionView, error) {
	var out models.CompetitionView
	if err := c.getJSON(ctx, competitionPath(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLeaderboard fetches a competition's ranked leaderboard
func (c *APIClient) GetLeaderboard(ctx context.Context, id uuid.UUID) (*models.Leaderboard, error) {
	var out models.Leaderboard
	if err := c.getJSON(ctx, competitionPath(id)+"/leaderboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTeams fetches team standings
func (c *APIClient) GetTeams(ctx context.Context, id uuid.UUID) (*models.TeamList, error) {
	var out models.TeamList
	if err := c.getJSON(ctx, competitionPath(id)+"/teams", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchAnglers searches the angler directory by name
func (c *APIClient) SearchAnglers(ctx context.Context, query string) (*models.AnglerList, error) {
	path := "/api/v1/anglers"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var out models.AnglerList
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConvertWeight asks the API to read a weight in any accepted form
func (c *APIClient) ConvertWeight(ctx context.Context, value string) (*models.WeightConversion, error) {
	var out models.WeightConversion
	if err := c.getJSON(ctx, "/api/v1/weights/format?value="+url.QueryEscape(value), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordWeighIn submits a weigh-in and returns the updated leaderboard
func (c *APIClient) RecordWeighIn(ctx context.Context, competitionID uuid.UUID, req models.WeighInRequest) (*models.Leaderboard, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+competitionPath(competitionID)+"/weigh-ins", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("weigh-in request failed: %w", err)
	}
	defer resp.Body.Close()

	var out models.Leaderboard
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"competition_id": competitionID,
		"peg":            req.Peg,
	}).Debug("Weigh-in submitted")
	return &out, nil
}

// Close closes the underlying HTTP client
func (c *APIClient) Close() error {
	return c.http.Close()
}

func (c *APIClient) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.http.Get(ctx, c.baseURL+path)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func competitionsPath(status string) string {
	if status == "" {
		return "/api/v1/competitions"
	}
	return "/api/v1/competitions?status=" + url.QueryEscape(status)
}

func competitionPath(id uuid.UUID) string {
	return "/api/v1/competitions/" + id.String()
}
