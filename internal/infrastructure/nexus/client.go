// internal/infrastructure/nexus/client.go
package nexus

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/models"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/repositories"
)

const restBasePath = "/service/rest/v1"

// Config holds the connection settings for a Nexus Repository Manager.
// Token takes precedence over username/password when both are set.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Token    string
	Timeout  time.Duration
}

// Client talks to the Nexus Repository Manager REST API.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ repositories.ArtifactCatalog = (*Client)(nil)

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("nexus server URL cannot be empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid nexus server URL %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	var authHeader string
	switch {
	case cfg.Token != "":
		authHeader = "Bearer " + cfg.Token
	case cfg.Username != "":
		credentials := cfg.Username + ":" + cfg.Password
		authHeader = "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: authHeader,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// repositoryXO mirrors the repository listing payload of the REST API.
type repositoryXO struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Type   string `json:"type"`
}

// componentPageXO mirrors one page of the component listing payload.
type componentPageXO struct {
	Items             []componentXO `json:"items"`
	ContinuationToken string        `json:"continuationToken"`
}

type componentXO struct {
	ID         string    `json:"id"`
	Repository string    `json:"repository"`
	Format     string    `json:"format"`
	Group      string    `json:"group"`
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Assets     []assetXO `json:"assets"`
}

type assetXO struct {
	ID             string     `json:"id"`
	Path           string     `json:"path"`
	BlobCreated    *time.Time `json:"blobCreated"`
	LastDownloaded *time.Time `json:"lastDownloaded"`
	FileSize       *int64     `json:"fileSize"`
}

func (c *Client) ListRepositories(ctx context.Context) ([]models.Repository, error) {
	var payload []repositoryXO
	if err := c.get(ctx, restBasePath+"/repositories", nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}

	repos := make([]models.Repository, 0, len(payload))
	for _, r := range payload {
		repos = append(repos, models.Repository{
			Name:   r.Name,
			Format: r.Format,
			Type:   strings.ToLower(r.Type),
		})
	}

	c.logger.Debug("Retrieved repositories", zap.Int("count", len(repos)))
	return repos, nil
}

func (c *Client) ListComponents(ctx context.Context, repository, continuationToken string) (models.ComponentPage, error) {
	query := url.Values{"repository": {repository}}
	if continuationToken != "" {
		query.Set("continuationToken", continuationToken)
	}

	var payload componentPageXO
	if err := c.get(ctx, restBasePath+"/components", query, &payload); err != nil {
		return models.ComponentPage{}, fmt.Errorf("failed to list components of %s: %w", repository, err)
	}

	page := models.ComponentPage{
		Items:             make([]models.Component, 0, len(payload.Items)),
		ContinuationToken: payload.ContinuationToken,
	}
	for _, item := range payload.Items {
		page.Items = append(page.Items, toComponent(item))
	}

	c.logger.Debug("Retrieved component page",
		zap.String("repository", repository),
		zap.Int("count", len(page.Items)),
		zap.Bool("hasMore", page.ContinuationToken != ""))
	return page, nil
}

func (c *Client) DeleteComponent(ctx context.Context, componentID string) error {
	endpoint := restBasePath + "/components/" + url.PathEscape(componentID)
	req, err := c.newRequest(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete component %s: %w", componentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete of component %s returned status %d", componentID, resp.StatusCode)
	}

	c.logger.Debug("Deleted component", zap.String("componentID", componentID))
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, query)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of GET %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values) (*http.Request, error) {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}
	return req, nil
}

func toComponent(item componentXO) models.Component {
	component := models.Component{
		ID:         item.ID,
		Repository: item.Repository,
		Format:     item.Format,
		Group:      item.Group,
		Name:       item.Name,
		Version:    item.Version,
		Assets:     make([]models.Asset, 0, len(item.Assets)),
	}
	for _, asset := range item.Assets {
		converted := models.Asset{
			ID:               asset.ID,
			Path:             asset.Path,
			LastDownloadedAt: asset.LastDownloaded,
		}
		if asset.BlobCreated != nil {
			converted.CreatedAt = *asset.BlobCreated
		}
		if asset.FileSize != nil {
			converted.SizeBytes = *asset.FileSize
		}
		component.Assets = append(component.Assets, converted)
	}
	return component
}
