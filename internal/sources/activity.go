package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

const (
	ActivityTTL    = models.TTL(300 * time.Second)
	ParamHandle    = "handle"
	activitySource = "github"
)

// Ensure ActivitySource implements interfaces.Source
var _ interfaces.Source = (*ActivitySource)(nil)

// ActivitySource fetches public events of a GitHub account
type ActivitySource struct {
	client  *UpstreamClient
	baseURL string
	token   string
}

// NewActivitySource creates the activity adapter. token may be empty.
func NewActivitySource(cfg *config.Config, client *UpstreamClient, token string) *ActivitySource {
	return &ActivitySource{
		client:  client,
		baseURL: strings.TrimRight(cfg.Sources.Activity.BaseURL, "/"),
		token:   token,
	}
}

func (s *ActivitySource) Kind() models.WidgetKind {
	return models.WidgetKindActivity
}

func (s *ActivitySource) TTL() models.TTL {
	return ActivityTTL
}

func (s *ActivitySource) RequiredParams() []string {
	return []string{ParamHandle}
}

// Normalize validates the handle and lowercases it
func (s *ActivitySource) Normalize(params models.Params) (models.Params, error) {
	handle, err := requireParam(params, ParamHandle)
	if err != nil {
		return nil, err
	}
	if err := checkParam(ParamHandle, handle, "max=39,github_handle"); err != nil {
		return nil, err
	}
	return models.Params{{Name: ParamHandle, Value: strings.ToLower(handle)}}, nil
}

type githubEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	CreatedAt string `json:"created_at"`
}

// Fetch retrieves the public event feed for the handle
func (s *ActivitySource) Fetch(ctx context.Context, params models.Params) (models.Record, error) {
	handle, _ := params.Get(ParamHandle)
	endpoint := fmt.Sprintf("%s/users/%s/events/public", s.baseURL, url.PathEscape(handle))

	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if s.token != "" {
		headers["Authorization"] = "token " + s.token
	}

	var events []githubEvent
	if err := s.client.GetJSON(ctx, activitySource, endpoint, headers, &events); err != nil {
		return nil, err
	}

	feed := make(models.ActivityFeed, 0, len(events))
	for _, e := range events {
		feed = append(feed, models.ActivityEvent{
			ID:        e.ID,
			Type:      e.Type,
			Repo:      e.Repo.Name,
			CreatedAt: e.CreatedAt,
		})
	}
	return feed, nil
}

func (s *ActivitySource) Decode(data []byte) (models.Record, error) {
	var feed models.ActivityFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}
