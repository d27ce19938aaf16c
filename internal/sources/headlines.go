package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/config"
	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

const (
	HeadlinesTTL    = models.TTL(900 * time.Second)
	ParamTopic      = "topic"
	headlinesSource = "newsapi"
)

// Topics is the fixed set of accepted headline topics
var Topics = []string{"business", "entertainment", "general", "health", "science", "sports", "technology"}

var topicTag = "oneof=" + strings.Join(Topics, " ")

// Ensure HeadlinesSource implements interfaces.Source
var _ interfaces.Source = (*HeadlinesSource)(nil)

// HeadlinesSource fetches recent articles for a topic from NewsAPI
type HeadlinesSource struct {
	client   *UpstreamClient
	baseURL  string
	pageSize int
	apiKey   string
}

// NewHeadlinesSource creates the headlines adapter. An empty apiKey makes
// every fetch fail with an internal error.
func NewHeadlinesSource(cfg *config.Config, client *UpstreamClient, apiKey string) *HeadlinesSource {
	return &HeadlinesSource{
		client:   client,
		baseURL:  strings.TrimRight(cfg.Sources.Headlines.BaseURL, "/"),
		pageSize: cfg.Sources.Headlines.PageSize,
		apiKey:   apiKey,
	}
}

func (s *HeadlinesSource) Kind() models.WidgetKind {
	return models.WidgetKindHeadlines
}

func (s *HeadlinesSource) TTL() models.TTL {
	return HeadlinesTTL
}

func (s *HeadlinesSource) RequiredParams() []string {
	return []string{ParamTopic}
}

// Normalize checks the topic against the fixed set
func (s *HeadlinesSource) Normalize(params models.Params) (models.Params, error) {
	topic, err := requireParam(params, ParamTopic)
	if err != nil {
		return nil, err
	}
	topic = strings.ToLower(topic)
	if err := checkParam(ParamTopic, topic, topicTag); err != nil {
		return nil, apperr.Validation("unknown topic: must be one of "+strings.Join(Topics, ", "), err)
	}
	return models.Params{{Name: ParamTopic, Value: topic}}, nil
}

type newsAPIResponse struct {
	Articles []struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		URL         string  `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string  `json:"publishedAt"`
		URLToImage  *string `json:"urlToImage"`
	} `json:"articles"`
}

// Fetch retrieves the newest articles for the topic
func (s *HeadlinesSource) Fetch(ctx context.Context, params models.Params) (models.Record, error) {
	if s.apiKey == "" {
		return nil, apperr.Internal("NewsAPI key not configured", nil)
	}

	topic, _ := params.Get(ParamTopic)
	query := url.Values{}
	query.Set("q", topic)
	query.Set("pageSize", strconv.Itoa(s.pageSize))
	query.Set("sortBy", "publishedAt")

	var resp newsAPIResponse
	headers := map[string]string{"X-Api-Key": s.apiKey}
	if err := s.client.GetJSON(ctx, headlinesSource, s.baseURL+"/v2/everything?"+query.Encode(), headers, &resp); err != nil {
		return nil, err
	}

	list := make(models.HeadlineList, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		list = append(list, models.Headline{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      source,
			PublishedAt: a.PublishedAt,
			ImageURL:    a.URLToImage,
		})
	}
	return list, nil
}

func (s *HeadlinesSource) Decode(data []byte) (models.Record, error) {
	var list models.HeadlineList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
