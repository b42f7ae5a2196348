package constitute

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lefri/utils"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://www.constituteproject.org/service"

	constitutionsTTL = time.Hour
	htmlTTL          = 24 * time.Hour
	topicTTL         = time.Hour
	textSearchTTL    = 30 * time.Minute
)

// CommonTopics are probed by CountryTopics.
var CommonTopics = []string{
	"derechos fundamentales",
	"derechos humanos",
	"debido proceso",
	"igualdad",
	"libertad",
	"propiedad",
	"trabajo",
	"educación",
	"salud",
	"familia",
	"justicia",
	"procedimiento penal",
	"procedimiento civil",
}

type Constitution struct {
	ID          string `json:"id"`
	Country     string `json:"country"`
	CountryID   string `json:"country_id"`
	Title       string `json:"title"`
	TitleLong   string `json:"title_long"`
	Region      string `json:"region"`
	Language    string `json:"language"`
	YearEnacted string `json:"year_enacted"`
	InForce     bool   `json:"in_force"`
	WordLength  string `json:"word_length"`
}

// Section is a constitution section returned by text or topic search.
type Section struct {
	ConstitutionID string  `json:"constitution_id"`
	SectionID      string  `json:"section_id"`
	SectionName    string  `json:"section_name"`
	SectionText    string  `json:"section_text"`
	TopicName      string  `json:"topic_name,omitempty"`
	Relevance      float64 `json:"relevance_score,omitempty"`
}

// ConstitutionQuery filters the constitutions listing.
type ConstitutionQuery struct {
	Country  string
	Region   string
	Language string
	FromYear string
	ToYear   string
}

// Client talks to the Constitute Project API and caches its answers.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
}

func NewClient(baseURL string, cache Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
	}
}

// fetch returns the body at path?params, served from cache when possible.
func (c *Client) fetch(ctx context.Context, path string, params url.Values, ttl time.Duration) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	if b, ok := c.cache.Get(ctx, endpoint); ok {
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("constitute request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("constitute API error: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read constitute response: %w", err)
	}
	c.cache.Set(ctx, endpoint, body, ttl)
	return body, nil
}

func (c *Client) Constitutions(ctx context.Context, q ConstitutionQuery) ([]Constitution, error) {
	params := url.Values{}
	setIf(params, "country", q.Country)
	setIf(params, "region", q.Region)
	setIf(params, "lang", q.Language)
	setIf(params, "from_year", q.FromYear)
	setIf(params, "to_year", q.ToYear)

	body, err := c.fetch(ctx, "/constitutions", params, constitutionsTTL)
	if err != nil {
		return nil, err
	}
	var out []Constitution
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode constitutions: %w", err)
	}
	return out, nil
}

func (c *Client) ConstitutionHTML(ctx context.Context, constitutionID string) (string, error) {
	body, err := c.fetch(ctx, "/html", url.Values{"cons_id": {constitutionID}}, htmlTTL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) SearchTopic(ctx context.Context, topic, country, language string) ([]Section, error) {
	params := url.Values{"topic": {topic}}
	setIf(params, "country", country)
	setIf(params, "lang", language)

	body, err := c.fetch(ctx, "/constopicsearch", params, topicTTL)
	if err != nil {
		return nil, err
	}
	var out []Section
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode topic search: %w", err)
	}
	return out, nil
}

func (c *Client) TextSearch(ctx context.Context, query, country, language, constitutionID string) ([]Section, error) {
	params := url.Values{"query": {query}}
	setIf(params, "country", country)
	setIf(params, "lang", language)
	setIf(params, "cons_id", constitutionID)

	body, err := c.fetch(ctx, "/textsearch", params, textSearchTTL)
	if err != nil {
		return nil, err
	}
	var out []Section
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode text search: %w", err)
	}
	return out, nil
}

// RelevantSections returns up to limit sections matching query in the
// country's constitution. A country with no constitution yields none.
func (c *Client) RelevantSections(ctx context.Context, query, country, language string, limit int) ([]Section, error) {
	if language == "" {
		language = "es"
	}
	if limit <= 0 {
		limit = 5
	}

	constitutions, err := c.Constitutions(ctx, ConstitutionQuery{Country: country, Language: language})
	if err != nil {
		return nil, err
	}
	if len(constitutions) == 0 {
		return nil, nil
	}

	results, err := c.TextSearch(ctx, query, country, language, "")
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}

	sections := make([]Section, 0, len(results))
	for _, r := range results {
		if r.SectionName != "" && r.SectionText != "" {
			sections = append(sections, r)
		}
	}
	return sections, nil
}

// FormatArticle renders a section the way prompts quote it.
func FormatArticle(s Section) string {
	return fmt.Sprintf("Artículo: %s\n%s", s.SectionName, s.SectionText)
}

// RelevantArticles is RelevantSections rendered for prompts.
func (c *Client) RelevantArticles(ctx context.Context, query, country, language string, limit int) ([]string, error) {
	sections, err := c.RelevantSections(ctx, query, country, language, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = FormatArticle(s)
	}
	return out, nil
}

// CountryTopics lists the CommonTopics that have at least one section in
// the country's constitution.
func (c *Client) CountryTopics(ctx context.Context, country, language string) ([]string, error) {
	if language == "" {
		language = "es"
	}
	constitutions, err := c.Constitutions(ctx, ConstitutionQuery{Country: country, Language: language})
	if err != nil {
		return nil, err
	}
	topics := []string{}
	if len(constitutions) == 0 {
		return topics, nil
	}

	for _, topic := range CommonTopics {
		results, err := c.SearchTopic(ctx, topic, country, language)
		if err != nil {
			utils.GetLogger().Warn("Constitute topic search failed", zap.String("topic", topic), zap.Error(err))
			continue
		}
		if len(results) > 0 {
			topics = append(topics, topic)
		}
	}
	return topics, nil
}

// SectionURL links to a section on the Constitute Project site.
func SectionURL(s Section) string {
	if s.ConstitutionID == "" {
		return "#"
	}
	u := "https://www.constituteproject.org/constitution/" + url.PathEscape(s.ConstitutionID)
	if s.SectionID != "" {
		u += "#" + s.SectionID
	}
	return u
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
