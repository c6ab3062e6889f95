// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/group-table/identity"
	"github.com/danielhkuo/group-table/models"
)

// DefaultYelpURL is the Yelp AI chat endpoint the query is posted to.
const DefaultYelpURL = "https://api.yelp.com/ai/chat/v2"

const (
	maxAttempts    = 3
	requestTimeout = 30 * time.Second
)

// YelpClient asks the Yelp AI chat API for restaurant recommendations by
// phrasing the session filters as a natural language query. Only the
// structured business entities of the response are decoded; the free-text
// recommendation prose is ignored.
type YelpClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

func NewYelpClient(apiKey, baseURL string) *YelpClient {
	if baseURL == "" {
		baseURL = DefaultYelpURL
	}
	return &YelpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
}

type yelpRequest struct {
	Query       string          `json:"query"`
	UserContext yelpUserContext `json:"user_context"`
}

type yelpUserContext struct {
	Locale   string `json:"locale"`
	Location string `json:"location"`
}

type yelpBusiness struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Price       string  `json:"price"`
	ImageURL    string  `json:"image_url"`
	Location    *struct {
		Address1 string `json:"address1"`
		City     string `json:"city"`
	} `json:"location"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
}

type yelpResponse struct {
	Entities []struct {
		Businesses []yelpBusiness `json:"businesses"`
	} `json:"entities"`
}

func (c *YelpClient) Fetch(ctx context.Context, filters models.Filters, excludeNames []string) ([]models.Restaurant, error) {
	location := "San Francisco, CA"
	if len(filters.Locations) > 0 {
		location = filters.Locations[0]
	}

	payload, err := json.Marshal(yelpRequest{
		Query: BuildQuery(filters, excludeNames),
		UserContext: yelpUserContext{
			Locale:   "en_US",
			Location: location,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider request: %w", err)
	}

	body, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}

	var decoded yelpResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &Error{Msg: "undecodable response: " + err.Error()}
	}

	var businesses []yelpBusiness
	for _, e := range decoded.Entities {
		if len(e.Businesses) > 0 {
			businesses = e.Businesses
			break
		}
	}

	excluded := make(map[string]bool, len(excludeNames))
	for _, name := range excludeNames {
		excluded[strings.ToLower(name)] = true
	}

	restaurants := make([]models.Restaurant, 0, len(businesses))
	for _, b := range businesses {
		if b.Name == "" || excluded[strings.ToLower(b.Name)] {
			continue
		}
		restaurants = append(restaurants, toRestaurant(b))
	}
	return restaurants, nil
}

// post sends the query, retrying on network failures and upstream 5xx
// responses with exponential backoff. Client errors fail immediately.
func (c *YelpClient) post(ctx context.Context, payload []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(1<<(attempt-2)) * time.Second
			slog.Info("retrying provider request", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &Error{Msg: ctx.Err().Error()}
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to build provider request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = &Error{Msg: err.Error()}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			lastErr = &Error{Status: resp.StatusCode, Msg: "upstream server error"}
			continue
		case resp.StatusCode >= 400:
			return nil, &Error{Status: resp.StatusCode, Msg: strings.TrimSpace(string(body))}
		case readErr != nil:
			lastErr = &Error{Msg: readErr.Error()}
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

func toRestaurant(b yelpBusiness) models.Restaurant {
	id := b.ID
	if id == "" {
		// The chat endpoint occasionally returns businesses without an id.
		// Votes are keyed by restaurant id, so mint one rather than let
		// every id-less entry collide on the empty string.
		if gen, err := identity.GenerateID(8); err == nil {
			id = gen
		}
	}
	r := models.Restaurant{
		ID:          id,
		Name:        b.Name,
		Cuisine:     "Restaurant",
		Location:    "Unknown",
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		Price:       b.Price,
		Image:       b.ImageURL,
	}
	if len(b.Categories) > 0 && b.Categories[0].Title != "" {
		r.Cuisine = b.Categories[0].Title
	}
	if b.Location != nil {
		if b.Location.City != "" {
			r.Location = b.Location.City
		}
		if b.Location.Address1 != "" {
			r.Location = b.Location.Address1 + ", " + r.Location
		}
	}
	return r
}

// BuildQuery phrases the filters as a natural language recommendation
// request, with an explicit exclusion clause for restaurants the group has
// already seen.
func BuildQuery(f models.Filters, excludeNames []string) string {
	cuisines := "any cuisine"
	if len(f.Cuisines) > 0 {
		cuisines = strings.Join(f.Cuisines, ", ")
	}

	location := "nearby"
	if len(f.Locations) > 0 {
		location = "in " + strings.Join(f.Locations, " or ")
	}

	parts := []string{"Recommend popular", cuisines, "restaurants", location}

	if len(f.Costs) > 0 {
		levels := make([]string, len(f.Costs))
		for i, c := range f.Costs {
			levels[i] = strings.Repeat("$", c)
		}
		parts = append(parts, "with a price range of "+strings.Join(levels, " or "))
	}
	if f.MinRating > 0 {
		parts = append(parts, fmt.Sprintf("with a rating of at least %g stars", f.MinRating))
	}
	if len(f.Dietary) > 0 {
		parts = append(parts, "suitable for "+strings.Join(f.Dietary, " and ")+" diets")
	}
	if f.Date != "" && f.Time != "" {
		parts = append(parts, "open on "+f.Date+" at "+f.Time)
	}
	parts = append(parts, "with reviews.")

	query := strings.Join(parts, " ")
	if len(excludeNames) > 0 {
		query += " Do not include these restaurants: " + strings.Join(excludeNames, ", ") + "."
	}
	return query
}
