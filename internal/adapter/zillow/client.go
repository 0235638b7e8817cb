// Package zillow wraps the HasData Zillow scraping API.
package zillow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/propertypilot/backend/internal/model/property"
)

var ErrMissingAPIKey = errors.New("hasdata api key not configured")

const defaultBaseURL = "https://api.hasdata.com"

// Client is a thin HTTP client for the HasData Zillow endpoints.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient builds a client with the given key and timeout. baseURL is
// overridable for tests; empty selects the production endpoint.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// detailResponse mirrors the HasData property payload.
type detailResponse struct {
	ZPID          json.Number `json:"zpid"`
	Address       string      `json:"address"`
	Price         float64     `json:"price"`
	Bedrooms      int         `json:"bedrooms"`
	Bathrooms     float64     `json:"bathrooms"`
	LivingArea    int         `json:"livingArea"`
	LotSize       float64     `json:"lotSize"`
	YearBuilt     int         `json:"yearBuilt"`
	HomeType      string      `json:"homeType"`
	Description   string      `json:"description"`
	Photos        []string    `json:"photos"`
	Zestimate     float64     `json:"zestimate"`
	RentZestimate float64     `json:"rentZestimate"`
	Neighborhood  string      `json:"neighborhood"`
	WalkScore     int         `json:"walkScore"`
	DaysOnZillow  int         `json:"daysOnZillow"`
	HomeStatus    string      `json:"homeStatus"`
	Latitude      float64     `json:"latitude"`
	Longitude     float64     `json:"longitude"`
}

// GetPropertyDetails scrapes the detail page behind a Zillow listing URL.
func (c *Client) GetPropertyDetails(ctx context.Context, zillowURL string) (property.Details, error) {
	if c.apiKey == "" {
		return property.Details{}, ErrMissingAPIKey
	}

	endpoint := fmt.Sprintf("%s/scrape/zillow/property?url=%s&extractAgentEmails=true",
		c.baseURL, url.QueryEscape(zillowURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return property.Details{}, fmt.Errorf("build property request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return property.Details{}, fmt.Errorf("fetch property details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return property.Details{}, fmt.Errorf("hasdata returned %d: %s", resp.StatusCode, body)
	}

	var raw detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return property.Details{}, fmt.Errorf("decode property details: %w", err)
	}

	return property.Details{
		ZPID:          raw.ZPID.String(),
		Address:       raw.Address,
		Price:         raw.Price,
		Bedrooms:      raw.Bedrooms,
		Bathrooms:     raw.Bathrooms,
		LivingArea:    raw.LivingArea,
		LotSize:       raw.LotSize,
		YearBuilt:     raw.YearBuilt,
		PropertyType:  raw.HomeType,
		Description:   raw.Description,
		Images:        raw.Photos,
		Zestimate:     raw.Zestimate,
		RentZestimate: raw.RentZestimate,
		Neighborhood:  raw.Neighborhood,
		WalkScore:     raw.WalkScore,
		DaysOnMarket:  raw.DaysOnZillow,
		Status:        raw.HomeStatus,
		Coordinates:   property.Coordinates{Lat: raw.Latitude, Lng: raw.Longitude},
	}, nil
}

// SearchProperties is limited to the detail-scrape capability of the upstream
// service; listing search is not exposed, so this always returns an empty
// slice. Callers analyze specific listing URLs instead.
func (c *Client) SearchProperties(ctx context.Context, location string, maxPrice float64) ([]property.Property, error) {
	log.Printf("[zillow] listing search unavailable for %s (max $%.0f), analyze specific listing URLs instead", location, maxPrice)
	return []property.Property{}, nil
}
