package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"inmobiliaria/internal/entities"
)

// ListingService talks to the external property-listing API. It is
// constructed once in main and injected wherever listing data is needed;
// listing data only ever enriches display, never slot logic.
type ListingService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewListingService() *ListingService {
	return &ListingService{
		baseURL: os.Getenv("LISTINGS_API_URL"),
		apiKey:  os.Getenv("LISTINGS_API_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *ListingService) GetListing(id string) (*entities.Listing, error) {
	if s.baseURL == "" {
		return nil, fmt.Errorf("LISTINGS_API_URL not configured")
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/listings/%s", s.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling listing service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing service returned status %d for listing %s", resp.StatusCode, id)
	}

	var listing entities.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("error decoding listing %s: %w", id, err)
	}
	return &listing, nil
}
