package hh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const DefaultAPIURL = "https://api.hh.ru/vacancies/"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	apiURL      string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewClient(apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{apiURL: apiURL, httpClient: &http.Client{}}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// GetVacancy fetches a single vacancy by its hh.ru identifier.
// Any non-200 response is an error, no retries.
func (c *Client) GetVacancy(id string) (Vacancy, error) {

	body, err := c.sendRequest("GET", c.apiURL+id, nil)
	if err != nil {
		return Vacancy{}, err
	}

	var vacancy Vacancy
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&vacancy); err != nil {
		return Vacancy{}, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return vacancy, nil
}

func (c *Client) sendRequest(method string, url string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(context.Background())
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}
