package salonservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с SalonService (каталог салонов и услуг)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента SalonService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSalon получает салон с расписанием, мастерами и менеджерами
func (c *Client) GetSalon(ctx context.Context, salonID int64) (*Salon, error) {
	url := fmt.Sprintf("%s/internal/salons/%d", c.baseURL, salonID)

	var salon Salon
	if err := c.get(ctx, url, ErrSalonNotFound, &salon); err != nil {
		return nil, err
	}

	return &salon, nil
}

// GetService получает услугу салона
func (c *Client) GetService(ctx context.Context, salonID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/salons/%d/services/%d", c.baseURL, salonID, serviceID)

	var service Service
	if err := c.get(ctx, url, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}

	return &service, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("SalonService request failed: GET %s: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
