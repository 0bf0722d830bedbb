// Package client talks to a running drinkstand server. The scheduler-facing
// CLI commands use it so that closing a day goes through the same service
// as the UI.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/matthieukhl/drinkstand/internal/config"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"go.uber.org/zap"
)

type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("drinkstand api error: %s", e.Status)
	}
	return fmt.Sprintf("drinkstand api error: %s: %s", e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// CloseResponse is the answer of the auto-close endpoint.
type CloseResponse struct {
	Success bool               `json:"success"`
	Date    models.Day         `json:"date"`
	Created bool               `json:"created"`
	Closing *models.CupClosing `json:"closing"`
	Message string             `json:"message"`
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(cfg config.ClientConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && (resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500)
		})

	return &Client{
		http:   httpClient,
		logger: logger.Named("client"),
	}
}

// AutoClose asks the server to close day, or yesterday when day is zero.
func (c *Client) AutoClose(ctx context.Context, day models.Day) (CloseResponse, error) {
	var out CloseResponse
	req := c.http.R().SetContext(ctx).SetResult(&out).SetError(&errorBody{})
	if !day.IsZero() {
		req.SetQueryParam("date", day.String())
	}

	resp, err := req.Post("/api/cups/auto-close")
	if err != nil {
		return CloseResponse{}, fmt.Errorf("auto-close request: %w", err)
	}
	if resp.IsError() {
		return CloseResponse{}, apiErrorFromResponse(resp)
	}

	c.logger.Info("Auto-close finished",
		zap.String("date", out.Date.String()),
		zap.Bool("created", out.Created))
	return out, nil
}

func (c *Client) Reconciliation(ctx context.Context, day models.Day) (sales.DayReconciliation, error) {
	var out sales.DayReconciliation
	if err := c.doGet(ctx, "/api/sales/reconciliation", map[string]string{"date": day.String()}, &out); err != nil {
		return sales.DayReconciliation{}, err
	}
	return out, nil
}

func (c *Client) doGet(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.http.R().SetContext(ctx).SetResult(result).SetError(&errorBody{})
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("drinkstand request: %w", err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func apiErrorFromResponse(resp *resty.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
	}
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(resp.String())
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", models.ErrNotFound, apiErr.Error())
	default:
		return apiErr
	}
}
