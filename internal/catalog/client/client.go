package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/observability/tracing"
	"github.com/smallbiznis/mystore/pkg/telemetry/correlation"
	"go.uber.org/zap"
)

// Client talks to a remote catalog API.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		ctx := r.Context()
		tracing.Inject(ctx, r.Header)
		if cid := correlation.ExtractCorrelationID(ctx); cid != "" {
			r.SetHeader("X-Request-Id", cid)
		}
		return nil
	})
	return &Client{http: c, log: log.Named("catalog.client")}
}

// Create sends the product in one request. A non-success answer becomes
// an *domain.APIError carrying the server message when there is one.
func (c *Client) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/products")
	if err != nil {
		c.log.Warn("create product request failed", zap.Error(err))
		return nil, fmt.Errorf("create product: %w", err)
	}
	if resp.IsError() {
		apiErr := &domain.APIError{Status: resp.StatusCode(), Message: errorMessage(resp.Body())}
		if apiErr.Message == "" {
			apiErr.Message = domain.MsgCreateFailed
		}
		return nil, apiErr
	}

	var out domain.Product
	if err := decodeData(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode created product: %w", err)
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, categoryID *int64) ([]domain.ListItem, error) {
	r := c.http.R().SetContext(ctx)
	if categoryID != nil {
		r.SetQueryParam("categoryId", strconv.FormatInt(*categoryID, 10))
	}
	resp, err := r.Get("/products")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if resp.IsError() {
		return nil, &domain.APIError{Status: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}

	var out []domain.ListItem
	if err := decodeData(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

func (c *Client) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/products/{id}")
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.IsError() {
		return nil, &domain.APIError{Status: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}

	var out domain.Detail
	if err := decodeData(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &out, nil
}

// decodeData accepts both {"data": ...} envelopes and bare bodies.
func decodeData(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
			return json.Unmarshal(envelope.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

// errorMessage reads {"error":"msg"} or {"error":{"message":"msg"}}.
func errorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(envelope.Error, &msg); err == nil {
		return strings.TrimSpace(msg)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &obj); err == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}

var _ domain.Service = (*Client)(nil)
