// Package storage talks to the proof-image bucket over its HTTP object API.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"distance-tracker/internal/config"
	"distance-tracker/internal/constants"
	"distance-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

// ObjectStore is the contract the proof lifecycle and the reconciler rely
// on. Tests substitute a fake.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

type BucketClient struct {
	endpoint string
	bucket   string
	apiKey   string
	client   *fasthttp.Client
}

func NewBucketClient(cfg *config.Config) *BucketClient {
	return &BucketClient{
		endpoint: cfg.StorageEndpoint,
		bucket:   cfg.StorageBucket,
		apiKey:   cfg.StorageAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ObjectStoreTimeout,
			WriteTimeout:        constants.ObjectStoreTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// Put uploads the object and returns its public URL.
func (c *BucketClient) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/object/%s/%s", c.endpoint, c.bucket, path)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.SetContentType(contentType)
	req.SetBody(data)

	if err := c.do(ctx, req, resp); err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", domain.ErrRemoteFailure, path, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK && resp.StatusCode() != fasthttp.StatusCreated {
		return "", fmt.Errorf("%w: upload %s: status %d", domain.ErrRemoteFailure, path, resp.StatusCode())
	}

	return c.PublicURL(path), nil
}

func (c *BucketClient) Delete(ctx context.Context, path string) error {
	url := fmt.Sprintf("%s/object/%s/%s", c.endpoint, c.bucket, path)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodDelete)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	if err := c.do(ctx, req, resp); err != nil {
		return fmt.Errorf("%w: delete %s: %v", domain.ErrRemoteFailure, path, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK && resp.StatusCode() != fasthttp.StatusNoContent {
		return fmt.Errorf("%w: delete %s: status %d", domain.ErrRemoteFailure, path, resp.StatusCode())
	}
	return nil
}

// List returns object paths under the prefix, for reconciliation.
func (c *BucketClient) List(ctx context.Context, prefix string) ([]string, error) {
	url := fmt.Sprintf("%s/object/list/%s", c.endpoint, c.bucket)

	body, err := json.Marshal(map[string]any{"prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrRemoteFailure, prefix, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: list %s: status %d", domain.ErrRemoteFailure, prefix, resp.StatusCode())
	}

	var objects []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp.Body(), &objects); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	paths := make([]string, 0, len(objects))
	for _, o := range objects {
		paths = append(paths, o.Name)
	}
	return paths, nil
}

func (c *BucketClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.endpoint, c.bucket, path)
}

func (c *BucketClient) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ObjectStoreTimeout)
	}
	return c.client.DoDeadline(req, resp, deadline)
}
