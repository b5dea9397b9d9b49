package cmssdk

import (
	"context"
	"fmt"

	"github.com/imroc/req/v3"
)

const (
	v1Content = "/api/v1/content"
)

// ContentAPI exposes the CMS content collection endpoints.
type ContentAPI struct {
	client *req.Client
}

func newContentAPI(client *req.Client) *ContentAPI {
	return &ContentAPI{
		client: client,
	}
}

// ListAll enumerates every item of the given content type.
func (c *ContentAPI) ListAll(ctx context.Context, contentType string) ([]*Item, error) {
	var result ListResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("type", contentType).
		SetSuccessResult(&result).
		Get(v1Content + "/{type}")

	if err := handleAPIError(resp, err, fmt.Sprintf("content list %q", contentType)); err != nil {
		return nil, err
	}

	return result.Items, nil
}

// Fetch retrieves a single item by id.
func (c *ContentAPI) Fetch(ctx context.Context, contentType, id string) (*Item, error) {
	var item Item
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("type", contentType).
		SetPathParam("id", id).
		SetSuccessResult(&item).
		Get(v1Content + "/{type}/{id}")

	if err := handleAPIError(resp, err, fmt.Sprintf("content fetch %s/%s", contentType, id)); err != nil {
		return nil, err
	}

	return &item, nil
}

// Create creates a new item. The returned item carries the server-assigned id.
func (c *ContentAPI) Create(ctx context.Context, payload *ItemPayload) (*Item, error) {
	var item Item
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("type", payload.Type).
		SetBody(payload).
		SetSuccessResult(&item).
		Post(v1Content + "/{type}")

	if err := handleAPIError(resp, err, fmt.Sprintf("content create %q", payload.Type)); err != nil {
		return nil, err
	}

	return &item, nil
}

// Update replaces the item with the given id.
func (c *ContentAPI) Update(ctx context.Context, id string, payload *ItemPayload) (*Item, error) {
	var item Item
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("type", payload.Type).
		SetPathParam("id", id).
		SetBody(payload).
		SetSuccessResult(&item).
		Put(v1Content + "/{type}/{id}")

	if err := handleAPIError(resp, err, fmt.Sprintf("content update %s/%s", payload.Type, id)); err != nil {
		return nil, err
	}

	return &item, nil
}
