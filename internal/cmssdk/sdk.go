package cmssdk

import (
	"time"

	"github.com/imroc/req/v3"
	"github.com/syncpress/syncpress/internal/version"
)

const (
	HeaderUserAgent = "User-Agent"
)

// SDK is the client for the remote CMS content API.
type SDK struct {
	client  *req.Client
	baseURL string
	Content *ContentAPI
}

// New creates a new CMS client for the given base URL. The token, if
// non-empty, is sent as a bearer credential on every request.
func New(baseURL, token string) (*SDK, error) {
	if baseURL == "" {
		return nil, ErrNoServerURL
	}

	client := req.C().
		SetBaseURL(baseURL).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1 * time.Second).
		SetCommonHeader(HeaderUserAgent, "SyncPress/"+version.Version).
		SetCommonErrorResult(&APIError{}).
		SetTimeout(30 * time.Second)

	if token != "" {
		client.SetCommonBearerAuthToken(token)
	}

	return &SDK{
		client:  client,
		baseURL: baseURL,
		Content: newContentAPI(client),
	}, nil
}

// BaseURL returns the configured server URL.
func (s *SDK) BaseURL() string {
	return s.baseURL
}
