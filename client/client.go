package client

import (
	"context"
	"net/http"
	"time"

	"github.com/netonframework/docsite/pkg/handler"
	"github.com/netonframework/docsite/pkg/site"
	"github.com/netonframework/docsite/pkg/utils"
	"github.com/netonframework/docsite/requests"
	"github.com/netonframework/docsite/responses"
	"github.com/pkg/errors"
)

type (
	// Client a docsite client
	Client struct {
		t          transport
		httpClient *http.Client
	}
	Option func(*Client)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New returns a client using the http transport, server is the api endpoint e.g. http://localhost:8080/docsite
func New(server string, opts ...Option) (*Client, error) {
	if !utils.IsHTTPURL(server) {
		return nil, errors.Errorf("invalid server url %q: expected http(s)://host[/path]", server)
	}

	inst := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(inst)
	}

	inst.t = NewHTTPTransport(server, inst.httpClient)
	return inst, nil
}

// NewSocketClient returns a client talking the socket protocol with a pool of connections
func NewSocketClient(address string, connectionPoolSize int, waitTimeout time.Duration) (*Client, error) {
	if address == "" {
		return nil, errors.New("empty address")
	}
	if connectionPoolSize < 1 {
		return nil, errors.Errorf("invalid connection pool size %d", connectionPoolSize)
	}
	return &Client{
		t: NewSocketTransport(address, connectionPoolSize, waitTimeout),
	}, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Update tell the server to update itself
func (c *Client) Update(ctx context.Context) (response *responses.Update, err error) {
	response = &responses.Update{}
	err = c.t.call(ctx, handler.RouteUpdate, &requests.Update{}, response)
	return
}

// GetConfig the current site config
func (c *Client) GetConfig(ctx context.Context) (response *responses.Config, err error) {
	response = &responses.Config{}
	err = c.t.call(ctx, handler.RouteGetConfig, &requests.Config{}, response)
	return
}

// GetNav the top level navigation, the active entry is resolved when path is not empty
func (c *Client) GetNav(ctx context.Context, path string) (response *responses.Nav, err error) {
	response = &responses.Nav{}
	err = c.t.call(ctx, handler.RouteGetNav, &requests.Nav{Path: path}, response)
	return
}

func (c *Client) GetSidebar(ctx context.Context, path string) (response *responses.Sidebar, err error) {
	response = &responses.Sidebar{}
	err = c.t.call(ctx, handler.RouteGetSidebar, &requests.Sidebar{Path: path}, response)
	return
}

func (c *Client) GetPage(ctx context.Context, path string) (response *responses.Page, err error) {
	response = &responses.Page{}
	err = c.t.call(ctx, handler.RouteGetPage, &requests.Page{Path: path}, response)
	return
}

// Validate a config document without loading it
func (c *Client) Validate(ctx context.Context, format site.Format, config []byte) (response *responses.Validate, err error) {
	response = &responses.Validate{}
	err = c.t.call(ctx, handler.RouteValidate, &requests.Validate{Format: string(format), Config: string(config)}, response)
	return
}

// GetRepo the whole config as served from the repo buffer
func (c *Client) GetRepo(ctx context.Context) (response *site.SiteConfig, err error) {
	response = &site.SiteConfig{}
	err = c.t.call(ctx, handler.RouteGetRepo, &requests.Config{}, response)
	return
}

func (c *Client) Close() {
	c.t.shutdown()
}
