package mock

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kitbuilder587/ticket-bot/internal/discovery"
)

type SearchCall struct {
	Resource string
	Params   map[string]any
}

type FetchCall struct {
	Resource string
	ID       string
}

// Client is a scripted discovery.API. Search returns Items as a single page;
// GetByID looks the ID up in Objects.
type Client struct {
	Items   []json.RawMessage
	Objects map[string]json.RawMessage
	Error   error
	Delay   time.Duration

	SearchCalls []SearchCall
	FetchCalls  []FetchCall

	mu sync.Mutex
}

func New() *Client {
	return &Client{Objects: make(map[string]json.RawMessage)}
}

func (c *Client) WithItems(items ...string) *Client {
	for _, it := range items {
		c.Items = append(c.Items, json.RawMessage(it))
	}
	return c
}

func (c *Client) WithObject(id, obj string) *Client {
	c.Objects[id] = json.RawMessage(obj)
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, resource string, params map[string]any) (*discovery.Page, error) {
	c.mu.Lock()
	c.SearchCalls = append(c.SearchCalls, SearchCall{Resource: resource, Params: params})
	delay, err, items := c.Delay, c.Error, c.Items
	c.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return &discovery.Page{
		Items: items,
		Info: discovery.PageInfo{
			Size:          len(items),
			TotalElements: len(items),
			TotalPages:    1,
		},
	}, nil
}

func (c *Client) GetByID(ctx context.Context, resource, id string) (json.RawMessage, error) {
	c.mu.Lock()
	c.FetchCalls = append(c.FetchCalls, FetchCall{Resource: resource, ID: id})
	delay, err := c.Delay, c.Error
	obj, ok := c.Objects[id]
	c.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &discovery.APIError{StatusCode: 404, Code: "DIS1004", Detail: "Resource not found"}
	}
	return obj, nil
}

func (c *Client) LastSearch() SearchCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.SearchCalls) == 0 {
		return SearchCall{}
	}
	return c.SearchCalls[len(c.SearchCalls)-1]
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SearchCalls = nil
	c.FetchCalls = nil
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
