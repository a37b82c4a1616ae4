package discovery

import (
	"encoding/json"
	"fmt"
)

type PageInfo struct {
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// Links are informational; the client never follows them.
type Links struct {
	Self string
	Next string
}

// Page is one page of search results. Items are the raw JSON objects found
// under "_embedded", left for the caller's model constructor.
type Page struct {
	Items []json.RawMessage
	Info  PageInfo
	Links Links
}

type link struct {
	Href string `json:"href"`
}

type pageResponse struct {
	Embedded map[string][]json.RawMessage `json:"_embedded"`
	Links    struct {
		Self *link `json:"self"`
		Next *link `json:"next"`
	} `json:"_links"`
	Page PageInfo `json:"page"`
}

func decodePage(body []byte) (*Page, error) {
	var resp pageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal page: %w", err)
	}

	p := &Page{Info: resp.Page}
	// the API embeds exactly one list, keyed by resource name
	for _, items := range resp.Embedded {
		p.Items = append(p.Items, items...)
	}
	if resp.Links.Self != nil {
		p.Links.Self = resp.Links.Self.Href
	}
	if resp.Links.Next != nil {
		p.Links.Next = resp.Links.Next.Href
	}
	return p, nil
}
