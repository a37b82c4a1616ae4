package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Search issues GET <base>/<resource>.json with params as the query string.
// Nil values, typed or not, are left out.
func (c *Client) Search(ctx context.Context, resource string, params map[string]any) (*Page, error) {
	query := url.Values{}
	for k, v := range params {
		if isNil(v) {
			continue
		}
		query.Set(k, encodeValue(k, v))
	}

	body, err := c.get(ctx, c.resourceURL(resource), query)
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// GetByID issues GET <base>/<resource>/<id>.json and returns the body as is.
// A blank id is rejected: the trimmed path would hit the search endpoint.
func (c *Client) GetByID(ctx context.Context, resource, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty %s id", ErrInvalidRequest, resource)
	}
	body, err := c.get(ctx, c.resourceURL(resource+"/"+url.PathEscape(id)), url.Values{})
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: malformed JSON body", ErrRequestFailed)
	}
	return json.RawMessage(body), nil
}

func (c *Client) resourceURL(path string) string {
	return c.baseURL + "/" + strings.Trim(path, "/") + ".json"
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	requestID := uuid.NewString()
	c.logger.Debug("discovery request",
		zap.String("request_id", requestID),
		zap.String("url", endpoint),
		zap.String("query", query.Encode()),
	)

	query.Set("apikey", c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseError(resp.StatusCode, endpoint, respBody)
		c.logger.Warn("discovery request failed",
			zap.String("request_id", requestID),
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.String("detail", apiErr.Detail),
		)
		return nil, apiErr
	}

	return respBody, nil
}

type errorResponse struct {
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
		Status string `json:"status"`
	} `json:"errors"`
	Fault *struct {
		FaultString string `json:"faultstring"`
		Detail      struct {
			ErrorCode string `json:"errorcode"`
		} `json:"detail"`
	} `json:"fault"`
}

func parseError(status int, endpoint string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, URL: endpoint}

	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apiErr
	}

	switch {
	case len(resp.Errors) > 0:
		apiErr.Code = resp.Errors[0].Code
		apiErr.Detail = resp.Errors[0].Detail
	case resp.Fault != nil:
		apiErr.Code = resp.Fault.Detail.ErrorCode
		apiErr.Detail = resp.Fault.FaultString
	}
	return apiErr
}

// include flags accept yes/no/only in any case, or a bool
var yesNoOnlyKeys = map[string]bool{
	"includeTest": true,
	"includeTBA":  true,
	"includeTBD":  true,
}

func encodeValue(key string, v any) string {
	switch val := v.(type) {
	case string:
		if yesNoOnlyKeys[key] {
			return yesNoOnly(val)
		}
		return val
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, ",")
	case fmt.Stringer:
		return encodeValue(key, val.String())
	default:
		if rv := reflect.ValueOf(val); rv.Kind() == reflect.Pointer && !rv.IsNil() {
			return encodeValue(key, rv.Elem().Interface())
		}
		return fmt.Sprint(val)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func yesNoOnly(s string) string {
	switch lower := strings.ToLower(s); lower {
	case "yes", "no", "only":
		return lower
	default:
		return s
	}
}
