package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a resty-backed implementation of Service talking to the yard
// tracking HTTP API.
type Client struct {
	httpClient *resty.Client
}

var _ Service = (*Client)(nil)

// NewClient builds a client for the API at baseURL (without the /api suffix).
func NewClient(baseURL string) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/") + "/api").
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &Client{httpClient: restyClient}
}

// apiError mirrors the service's error payload.
type apiError struct {
	Error string `json:"error"`
}

// wrapError maps a response status onto the error taxonomy. The service's
// message is carried through verbatim so the operator sees what it said.
func wrapError(resp *resty.Response, apiErr *apiError) error {
	message := apiErr.Error
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode())
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return NotFound(message)
	case http.StatusConflict:
		return Conflict(message)
	default:
		return Transport(message)
	}
}

func (c *Client) execute(ctx context.Context, method, path string, body, result any) error {
	apiErr := new(apiError)
	req := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return Transport(err.Error())
	}
	if resp.IsError() {
		return wrapError(resp, apiErr)
	}
	return nil
}

// Authenticate logs in and installs the returned bearer token on the client.
func (c *Client) Authenticate(ctx context.Context, email, secret string) (Principal, error) {
	if strings.TrimSpace(email) == "" || secret == "" {
		return Principal{}, Validation("email and password are required")
	}

	var result struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
		User      struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	err := c.execute(ctx, resty.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": secret}, &result)
	if err != nil {
		return Principal{}, err
	}

	c.httpClient.SetAuthToken(result.Token)
	return Principal{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		UserID:    result.User.ID,
		UserName:  result.User.Name,
	}, nil
}

func (c *Client) RegisterVehicle(ctx context.Context, draft VehicleDraft) (Vehicle, error) {
	if strings.TrimSpace(draft.Plate) == "" || strings.TrimSpace(draft.ChassisNumber) == "" {
		return Vehicle{}, Validation("plate and chassis number are required")
	}
	var vehicle Vehicle
	if err := c.execute(ctx, resty.MethodPost, "/vehicles", draft, &vehicle); err != nil {
		return Vehicle{}, err
	}
	return vehicle, nil
}

// SearchVehicle fuzzy-matches the token against plate, chassis number and
// contract code. A whitespace-only token is rejected locally.
func (c *Client) SearchVehicle(ctx context.Context, token string) (SearchResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SearchResult{}, Validation("search token is empty")
	}

	var result SearchResult
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", token).
		SetResult(&result).
		SetError(apiErr).
		Get("/vehicles/search")
	if err != nil {
		return SearchResult{}, Transport(err.Error())
	}
	if resp.IsError() {
		return SearchResult{}, wrapError(resp, apiErr)
	}
	return result, nil
}

func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	return c.execute(ctx, resty.MethodDelete, fmt.Sprintf("/vehicles/%d", id), nil, nil)
}

func (c *Client) RegisterLocation(ctx context.Context, fields LocationFields) (Location, error) {
	if fields.Warehouse == "" || fields.Street == "" || fields.Module == "" || fields.Bay == "" {
		return Location{}, Validation("all four location fields are required")
	}
	var location Location
	if err := c.execute(ctx, resty.MethodPost, "/locations", fields, &location); err != nil {
		return Location{}, err
	}
	return location, nil
}

// SearchLocation looks a slot up by warehouse, optionally narrowed by street,
// module and bay.
func (c *Client) SearchLocation(ctx context.Context, fields LocationFields) (Location, error) {
	if strings.TrimSpace(fields.Warehouse) == "" {
		return Location{}, Validation("warehouse is required")
	}

	var location Location
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"warehouse": fields.Warehouse,
			"street":    fields.Street,
			"module":    fields.Module,
			"bay":       fields.Bay,
		}).
		SetResult(&location).
		SetError(apiErr).
		Get("/locations/search")
	if err != nil {
		return Location{}, Transport(err.Error())
	}
	if resp.IsError() {
		return Location{}, wrapError(resp, apiErr)
	}
	return location, nil
}

func (c *Client) DeleteLocation(ctx context.Context, id int64) error {
	return c.execute(ctx, resty.MethodDelete, fmt.Sprintf("/locations/%d", id), nil, nil)
}

func (c *Client) CreateHistory(ctx context.Context, vehicleID, locationID int64) (HistoryRecord, error) {
	var record HistoryRecord
	err := c.execute(ctx, resty.MethodPost, "/history",
		map[string]int64{"vehicleId": vehicleID, "locationId": locationID}, &record)
	if err != nil {
		return HistoryRecord{}, err
	}
	return record, nil
}

func (c *Client) ListHistory(ctx context.Context) ([]HistoryRecord, error) {
	var records []HistoryRecord
	if err := c.execute(ctx, resty.MethodGet, "/history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) DeleteHistory(ctx context.Context, id int64) error {
	return c.execute(ctx, resty.MethodDelete, fmt.Sprintf("/history/%d", id), nil, nil)
}

func (c *Client) ClearHistory(ctx context.Context) error {
	return c.execute(ctx, resty.MethodDelete, "/history/all", nil, nil)
}

func (c *Client) UpdateHistoryLocation(ctx context.Context, id int64, fields LocationFields) (HistoryRecord, error) {
	var record HistoryRecord
	err := c.execute(ctx, resty.MethodPut, fmt.Sprintf("/history/%d/location", id), fields, &record)
	if err != nil {
		return HistoryRecord{}, err
	}
	return record, nil
}
