// Package auctionapi is the typed HTTP client for the backing auction
// service: lot listing, lot detail, bid submission, and order submission.
package auctionapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"resty.dev/v3"

	"github.com/akarpov/auction-desk/internal/domain/lot"
	"github.com/akarpov/auction-desk/internal/domain/order"
)

// Error is the transport/validation failure of a network operation. It is
// caught at the mediator boundary, logged, and re-broadcast as a domain
// error event; it is never retried automatically.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds the client settings.
type Config struct {
	// BaseURL is the auction service API root, e.g. https://api.example.com/api/auction.
	BaseURL string
	// CDNBaseURL is prepended to relative lot image paths.
	CDNBaseURL string
	// Timeout bounds each request.
	Timeout time.Duration
}

// Client implements the auction service contract over HTTP.
type Client struct {
	http    *resty.Client
	cdnBase string

	// detail deduplicates concurrent fetches of the same lot; a bid burst
	// against one lot triggers several re-fetches that would otherwise race.
	detail singleflight.Group
}

// NewClient creates a Client for the given service endpoints.
func NewClient(cfg Config) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}
	return &Client{
		http:    httpClient,
		cdnBase: strings.TrimSuffix(cfg.CDNBaseURL, "/"),
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

// apiError is the service's error envelope.
type apiError struct {
	Error string `json:"error"`
}

// lotDTO is the wire shape of a lot.
type lotDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	About       string            `json:"about"`
	Description string            `json:"description,omitempty"`
	Image       string            `json:"image"`
	Status      string            `json:"status"`
	Datetime    time.Time         `json:"datetime"`
	Price       decimal.Decimal   `json:"price"`
	MinPrice    decimal.Decimal   `json:"minPrice"`
	History     []decimal.Decimal `json:"history,omitempty"`
}

type listResponse struct {
	Total int      `json:"total"`
	Items []lotDTO `json:"items"`
}

type bidRequest struct {
	Price decimal.Decimal `json:"price"`
}

type orderRequest struct {
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Items []string `json:"items"`
}

type orderResponse struct {
	ID string `json:"id"`
}

func (d lotDTO) toDomain(cdnBase string) lot.Lot {
	image := d.Image
	if cdnBase != "" && image != "" && !strings.HasPrefix(image, "http") {
		image = cdnBase + "/" + strings.TrimPrefix(image, "/")
	}
	return lot.Lot{
		ID:          d.ID,
		Title:       d.Title,
		About:       d.About,
		Description: d.Description,
		Image:       image,
		Status:      lot.Status(d.Status),
		Datetime:    d.Datetime,
		Price:       d.Price,
		MinPrice:    d.MinPrice,
		History:     d.History,
	}
}

// ListLots fetches the ordered catalog of lots.
func (c *Client) ListLots(ctx context.Context) ([]lot.Lot, error) {
	var (
		out    listResponse
		apiErr apiError
	)
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Get("/lot")
	if err := c.check("list lots", res, err, apiErr); err != nil {
		return nil, err
	}

	lots := make([]lot.Lot, len(out.Items))
	for i, d := range out.Items {
		lots[i] = d.toDomain(c.cdnBase)
	}
	return lots, nil
}

// GetLot fetches a single lot's full detail. Concurrent calls for the same
// lot share one request; the duplicate callers receive the winner's result.
func (c *Client) GetLot(ctx context.Context, id string) (lot.Lot, error) {
	v, err, _ := c.detail.Do(id, func() (any, error) {
		var (
			out    lotDTO
			apiErr apiError
		)
		res, reqErr := c.http.R().
			SetContext(ctx).
			SetResult(&out).
			SetError(&apiErr).
			Get("/lot/" + id)
		if err := c.check("get lot", res, reqErr, apiErr); err != nil {
			return lot.Lot{}, err
		}
		return out.toDomain(c.cdnBase), nil
	})
	if err != nil {
		return lot.Lot{}, err
	}
	return v.(lot.Lot), nil
}

// PlaceBid submits a bid and returns the updated lot as the service sees it.
func (c *Client) PlaceBid(ctx context.Context, id string, price decimal.Decimal) (lot.Lot, error) {
	var (
		out    lotDTO
		apiErr apiError
	)
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(bidRequest{Price: price}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/lot/" + id + "/bid")
	if err := c.check("place bid", res, err, apiErr); err != nil {
		return lot.Lot{}, err
	}
	return out.toDomain(c.cdnBase), nil
}

// SubmitOrder submits the checkout order and returns the confirmation. The
// idempotency key protects against double submission on retried transports.
func (c *Client) SubmitOrder(ctx context.Context, o order.Order) (order.Confirmation, error) {
	var (
		out    orderResponse
		apiErr apiError
	)
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(orderRequest{Email: o.Email, Phone: o.Phone, Items: o.Items}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/order")
	if err := c.check("submit order", res, err, apiErr); err != nil {
		return order.Confirmation{}, err
	}
	return order.Confirmation{ID: out.ID}, nil
}

// check folds transport errors and non-2xx responses into *Error.
func (c *Client) check(op string, res *resty.Response, err error, apiErr apiError) error {
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if res.IsError() {
		cause := errors.New("request failed")
		if apiErr.Error != "" {
			cause = errors.New(apiErr.Error)
		}
		return &Error{Op: op, Status: res.StatusCode(), Err: cause}
	}
	return nil
}
