package venue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/rickgao/options-quoter/internal/model"
)

// GetOutstandingOrders fetches this session's resting orders on an
// instrument, keyed by order ID.
func (c *Client) GetOutstandingOrders(ctx context.Context, instrumentID string) (map[string]model.RestingOrder, error) {
	query := url.Values{}
	query.Set("instrument_id", instrumentID)

	var resp ordersResponse
	if err := c.get(ctx, "/orders", query, &resp); err != nil {
		return nil, fmt.Errorf("get outstanding orders %s: %w", instrumentID, err)
	}

	orders := make(map[string]model.RestingOrder, len(resp.Orders))
	for _, a := range resp.Orders {
		orders[a.OrderID] = a.toRestingOrder()
	}

	return orders, nil
}

// InsertOrder submits an order and returns the venue-assigned order ID.
// A client-generated idempotency key guards against double submission
// if the venue saw a request whose response was lost.
func (c *Client) InsertOrder(ctx context.Context, instrumentID string, price, volume float64, side model.Side, orderType model.OrderType) (string, error) {
	req := insertOrderRequest{
		InstrumentID: instrumentID,
		Price:        price,
		Volume:       volume,
		Side:         string(side),
		OrderType:    string(orderType),
		ClientKey:    uuid.NewString(),
	}

	var resp insertOrderResponse
	if err := c.post(ctx, "/orders", req, &resp); err != nil {
		return "", fmt.Errorf("insert %s order %s %v@%v: %w", orderType, instrumentID, volume, price, err)
	}

	return resp.OrderID, nil
}

// DeleteOrder cancels a resting order. A 404 means the order already
// filled or was removed, which the pull-then-reinsert policy treats as
// success.
func (c *Client) DeleteOrder(ctx context.Context, instrumentID, orderID string) error {
	err := c.del(ctx, "/orders/"+orderID+"?instrument_id="+url.QueryEscape(instrumentID))
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete order %s on %s: %w", orderID, instrumentID, err)
	}
	return nil
}
