package enums

import "fmt"

// OrderStatus tracks the fulfillment stage of a prescription order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusReady      OrderStatus = "Ready"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid reports whether the value matches the canonical order status enum.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts the raw string to OrderStatus, defaulting empty
// input to Processing.
func ParseOrderStatus(value string) (OrderStatus, error) {
	if value == "" {
		return OrderStatusProcessing, nil
	}
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
