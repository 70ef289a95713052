// Package delivery defines the contract every transport surface satisfies.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by main.
type Delivery interface {
	Serve(ctx context.Context) error
}
