// Package delivery defines the contract every transport adapter fulfils.
package delivery

import "context"

// Delivery is a long-running transport entry point, e.g. an HTTP server.
type Delivery interface {
	Serve(ctx context.Context) error
}
