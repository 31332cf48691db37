// Package delivery defines the contract every transport entrypoint
// (HTTP backend, edge proxy) fulfils so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running server started by the fx application.
type Delivery interface {
	Serve(ctx context.Context) error
}
