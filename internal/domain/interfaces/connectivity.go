package interfaces

import "context"

// ConnectivityChecker reports whether a validated internet path exists right now
type ConnectivityChecker interface {
	IsOnline(ctx context.Context) bool
}
