package interfaces

import "context"

// Guard decides whether the automation may click a target
type Guard interface {
	// AllowClick returns an error when clicking target could change data
	AllowClick(ctx context.Context, target string) error
}
