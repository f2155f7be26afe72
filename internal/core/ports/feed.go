// internal/core/ports/feed.go
package ports

import (
	"context"

	"raceward/internal/core/domain"
)

// VersionFeed is an external, append-only listing of toolchain builds.
// The resolver treats it as read-only and time-varying.
type VersionFeed interface {
	// Versions returns every known toolchain identity, in feed order
	Versions(ctx context.Context) ([]domain.ToolchainIdentity, error)
}
