package production

import (
	"context"
	"errors"
	"time"
)

// ErrJobNotFound is returned when a job id does not resolve to a job.
var ErrJobNotFound = errors.New("job not found")

// Repository is a read-only source of decoration job snapshots. Jobs are owned
// and mutated by the order management side; this module never writes them.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Job, error)
	ListByOrder(ctx context.Context, orderID string) ([]Job, error)
	// ListScheduledBetween returns jobs whose calendar span (see EventWindow)
	// overlaps [from, to). A span ending exactly at from is excluded.
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]Job, error)
}
