package ports

import (
	"context"

	"github.com/adventureapp/adventure-api/internal/core/domain"
)

// AdventureRepository defines persistence for adventures.
//
// AppendNode and TruncateNodes are conditional writes keyed on the
// adventure's current node count: when the stored count no longer matches
// expectedLen the write must not apply and the repository returns
// domain.ErrConflict. This is the at-most-one-winner guarantee for racing
// mutations on the same adventure.
type AdventureRepository interface {
	Create(ctx context.Context, a *domain.Adventure) (*domain.Adventure, error)
	FindByID(ctx context.Context, id string) (*domain.Adventure, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Adventure, error)
	// AppendNode appends node and sets status in one atomic write,
	// conditional on the stored node count equalling expectedLen.
	AppendNode(ctx context.Context, id string, node domain.Node, expectedLen int, status domain.AdventureStatus) error
	// TruncateNodes keeps nodes[0..keepThrough] inclusive and resets the
	// adventure to StatusActive, conditional on the stored node count.
	TruncateNodes(ctx context.Context, id string, keepThrough int, expectedLen int) error
	// SetImage records cover-image metadata after creation.
	SetImage(ctx context.Context, id string, image domain.ImageRef) error
	Delete(ctx context.Context, id string) error
}
