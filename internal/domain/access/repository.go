package access

import "context"

type Repository interface {
	HasCapability(ctx context.Context, cap Capability, address string) (bool, error)
	// Grant is idempotent: re-granting an existing capability is a no-op.
	Grant(ctx context.Context, cap Capability, address string) error
}
