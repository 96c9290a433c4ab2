package access

import "context"

// Require errors with ErrUnauthorized unless address holds cap.
func Require(ctx context.Context, repo Repository, cap Capability, address string) error {
	ok, err := repo.HasCapability(ctx, cap, address)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// RequireAny errors with ErrUnauthorized unless address holds at least one
// of the listed capabilities.
func RequireAny(ctx context.Context, repo Repository, address string, caps ...Capability) error {
	for _, c := range caps {
		ok, err := repo.HasCapability(ctx, c, address)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrUnauthorized
}
