package principal

import (
	"context"

	"github.com/google/uuid"
)

const (
	RoleBusinessOwner = "business_owner"
	RoleBuyer         = "buyer"
	RoleSuperAdmin    = "super_admin"
)

// Principal is the authorization payload issued by the external auth layer.
// The negotiation core trusts it; it neither issues nor verifies tokens.
type Principal struct {
	UserID          uuid.UUID
	Role            string
	BusinessOwnerID uint
	// BuyerID is set only for buyer principals.
	BuyerID      uint
	BusinessName string
	Email        string
}

func (p *Principal) IsOwner() bool { return p != nil && p.Role == RoleBusinessOwner }
func (p *Principal) IsBuyer() bool { return p != nil && p.Role == RoleBuyer }

var principalKey = struct{}{}

func With(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func Get(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}
