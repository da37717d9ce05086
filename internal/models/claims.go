package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Wallet permissions
	PermissionWalletRead  = "wallet:read"
	PermissionWalletTopup = "wallet:topup"

	// Gifting and unlock permissions
	PermissionGiftSend          = "gift:send"
	PermissionEntitlementRead   = "entitlement:read"
	PermissionEntitlementUnlock = "entitlement:unlock"

	// Creator permissions
	PermissionEarningsRead  = "earnings:read"
	PermissionPayoutRequest = "payout:request"
	PermissionConnectManage = "connect:manage"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	IsCreator   bool     `json:"is_creator"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role. The
// creator permissions are additionally gated on the IsCreator flag when
// tokens are issued.
func GetDefaultPermissions(role string) []string {
	switch role {
	case "admin":
		return []string{
			PermissionWalletRead,
			PermissionWalletTopup,
			PermissionGiftSend,
			PermissionEntitlementRead,
			PermissionEntitlementUnlock,
			PermissionEarningsRead,
			PermissionPayoutRequest,
			PermissionConnectManage,
			PermissionReadAdmin,
			PermissionWriteAdmin,
		}
	case "user":
		return []string{
			PermissionWalletRead,
			PermissionWalletTopup,
			PermissionGiftSend,
			PermissionEntitlementRead,
			PermissionEntitlementUnlock,
		}
	default:
		return []string{}
	}
}

// CreatorPermissions are granted on top of role defaults for creators.
func CreatorPermissions() []string {
	return []string{
		PermissionEarningsRead,
		PermissionPayoutRequest,
		PermissionConnectManage,
	}
}
