package rbac

import "github.com/influencer-marketplace/webclient/internal/models"

// Permission constants
const (
	PermCreateCampaign = "create_campaign"
	PermManageCampaign = "manage_campaign"
	PermApplyCampaign  = "apply_campaign"
	PermSaveCampaign   = "save_campaign"
	PermEditProfile    = "edit_profile"
	PermModerate       = "moderate"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	models.RoleBrand: {
		PermCreateCampaign, PermManageCampaign, PermEditProfile,
	},
	models.RoleInfluencer: {
		PermApplyCampaign, PermSaveCampaign, PermEditProfile,
		// Influencer CANNOT: PermCreateCampaign, PermManageCampaign
	},
	models.RoleAdmin: {
		PermManageCampaign, PermEditProfile, PermModerate,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// Viewer is the signed-in user looking at a page. The zero value is an anonymous visitor.
type Viewer struct {
	UserID string
	Role   string

	// ProfileID is the viewer's brand or influencer profile id, when known.
	ProfileID string
}

func (v Viewer) Anonymous() bool {
	return v.UserID == ""
}

// CanEditOwned reports whether v may edit a resource owned by ownerUserID.
// Admins may edit anything; everyone else only their own records.
func (v Viewer) CanEditOwned(ownerUserID string) bool {
	if v.Anonymous() || !HasPermission(v.Role, PermEditProfile) {
		return false
	}
	return v.Role == models.RoleAdmin || (ownerUserID != "" && v.UserID == ownerUserID)
}

// CanManageCampaign reports whether v may edit or delete a campaign of brandID.
func (v Viewer) CanManageCampaign(brandID string) bool {
	if v.Anonymous() || !HasPermission(v.Role, PermManageCampaign) {
		return false
	}
	return v.Role == models.RoleAdmin || (brandID != "" && v.ProfileID == brandID)
}

func (v Viewer) CanCreateCampaign() bool {
	return !v.Anonymous() && HasPermission(v.Role, PermCreateCampaign)
}

func (v Viewer) CanApply() bool {
	return !v.Anonymous() && HasPermission(v.Role, PermApplyCampaign)
}

func (v Viewer) CanSave() bool {
	return !v.Anonymous() && HasPermission(v.Role, PermSaveCampaign)
}
