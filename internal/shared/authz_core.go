package shared

// Core platform permissions. Names are flat dotted strings; the dot is a
// display grouping convention, never a wildcard.
const (
	PermCompanyView = "company.view"
	PermCompanyEdit = "company.edit"

	PermCorrespondenceView = "correspondence.view"
	PermCorrespondenceEdit = "correspondence.edit"

	PermProceedingView      = "proceeding.view"
	PermProceedingEdit      = "proceeding.edit"
	PermProceedingAttachBox = "proceeding.attach-box"

	PermDocumentView = "document.view"
	PermDocumentEdit = "document.edit"

	PermRetentionView = "retention.view"
	PermRetentionEdit = "retention.edit"

	PermUserView        = "user.view"
	PermUserEdit        = "user.edit"
	PermUserImpersonate = "user.impersonate"

	PermRoleView = "role.view"
	PermRoleEdit = "role.edit"

	PermPermissionView = "permission.view"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermCompanyView,
		PermCompanyEdit,
		PermCorrespondenceView,
		PermCorrespondenceEdit,
		PermProceedingView,
		PermProceedingEdit,
		PermProceedingAttachBox,
		PermDocumentView,
		PermDocumentEdit,
		PermRetentionView,
		PermRetentionEdit,
		PermUserView,
		PermUserEdit,
		PermUserImpersonate,
		PermRoleView,
		PermRoleEdit,
		PermPermissionView,
	}
}
