package rbac

// Permission names granted by the ERP API at login.
const (
	CatalogView    = "catalog.view"
	CatalogEdit    = "catalog.edit"
	PartiesView    = "parties.view"
	PartiesEdit    = "parties.edit"
	UsersManage    = "users.manage"
	SalesView      = "sales.view"
	SalesEdit      = "sales.edit"
	PurchasesView  = "purchases.view"
	PurchasesEdit  = "purchases.edit"
	FinanceView    = "finance.view"
	FinanceEdit    = "finance.edit"
	ActivityView   = "activity.view"
	AllPermissions = "*"
)
