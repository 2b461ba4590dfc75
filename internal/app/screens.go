package app

import (
	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/catalog/brands"
	"github.com/odyssey-erp/odyssey-admin/internal/catalog/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-admin/internal/catalog/units"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/accounts"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/payments"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/paymentterms"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/parties/customers"
	"github.com/odyssey-erp/odyssey-admin/internal/parties/suppliers"
	"github.com/odyssey-erp/odyssey-admin/internal/parties/users"
	"github.com/odyssey-erp/odyssey-admin/internal/purchases"
	"github.com/odyssey-erp/odyssey-admin/internal/sales"
	tradehttp "github.com/odyssey-erp/odyssey-admin/internal/trade/http"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// Resources are the ERP API collections the console talks to.
type Resources struct {
	Categories   *api.Resource[categories.Category, categories.CategoryInput]
	Brands       *api.Resource[brands.Brand, brands.BrandInput]
	Units        *api.Resource[units.Unit, units.UnitInput]
	Products     *api.Resource[products.Product, products.ProductInput]
	Customers    *api.Resource[customers.Customer, customers.CustomerInput]
	Suppliers    *api.Resource[suppliers.Supplier, suppliers.SupplierInput]
	Users        *api.Resource[users.User, users.UserInput]
	PaymentTerms *api.Resource[paymentterms.PaymentTerm, paymentterms.PaymentTermInput]
	Payments     *api.Resource[payments.Payment, payments.PaymentInput]
	Receivables  *api.Resource[accounts.Account, accounts.AccountInput]
	Payables     *api.Resource[accounts.Account, accounts.AccountInput]
}

// NewResources binds every collection to client.
func NewResources(client *api.Client) Resources {
	return Resources{
		Categories:   categories.NewResource(client),
		Brands:       brands.NewResource(client),
		Units:        units.NewResource(client),
		Products:     products.NewResource(client),
		Customers:    customers.NewResource(client),
		Suppliers:    suppliers.NewResource(client),
		Users:        users.NewResource(client),
		PaymentTerms: paymentterms.NewResource(client),
		Payments:     payments.NewResource(client),
		Receivables:  accounts.NewResource(client, accounts.Receivable),
		Payables:     accounts.NewResource(client, accounts.Payable),
	}
}

// RegisterLookups adds every shared select list to the lookup cache.
func RegisterLookups(deps grid.Deps, res Resources) {
	svc := deps.Lookups
	categories.Register(svc, res.Categories)
	brands.Register(svc, res.Brands)
	units.Register(svc, res.Units)
	products.Register(svc, res.Products)
	customers.Register(svc, res.Customers)
	suppliers.Register(svc, res.Suppliers)
	paymentterms.Register(svc, res.PaymentTerms)
	accounts.RegisterOpenAccounts(svc, res.Receivables, res.Payables)
}

// BuildScreens assembles every console area.
func BuildScreens(client *api.Client, res Resources, f view.Formatter, deps tradehttp.Deps) []Screen {
	g := deps.Deps
	screens := []Screen{
		{Base: "/catalog/products", Mount: grid.New(products.Screen(res.Products, f), g).MountRoutes},
		{Base: "/catalog/categories", Mount: grid.New(categories.Screen(res.Categories, f), g).MountRoutes},
		{Base: "/catalog/brands", Mount: grid.New(brands.Screen(res.Brands), g).MountRoutes},
		{Base: "/catalog/units", Mount: grid.New(units.Screen(res.Units), g).MountRoutes},
		{Base: "/parties/customers", Mount: grid.New(customers.Screen(res.Customers, f), g).MountRoutes},
		{Base: "/parties/suppliers", Mount: grid.New(suppliers.Screen(res.Suppliers, f), g).MountRoutes},
		{Base: "/parties/users", Mount: grid.New(users.Screen(res.Users, f), g).MountRoutes},
		{Base: "/finance/payment-terms", Mount: grid.New(paymentterms.Screen(res.PaymentTerms), g).MountRoutes},
		{Base: "/finance/payments", Mount: grid.New(payments.Screen(res.Payments, f), g).MountRoutes},
		{Base: "/finance/receivables", Mount: accounts.NewHandler(accounts.Receivable, res.Receivables, res.Payments, f, g).MountRoutes},
		{Base: "/finance/payables", Mount: accounts.NewHandler(accounts.Payable, res.Payables, res.Payments, f, g).MountRoutes},
	}

	salesHandler := sales.NewHandler(sales.NewResource(client), sales.Sources{
		Terms:     res.PaymentTerms,
		Customers: res.Customers,
		Products:  res.Products,
	}, deps)
	purchasesHandler := purchases.NewHandler(purchases.NewResource(client), purchases.Sources{
		Terms:     res.PaymentTerms,
		Suppliers: res.Suppliers,
		Products:  res.Products,
	}, deps)
	return append(screens,
		Screen{Base: "/sales", Mount: salesHandler.MountRoutes},
		Screen{Base: "/purchases", Mount: purchasesHandler.MountRoutes},
	)
}
