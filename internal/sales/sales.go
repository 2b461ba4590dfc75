// Package sales wires the sale transaction screen: customers as parties and
// product list prices as line defaults.
package sales

import (
	"context"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/payments"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/paymentterms"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/parties/customers"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
	tradehttp "github.com/odyssey-erp/odyssey-admin/internal/trade/http"
)

// NewResource binds the sales collection.
func NewResource(client *api.Client) *api.Resource[trade.Document, trade.DocumentInput] {
	return api.NewResource[trade.Document, trade.DocumentInput](client, "/sales")
}

// Sources are the records a sale draft refers to.
type Sources struct {
	Terms     tradehttp.Getter[paymentterms.PaymentTerm]
	Customers tradehttp.Getter[customers.Customer]
	Products  tradehttp.Getter[products.Product]
}

// Config describes the sales screen.
func Config() tradehttp.Config {
	return tradehttp.Config{
		Kind:        trade.KindSale,
		Entity:      "sales",
		Title:       "Sales",
		Singular:    "Sale",
		Base:        "/sales",
		View:        rbac.SalesView,
		Edit:        rbac.SalesEdit,
		PartyLabel:  "Customer",
		PartyLookup: lookup.Customers,
		DeleteVerb:  "Cancel",
		Invalidates: []string{lookup.Customers, lookup.Products, payments.OpenAccounts},
	}
}

// Resolve builds the draft resolvers: a customer's default term and a product's list price.
func Resolve(src Sources) tradehttp.Resolvers {
	return tradehttp.Resolvers{
		Term: tradehttp.TermsFrom(src.Terms),
		PartyTerm: func(ctx context.Context, id string) (string, error) {
			c, err := src.Customers.Get(ctx, id)
			return c.PaymentTermID, err
		},
		Product: func(ctx context.Context, id string) (tradehttp.ProductDefaults, error) {
			p, err := src.Products.Get(ctx, id)
			return tradehttp.ProductDefaults{UnitPrice: p.Price, TaxPercent: p.TaxPercent}, err
		},
	}
}

// NewHandler builds the sales screen.
func NewHandler(backend *api.Resource[trade.Document, trade.DocumentInput], src Sources, deps tradehttp.Deps) *tradehttp.Handler {
	return tradehttp.New(Config(), backend, Resolve(src), deps)
}
