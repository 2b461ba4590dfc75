// Package purchases wires the purchase transaction screen. Lines default to
// the product cost and suppliers stand in for customers.
package purchases

import (
	"context"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/catalog/products"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/payments"
	"github.com/odyssey-erp/odyssey-admin/internal/finance/paymentterms"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/parties/suppliers"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
	tradehttp "github.com/odyssey-erp/odyssey-admin/internal/trade/http"
)

// NewResource binds the purchases collection.
func NewResource(client *api.Client) *api.Resource[trade.Document, trade.DocumentInput] {
	return api.NewResource[trade.Document, trade.DocumentInput](client, "/purchases")
}

// Sources are the records a purchase draft refers to.
type Sources struct {
	Terms     tradehttp.Getter[paymentterms.PaymentTerm]
	Suppliers tradehttp.Getter[suppliers.Supplier]
	Products  tradehttp.Getter[products.Product]
}

// Config describes the purchases screen.
func Config() tradehttp.Config {
	return tradehttp.Config{
		Kind:        trade.KindPurchase,
		Entity:      "purchases",
		Title:       "Purchases",
		Singular:    "Purchase",
		Base:        "/purchases",
		View:        rbac.PurchasesView,
		Edit:        rbac.PurchasesEdit,
		PartyLabel:  "Supplier",
		PartyLookup: lookup.Suppliers,
		DeleteVerb:  "Void",
		Invalidates: []string{lookup.Suppliers, lookup.Products, payments.OpenAccounts},
	}
}

// Resolve builds the draft resolvers. Purchases are priced at cost.
func Resolve(src Sources) tradehttp.Resolvers {
	return tradehttp.Resolvers{
		Term: tradehttp.TermsFrom(src.Terms),
		PartyTerm: func(ctx context.Context, id string) (string, error) {
			s, err := src.Suppliers.Get(ctx, id)
			return s.PaymentTermID, err
		},
		Product: func(ctx context.Context, id string) (tradehttp.ProductDefaults, error) {
			p, err := src.Products.Get(ctx, id)
			return tradehttp.ProductDefaults{UnitPrice: p.Cost, TaxPercent: p.TaxPercent}, err
		},
	}
}

// NewHandler builds the purchases screen.
func NewHandler(backend *api.Resource[trade.Document, trade.DocumentInput], src Sources, deps tradehttp.Deps) *tradehttp.Handler {
	return tradehttp.New(Config(), backend, Resolve(src), deps)
}
