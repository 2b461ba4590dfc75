package http

import (
	"context"

	"github.com/odyssey-erp/odyssey-admin/internal/finance/paymentterms"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
)

// Getter reads one record by id. *api.Resource satisfies it.
type Getter[T any] interface {
	Get(ctx context.Context, id string) (T, error)
}

// TermsFrom resolves payment terms through the payment terms API.
func TermsFrom(terms Getter[paymentterms.PaymentTerm]) func(ctx context.Context, id string) (trade.Term, error) {
	return func(ctx context.Context, id string) (trade.Term, error) {
		pt, err := terms.Get(ctx, id)
		if err != nil {
			return trade.Term{}, err
		}
		return pt.Term(), nil
	}
}
