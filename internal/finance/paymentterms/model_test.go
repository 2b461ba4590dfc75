package paymentterms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/trade"
)

func TestDecodeNormalisesByKind(t *testing.T) {
	cash, err := decode(grid.Values{"code": "C", "name": "Cash", "kind": "cash", "due_days": "30", "installments": "3"})
	require.NoError(t, err)
	assert.Zero(t, cash.DueDays)
	assert.Zero(t, cash.Installments)

	inst, err := decode(grid.Values{"code": "I3", "name": "3x", "kind": "installment", "installments": "3"})
	require.NoError(t, err)
	assert.Equal(t, trade.DefaultIntervalDays, inst.IntervalDays)
}

func TestDecodeRejectsIncompleteTerms(t *testing.T) {
	_, err := decode(grid.Values{"kind": "credit", "due_days": "0"})
	var problems grid.Problems
	require.True(t, errors.As(err, &problems))
	assert.Contains(t, problems, "due_days")

	_, err = decode(grid.Values{"kind": "installment", "installments": "x"})
	require.True(t, errors.As(err, &problems))
	assert.Equal(t, "must be a whole number", problems["installments"])
}

func TestKindMustBeKnown(t *testing.T) {
	problems := grid.Problems{}
	grid.Check(grid.NewValidator(), PaymentTermInput{Code: "X", Name: "X", Kind: "barter"}, problems)
	assert.Equal(t, "must be one of cash, credit, installment", problems["kind"])
}

func TestDescribeAndTerm(t *testing.T) {
	p := PaymentTerm{ID: "t1", Name: "3x", Kind: trade.TermInstallment, Installments: 3, DueDays: 7}
	assert.Equal(t, "3 installments every 30 days, starting after 7 days", Describe(p))
	assert.Equal(t, "Due after 14 days", Describe(PaymentTerm{Kind: trade.TermCredit, DueDays: 14}))
	assert.Equal(t, trade.Term{ID: "t1", Name: "3x", Kind: trade.TermInstallment, Installments: 3, DueDays: 7}, p.Term())
}
