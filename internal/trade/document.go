package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLine is a stored line with its computed breakdown.
type DocumentLine struct {
	Line
	ProductName string    `json:"product_name,omitempty"`
	Totals      LineTotal `json:"totals"`
}

// Document is a sale or purchase as returned by the ERP API.
type Document struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Kind          Kind            `json:"kind"`
	PartyID       string          `json:"party_id"`
	PartyName     string          `json:"party_name"`
	Date          time.Time       `json:"date"`
	Reference     string          `json:"reference,omitempty"`
	Status        string          `json:"status"`
	Lines         []DocumentLine  `json:"lines"`
	Discount      Discount        `json:"discount"`
	Term          Term            `json:"term"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Totals        Totals          `json:"totals"`
	Settlement    Settlement      `json:"settlement"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Draft returns the editable part of the document.
func (doc Document) Draft() Draft {
	lines := make([]Line, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		lines = append(lines, l.Line)
	}
	return Draft{
		Kind:          doc.Kind,
		PartyID:       doc.PartyID,
		Date:          doc.Date,
		Reference:     doc.Reference,
		Lines:         lines,
		Discount:      doc.Discount,
		Term:          doc.Term,
		DownPayment:   doc.DownPayment,
		PaymentMethod: doc.PaymentMethod,
		Notes:         doc.Notes,
	}
}

// DocumentInput is the payload sent when a draft is saved. The API
// recomputes the quote and rejects the submit when it disagrees.
type DocumentInput struct {
	DraftID string `json:"draft_id"`
	Draft
	Quote Quote `json:"quote"`
}

// NewInput prepares a draft for submission.
func NewInput(draftID string, d Draft) DocumentInput {
	return DocumentInput{DraftID: draftID, Draft: d, Quote: Compute(d)}
}
