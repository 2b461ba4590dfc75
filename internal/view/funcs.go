package view

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

// DateLayout is the wire and form format for calendar dates.
const DateLayout = "2006-01-02"

// Formatter renders numbers and dates for one locale.
// Grid cells use it directly; templates reach it through Funcs.
type Formatter struct {
	p *message.Printer
}

// NewFormatter parses locale, falling back to English.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return Formatter{p: message.NewPrinter(tag)}
}

// Money renders v with two decimals and locale grouping.
func (f Formatter) Money(v any) string {
	return f.printer().Sprint(number.Decimal(toFloat(v), number.Scale(2)))
}

// Number renders v with locale grouping.
func (f Formatter) Number(v any) string {
	return f.printer().Sprint(number.Decimal(toFloat(v)))
}

// Date renders a calendar date, or nothing for the zero time.
func (f Formatter) Date(v any) string {
	return formatDate(v)
}

func (f Formatter) printer() *message.Printer {
	if f.p == nil {
		return message.NewPrinter(language.English)
	}
	return f.p
}

// Funcs returns the template helpers bound to locale.
func Funcs(locale string) template.FuncMap {
	f := NewFormatter(locale)
	return template.FuncMap{
		"money":      f.Money,
		"number":     f.Number,
		"formatDate": formatDate,
		"inputDate":  inputDate,
		"add":        func(a, b int) int { return a + b },
		"lower":      strings.ToLower,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"join": strings.Join,
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
		"can": rbac.Allowed,
		"statusClass": func(status string) string {
			switch strings.ToLower(status) {
			case "paid", "active", "posted", "completed":
				return "ok"
			case "overdue", "cancelled", "void", "inactive":
				return "bad"
			case "partial", "open", "draft":
				return "warn"
			default:
				return "neutral"
			}
		},
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case decimal.Decimal:
		return n.InexactFloat64()
	case *decimal.Decimal:
		if n == nil {
			return 0
		}
		return n.InexactFloat64()
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return 0
		}
		return d.InexactFloat64()
	default:
		return 0
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	case string:
		return t
	default:
		return ""
	}
}

func inputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
