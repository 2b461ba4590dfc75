package grid

import "github.com/odyssey-erp/odyssey-admin/internal/lookup"

// PageSizes are the limits offered under the list.
var PageSizes = []int{10, 20, 50, 100}

// ListView feeds pages/grid/list.html.
type ListView struct {
	Title     string
	Singular  string
	Base      string
	Columns   []ColumnHead
	Rows      []RowView
	Search    string
	Filters   []FilterView
	Filtered  bool
	Page      int
	HasPrev   bool
	HasNext   bool
	Limit     int
	Limits    []int
	CanCreate bool
	CanEdit   bool
	CanDelete bool
	Message   string
}

// ColumnHead is a list header cell.
type ColumnHead struct {
	Label   string
	Numeric bool
}

// RowView is one rendered list row.
type RowView struct {
	ID       string
	Cells    []CellView
	Selected bool
}

// CellView is one rendered list cell.
type CellView struct {
	Text    string
	Numeric bool
	Badge   bool
}

// FilterView is a filter select with its current value.
type FilterView struct {
	Key     string
	Label   string
	Value   string
	Options []lookup.Option
}

// DetailView feeds the detail templates.
type DetailView struct {
	Title      string
	Singular   string
	Base       string
	ID         string
	Label      string
	Rows       []DetailRow
	Record     any
	Related    any
	CanEdit    bool
	CanDelete  bool
	DeleteVerb string
	HasPrev    bool
	HasNext    bool
	PrevID     string
	NextID     string
}

// DetailRow is one labelled value.
type DetailRow struct {
	Label string
	Value string
}

// FormView feeds pages/grid/form.html.
type FormView struct {
	Title    string
	Singular string
	Base     string
	Action   string
	ID       string
	IsNew    bool
	Fields   []FieldView
	Message  string
}

// FieldView is one rendered input.
type FieldView struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Checked  bool
	Required bool
	Help     string
	Error    string
	Options  []lookup.Option
}

// DeleteView feeds pages/grid/delete.html.
type DeleteView struct {
	Title    string
	Singular string
	Base     string
	ID       string
	Label    string
	Verb     string
	Message  string
}

// ErrorView feeds pages/error.html.
type ErrorView struct {
	Status  int
	Message string
	Back    string
}
