package dataset

// SortDirection is the order of a sorted column
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection returns SortAsc for "asc" and SortDesc for anything else
func ParseSortDirection(s string) SortDirection {
	if s == string(SortAsc) {
		return SortAsc
	}
	return SortDesc
}

// Glyphs shown in the expand-control cell
const (
	GlyphPlus  = "plus"
	GlyphMinus = "minus"
)

// ColumnSpec describes one column of the dataset table.
type ColumnSpec struct {
	// Field is the record field shown in the column; empty for the control column.
	Field    string
	Title    string
	Sortable bool
	Centered bool
	// Control marks the expand/collapse cell.
	Control      bool
	DefaultGlyph string
}

const (
	// DefaultSortColumn indexes date_added in DatasetColumns.
	DefaultSortColumn    = 7
	DefaultSortDirection = SortDesc
	PageLength           = 25
)

// DatasetColumns returns the column set of the dataset table, in display order.
func DatasetColumns() []ColumnSpec {
	return []ColumnSpec{
		{Control: true, DefaultGlyph: GlyphPlus},
		{Field: "dataset_name", Title: "Dataset", Sortable: true},
		{Field: "sex", Title: "Sex", Sortable: true, Centered: true},
		{Field: "methylation_cell_count", Title: "Methylation cells", Sortable: true, Centered: true},
		{Field: "snATAC_cell_count", Title: "snATAC cells", Sortable: true, Centered: true},
		{Field: "ABA_regions_acronym", Title: "ABA region(s)", Sortable: true, Centered: true},
		{Field: "slice", Title: "Slice", Sortable: true, Centered: true},
		{Field: "date_added", Title: "Date added", Sortable: true, Centered: true},
	}
}

// FieldText returns the display text of a record field by its wire name.
// Unknown fields render as "".
func (r Record) FieldText(field string) string {
	switch field {
	case "dataset_name":
		return r.DatasetName
	case "sex":
		return r.Sex
	case "methylation_cell_count":
		return r.MethylationCellCount.String()
	case "snATAC_cell_count":
		return r.SnATACCellCount.String()
	case "ABA_regions_acronym":
		return r.ABARegionsAcronym
	case "slice":
		return r.Slice.String()
	case "date_added":
		return r.DateAdded
	case "description":
		return r.Description
	case "ABA_regions_descriptive":
		return r.ABARegionsDescriptive
	case "snATAC_datasets":
		return r.SnATACDatasets
	}
	return ""
}

// FieldCount returns the count behind a numeric field, if the field is numeric.
func (r Record) FieldCount(field string) (Count, bool) {
	switch field {
	case "methylation_cell_count":
		return r.MethylationCellCount, true
	case "snATAC_cell_count":
		return r.SnATACCellCount, true
	}
	return Count{}, false
}
