package dataset

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is the metadata of one genomic dataset as served by the content API.
// Field names on the wire are fixed; a field missing from a record decodes to
// its zero value and renders as empty text.
type Record struct {
	DatasetName           string `json:"dataset_name" db:"dataset_name"`
	Sex                   string `json:"sex" db:"sex"`
	MethylationCellCount  Count  `json:"methylation_cell_count" db:"methylation_cell_count"`
	SnATACCellCount       Count  `json:"snATAC_cell_count" db:"snatac_cell_count"`
	ABARegionsAcronym     string `json:"ABA_regions_acronym" db:"aba_regions_acronym"`
	Slice                 Text   `json:"slice" db:"slice"`
	DateAdded             string `json:"date_added" db:"date_added"`
	Description           string `json:"description" db:"description"`
	ABARegionsDescriptive string `json:"ABA_regions_descriptive" db:"aba_regions_descriptive"`
	SnATACDatasets        string `json:"snATAC_datasets" db:"snatac_datasets"`
}

// FieldNames lists the wire names of every Record field in declaration order.
var FieldNames = []string{
	"dataset_name", "sex", "methylation_cell_count", "snATAC_cell_count", "ABA_regions_acronym",
	"slice", "date_added", "description", "ABA_regions_descriptive", "snATAC_datasets",
}

// Count is a cell count that may be absent.
type Count struct {
	Int64 int64
	Valid bool
}

// NewCount returns a present count
func NewCount(v int64) Count {
	return Count{Int64: v, Valid: true}
}

// ParseCount accepts "", "1234" and "1234.0". Fractional values and values
// outside the int64 range are errors.
func ParseCount(s string) (Count, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Count{}, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NewCount(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return Count{}, fmt.Errorf("invalid count %q", s)
	}
	return NewCount(int64(f)), nil
}

// String renders the count, or "" when absent
func (c Count) String() string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatInt(c.Int64, 10)
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(c.Int64, 10)), nil
}

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Count{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseCount(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	parsed, err := ParseCount(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan implements sql.Scanner
func (c *Count) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = Count{}
	case int64:
		*c = NewCount(v)
	case float64:
		parsed, err := ParseCount(strconv.FormatFloat(v, 'f', -1, 64))
		if err != nil {
			return err
		}
		*c = parsed
	case []byte:
		parsed, err := ParseCount(string(v))
		if err != nil {
			return err
		}
		*c = parsed
	case string:
		parsed, err := ParseCount(v)
		if err != nil {
			return err
		}
		*c = parsed
	default:
		return fmt.Errorf("cannot scan %T into Count", src)
	}
	return nil
}

// Value implements driver.Valuer
func (c Count) Value() (driver.Value, error) {
	if !c.Valid {
		return nil, nil
	}
	return c.Int64, nil
}

// Text is a string field that the source may send as a JSON number.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid text value %s", data)
		}
		*t = Text(n.String())
	}
	return nil
}

// Scan implements sql.Scanner
func (t *Text) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(v)
	case []byte:
		*t = Text(v)
	case int64:
		*t = Text(strconv.FormatInt(v, 10))
	case float64:
		*t = Text(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("cannot scan %T into Text", src)
	}
	return nil
}

// Value implements driver.Valuer
func (t Text) Value() (driver.Value, error) {
	return string(t), nil
}

func (t Text) String() string {
	return string(t)
}
