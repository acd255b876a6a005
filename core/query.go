package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"
)

// The backend is a table-oriented store: every read is a single-table SELECT
// bounded by equality/range filters, an optional ordering and an optional
// limit. Domain code never sees SQL; it talks to QueryService and decodes
// Records with the typed getters below.

type FilterOp string

const (
	FilterEq      FilterOp = "="
	FilterGte     FilterOp = ">="
	FilterLte     FilterOp = "<="
	FilterNotNull FilterOp = "IS NOT NULL"
)

type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Op: FilterEq, Value: value}
}

func Gte(field string, value interface{}) Filter {
	return Filter{Field: field, Op: FilterGte, Value: value}
}

func Lte(field string, value interface{}) Filter {
	return Filter{Field: field, Op: FilterLte, Value: value}
}

func NotNull(field string) Filter {
	return Filter{Field: field, Op: FilterNotNull}
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

type Query struct {
	Table   string
	Filters []Filter
	Order   *DBOrdering
	Limit   int
}

type (
	// QueryService is the seam to the hosted table store.
	QueryService interface {
		Select(ctx context.Context, q Query) ([]Record, error)
		Insert(ctx context.Context, table string, rec Record) (Record, error)
		Update(ctx context.Context, table, id string, changes Record) error
	}

	// Record is one row as returned by the backend; values are untyped
	// pass-throughs of whatever the driver produced.
	Record map[string]interface{}
)

// String returns the value at key as a string; "" when absent or not text.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// NullString returns the value at key as a nullable string; invalid when the
// column is absent, NULL or empty.
func (r Record) NullString(key string) null.String {
	s := r.String(key)
	return null.NewString(s, s != "")
}

func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func (r Record) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Time returns the value at key as a timestamp. ok is false when the column
// is absent, NULL or not a recognizable timestamp.
func (r Record) Time(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
	case []byte:
		if t, err := time.Parse(time.RFC3339, string(v)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

func (f Filter) String() string {
	if f.Op == FilterNotNull {
		return f.Field + " IS NOT NULL"
	}
	return fmt.Sprintf("%s %s %v", f.Field, f.Op, f.Value)
}
