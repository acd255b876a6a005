// Package memoryqs provides an in-memory core.QueryService for tests.
// Tables are plain record slices guarded by a RWMutex.
package memoryqs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tmukana/uongozi/core"
)

var ErrNotFound = errors.New("record not found")

type Service struct {
	mu       sync.RWMutex
	tables   map[string][]core.Record
	failures map[string]error
}

var _ core.QueryService = (*Service)(nil)

func Open() *Service {
	return &Service{
		tables:   make(map[string][]core.Record),
		failures: make(map[string]error),
	}
}

// Load seeds records into a table.
func (s *Service) Load(table string, recs ...core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		s.tables[table] = append(s.tables[table], rec.Clone())
	}
}

// FailWith makes every subsequent operation on table return err.
// Pass nil to clear.
func (s *Service) FailWith(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, table)
		return
	}
	s.failures[table] = err
}

func (s *Service) Select(ctx context.Context, q core.Query) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.failures[q.Table]; err != nil {
		return nil, err
	}

	var out []core.Record
	for _, rec := range s.tables[q.Table] {
		if matchesAll(rec, q.Filters) {
			out = append(out, rec.Clone())
		}
	}

	if q.Order != nil {
		field, asc := q.Order.Field, q.Order.Ascending
		sort.SliceStable(out, func(i, j int) bool {
			c, ok := compare(out[i][field], out[j][field])
			if !ok {
				return false
			}
			if asc {
				return c < 0
			}
			return c > 0
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Service) Insert(ctx context.Context, table string, rec core.Record) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[table]; err != nil {
		return nil, err
	}

	saved := rec.Clone()
	if saved.String("id") == "" {
		saved["id"] = uuid.New().String()
	}
	if _, ok := saved["created_at"]; !ok {
		saved["created_at"] = time.Now().UTC()
	}
	s.tables[table] = append(s.tables[table], saved)
	return saved.Clone(), nil
}

func (s *Service) Update(ctx context.Context, table, id string, changes core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[table]; err != nil {
		return err
	}

	for _, rec := range s.tables[table] {
		if rec.String("id") == id {
			for k, v := range changes {
				rec[k] = v
			}
			return nil
		}
	}
	return ErrNotFound
}

func matchesAll(rec core.Record, filters []core.Filter) bool {
	for _, f := range filters {
		if !matches(rec, f) {
			return false
		}
	}
	return true
}

func matches(rec core.Record, f core.Filter) bool {
	val, ok := rec[f.Field]
	switch f.Op {
	case core.FilterNotNull:
		if !ok || val == nil {
			return false
		}
		if s, isStr := val.(string); isStr && s == "" {
			return false
		}
		return true
	case core.FilterEq:
		c, ok := compare(val, f.Value)
		if ok {
			return c == 0
		}
		return looseEqual(val, f.Value)
	case core.FilterGte:
		c, ok := compare(val, f.Value)
		return ok && c >= 0
	case core.FilterLte:
		c, ok := compare(val, f.Value)
		return ok && c <= 0
	}
	return false
}

func looseEqual(a, b interface{}) bool {
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			return ab == bb
		}
	}
	return a == b
}

// compare orders two record values of the same kind: timestamps, numbers or
// strings. ok is false when the values are not comparable.
func compare(a, b interface{}) (int, bool) {
	if at, aok := asTime(a); aok {
		bt, bok := asTime(b)
		if !bok {
			return 0, false
		}
		switch {
		case at.Before(bt):
			return -1, true
		case at.After(bt):
			return 1, true
		}
		return 0, true
	}
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if as, aok := a.(string); aok {
		bs, bok := b.(string)
		if !bok {
			return 0, false
		}
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
