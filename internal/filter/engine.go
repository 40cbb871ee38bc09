// Package filter applies client-side predicates to records for conditions
// the App Store Connect API cannot express server-side: numeric and version
// ranges, substring matches, and relative date windows.
package filter

import (
	"strings"
	"time"

	"github.com/plexatic/storeconnect/pkg/types"
)

// Op identifies a predicate operator.
type Op int

const (
	OpEquals Op = iota
	OpRangeMin
	OpRangeMax
	OpContains
	OpSinceDays
	OpAfter
	OpBefore
)

// Stage is one immutable predicate testing a single field. Stages combine
// with logical AND; there is no OR across stages. A multi-valued equals or
// contains stage matches when any of its values match, which covers the
// "field in set" case without OR support.
type Stage struct {
	field   string
	op      Op
	strs    []string
	num     float64
	version string
	days    int
	when    time.Time
}

// Equals matches when the stringified field equals any of the given values,
// case-insensitively.
func Equals(field string, values ...string) Stage {
	return Stage{field: field, op: OpEquals, strs: values}
}

// Contains matches when the field contains any of the given substrings,
// case-insensitively.
func Contains(field string, substrings ...string) Stage {
	return Stage{field: field, op: OpContains, strs: substrings}
}

// MinNumber matches when the field is numeric and >= min.
func MinNumber(field string, min float64) Stage {
	return Stage{field: field, op: OpRangeMin, num: min}
}

// MaxNumber matches when the field is numeric and <= max.
func MaxNumber(field string, max float64) Stage {
	return Stage{field: field, op: OpRangeMax, num: max}
}

// MinVersion matches when the field, read as a dotted version, is >= v.
func MinVersion(field, v string) Stage {
	return Stage{field: field, op: OpRangeMin, version: v, strs: []string{v}}
}

// MaxVersion matches when the field, read as a dotted version, is <= v.
func MaxVersion(field, v string) Stage {
	return Stage{field: field, op: OpRangeMax, version: v, strs: []string{v}}
}

// Since matches when the field timestamp is >= now minus the given number
// of days. The boundary instant itself passes.
func Since(field string, days int) Stage {
	return Stage{field: field, op: OpSinceDays, days: days}
}

// After matches when the field timestamp is strictly after t.
func After(field string, t time.Time) Stage {
	return Stage{field: field, op: OpAfter, when: t}
}

// Before matches when the field timestamp is strictly before t.
func Before(field string, t time.Time) Stage {
	return Stage{field: field, op: OpBefore, when: t}
}

// Engine evaluates an ordered list of stages against records. It holds no
// mutable state after construction and is safe for concurrent use.
type Engine struct {
	stages []Stage
	now    func() time.Time
}

// NewEngine builds an engine from the given stages. A nil or empty stage
// list yields an engine that passes everything.
func NewEngine(stages ...Stage) *Engine {
	return &Engine{stages: stages, now: time.Now}
}

// Apply reports whether the record passes every stage. A missing field,
// null value, or type mismatch fails the stage rather than erroring: the
// conservative choice is to exclude the record.
func (e *Engine) Apply(rec types.Record) bool {
	for _, st := range e.stages {
		if !st.match(rec, e.now()) {
			return false
		}
	}
	return true
}

// ApplyAll filters records, preserving input order. The result length is
// never greater than the input length.
func (e *Engine) ApplyAll(recs []types.Record) []types.Record {
	if len(e.stages) == 0 {
		return recs
	}
	out := make([]types.Record, 0, len(recs))
	for _, rec := range recs {
		if e.Apply(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of stages.
func (e *Engine) Len() int { return len(e.stages) }

func (st Stage) match(rec types.Record, now time.Time) bool {
	v, ok := rec.Lookup(st.field)
	if !ok {
		return false
	}

	switch st.op {
	case OpEquals:
		got := stringify(v)
		for _, want := range st.strs {
			if strings.EqualFold(got, want) {
				return true
			}
		}
		return false

	case OpContains:
		got := strings.ToLower(stringify(v))
		for _, want := range st.strs {
			if strings.Contains(got, strings.ToLower(want)) {
				return true
			}
		}
		return false

	case OpRangeMin, OpRangeMax:
		return st.matchRange(v)

	case OpSinceDays:
		t, ok := ParseTime(v)
		if !ok {
			return false
		}
		cutoff := now.AddDate(0, 0, -st.days)
		return !t.Before(cutoff)

	case OpAfter:
		t, ok := ParseTime(v)
		if !ok {
			return false
		}
		return t.After(st.when)

	case OpBefore:
		t, ok := ParseTime(v)
		if !ok {
			return false
		}
		return t.Before(st.when)
	}
	return false
}

func (st Stage) matchRange(v any) bool {
	// Version-valued bound: compare dotted versions.
	if st.version != "" {
		s, ok := v.(string)
		if !ok {
			return false
		}
		cmp := compareVersions(s, st.version)
		if st.op == OpRangeMin {
			return cmp >= 0
		}
		return cmp <= 0
	}

	n, ok := ParseNumber(v)
	if !ok {
		return false
	}
	if st.op == OpRangeMin {
		return n >= st.num
	}
	return n <= st.num
}
