package record

import (
	"fmt"
	"strings"
)

// A Header is the ordered list of CSV column names.  It is fixed once built.
type Header struct {
	keys  []string
	index map[string]int
}

// NewHeader builds a header from the given keys, which must be distinct.
func NewHeader(keys []string) *Header {
	h := &Header{
		keys:  append([]string(nil), keys...),
		index: make(map[string]int, len(keys)),
	}
	for i, k := range h.keys {
		h.index[k] = i
	}
	return h
}

// HeaderOf returns the header made of the keys of rec, in order.
func HeaderOf(rec *Record) *Header {
	return NewHeader(rec.Keys())
}

// Keys returns a copy of the column names.
func (h *Header) Keys() []string {
	return append([]string(nil), h.keys...)
}

func (h *Header) Len() int {
	return len(h.keys)
}

// A SchemaPolicy decides what happens when a record does not have exactly the
// keys of the header.
type SchemaPolicy uint8

const (
	// Strict requires the record keys to be the header keys, in any order.
	Strict SchemaPolicy = iota

	// Fill leaves cells of missing keys empty and rejects extra keys.
	Fill

	// Align leaves cells of missing keys empty and drops extra keys.
	Align
)

var policyNames = [...]string{
	Strict: "strict",
	Fill:   "fill",
	Align:  "align",
}

func (p SchemaPolicy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("SchemaPolicy(%d)", uint8(p))
}

// ParseSchemaPolicy returns the policy with the given name.
func ParseSchemaPolicy(name string) (SchemaPolicy, error) {
	for i, n := range policyNames {
		if strings.EqualFold(n, name) {
			return SchemaPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("invalid schema policy %q (use strict, fill or align)", name)
}

// A MismatchError lists the keys that make a record break a SchemaPolicy.
// Missing is in header order, Extra in record order.
type MismatchError struct {
	Missing []string
	Extra   []string
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing keys "+quoteKeys(e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected keys "+quoteKeys(e.Extra))
	}
	return "record does not match header: " + strings.Join(parts, ", ")
}

func quoteKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = fmt.Sprintf("%q", k)
	}
	return strings.Join(quoted, ", ")
}

// Project returns the cells of rec in header order, appending them to
// row[:0].  Depending on the policy, keys missing from rec or keys not in
// the header make it return a *MismatchError.
func (h *Header) Project(rec *Record, policy SchemaPolicy, row []string) ([]string, error) {
	row = row[:0]
	var missing, extra []string
	for _, k := range h.keys {
		f, ok := rec.Get(k)
		if !ok {
			missing = append(missing, k)
		}
		row = append(row, f.Cell())
	}
	if policy != Align {
		for _, f := range rec.Fields() {
			if _, ok := h.index[f.Key]; !ok {
				extra = append(extra, f.Key)
			}
		}
	}
	switch {
	case policy == Strict && (len(missing) > 0 || len(extra) > 0):
		return row, &MismatchError{Missing: missing, Extra: extra}
	case policy == Fill && len(extra) > 0:
		return row, &MismatchError{Extra: extra}
	}
	return row, nil
}
