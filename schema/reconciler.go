// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package schema

import (
	"fmt"
	"strings"

	"github.com/poiesic/policysync/core"
)

// Rule maps one raw header variant onto a canonical field name.
type Rule struct {
	Source    string
	Canonical string
}

// Table is an ordered set of rename rules. Earlier rules win when two rules
// would claim the same raw header. New dataset revisions are supported by
// appending rules, never by branching on format heuristics.
type Table []Rule

// Map is the resolved mapping for one observed header set: raw header name
// to canonical field name. It is recomputed per ingestion call and never
// persisted.
type Map struct {
	renames  map[string]string
	unmapped []string
}

// Reconcile resolves the observed raw headers against the rule table.
// Headers not matched by any rule are collected as unmapped and dropped
// during normalization. If no header resolves to the business key
// (policy_number), the whole batch is unprocessable and a schema error is
// returned.
func (t Table) Reconcile(headers []string) (*Map, error) {
	m := &Map{renames: make(map[string]string, len(headers))}

	keyResolved := false
	for _, header := range headers {
		canonical, ok := t.match(header)
		if !ok {
			m.unmapped = append(m.unmapped, header)
			continue
		}
		m.renames[header] = canonical
		if canonical == core.FieldPolicyNumber {
			keyResolved = true
		}
	}

	if !keyResolved {
		return nil, fmt.Errorf("%w: headers %q", ErrPolicyNumberUnresolved, headers)
	}

	return m, nil
}

// match finds the first rule whose source matches the header, ignoring case
// and surrounding whitespace.
func (t Table) match(header string) (string, bool) {
	needle := normalizeHeader(header)
	for _, rule := range t {
		if normalizeHeader(rule.Source) == needle {
			return rule.Canonical, true
		}
	}
	return "", false
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.Join(strings.Fields(h), " "))
}

// Rename applies the mapping to one raw record. Unmapped source fields are
// dropped; canonical fields absent from the row are simply not present in
// the result.
func (m *Map) Rename(raw core.RawRecord) map[string]string {
	out := make(map[string]string, len(m.renames))
	for source, canonical := range m.renames {
		if value, ok := raw[source]; ok {
			out[canonical] = value
		}
	}
	return out
}

// Unmapped returns the raw headers no rule claimed, for logging.
func (m *Map) Unmapped() []string {
	return m.unmapped
}
