// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package measurement

import "strings"

// Select returns a new Record with only the keys matching any pattern, in
// r's order. Patterns support wildcards:
//   - "prefix*" matches keys starting with "prefix"
//   - "*suffix" matches keys ending with "suffix"
//   - "*contains*" matches keys containing "contains"
//   - "exact" matches keys exactly
//
// No patterns selects nothing.
func (r *Record) Select(patterns ...string) *Record {
	return r.filter(patterns, true)
}

// Omit returns a new Record without the keys matching any pattern. It is the
// complement of Select and accepts the same patterns.
func (r *Record) Omit(patterns ...string) *Record {
	return r.filter(patterns, false)
}

func (r *Record) filter(patterns []string, keep bool) *Record {
	out := NewRecord()
	for k, v := range r.All() {
		if matchesAny(k, patterns) == keep {
			out.Set(k, v)
		}
	}
	return out
}

// ParsePatterns splits a comma separated pattern list, dropping blanks.
func ParsePatterns(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(key string, patterns []string) bool {
	for _, p := range patterns {
		if matchesPattern(key, p) {
			return true
		}
	}
	return false
}

// matchesPattern checks key against a pattern with any number of '*'
// wildcards, e.g. "adc_*_f" matches "adc_vb_f".
func matchesPattern(key, pattern string) bool {
	segments := strings.Split(pattern, "*")
	if len(segments) == 1 {
		return key == pattern
	}

	first, last := segments[0], segments[len(segments)-1]
	if !strings.HasPrefix(key, first) {
		return false
	}
	rest := key[len(first):]

	for _, seg := range segments[1 : len(segments)-1] {
		idx := strings.Index(rest, seg)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(seg):]
	}
	return strings.HasSuffix(rest, last)
}
