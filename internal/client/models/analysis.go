package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// AnalysisResult is the document returned by the analysis service. The
// client treats it as opaque and only peeks at a few well-known keys.
type AnalysisResult json.RawMessage

// MarshalJSON keeps the document byte-for-byte.
func (a AnalysisResult) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return a, nil
}

// UnmarshalJSON stores a copy of b.
func (a *AnalysisResult) UnmarshalJSON(b []byte) error {
	*a = append((*a)[:0], b...)
	return nil
}

// ParticipantProfile is the part of a psychological profile the client persists.
type ParticipantProfile struct {
	Name    string
	Role    string
	Profile json.RawMessage
}

func (a AnalysisResult) object() map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(a, &m); err != nil {
		return nil
	}
	return m
}

// Summary returns the "summary" field when it is a string.
func (a AnalysisResult) Summary() string {
	m := a.object()
	if m == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(m["summary"], &s); err != nil {
		return ""
	}
	return s
}

// Field returns the raw value of a top-level key, or nil.
func (a AnalysisResult) Field(key string) json.RawMessage {
	return a.object()[key]
}

// Sections lists the top-level keys present in the document, in a stable
// order for the well-known ones followed by any others alphabetically.
func (a AnalysisResult) Sections() []string {
	m := a.object()
	if m == nil {
		return nil
	}
	known := []string{
		"summary", "key_points", "behavioral_indicators", "psychological_profiles",
		"strategic_advice", "socratic_questions", "key_moments", "next_steps",
	}
	var out []string
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		if _, ok := m[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Participants extracts speaker profiles. Both an array of objects and an
// object keyed by speaker name are accepted under "psychological_profiles"
// or "participants".
func (a AnalysisResult) Participants() []ParticipantProfile {
	m := a.object()
	if m == nil {
		return nil
	}

	raw, ok := m["psychological_profiles"]
	if !ok {
		raw, ok = m["participants"]
	}
	if !ok {
		return nil
	}

	var list []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]ParticipantProfile, 0, len(list))
		for i, item := range list {
			p := ParticipantProfile{Name: stringField(item, "name"), Role: stringField(item, "role")}
			p.Profile, _ = json.Marshal(item)
			if p.Name == "" {
				p.Name = "participant " + strconv.Itoa(i+1)
			}
			out = append(out, p)
		}
		return out
	}

	var byName map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil
	}
	names := make([]string, 0, len(byName))
	for k := range byName {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]ParticipantProfile, 0, len(names))
	for _, name := range names {
		var item map[string]json.RawMessage
		_ = json.Unmarshal(byName[name], &item)
		out = append(out, ParticipantProfile{Name: name, Role: stringField(item, "role"), Profile: byName[name]})
	}
	return out
}

func stringField(m map[string]json.RawMessage, key string) string {
	var s string
	if err := json.Unmarshal(m[key], &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
