package model

import "strings"

// DirectPropertyIRIPrefix precedes the property code in truthy ("wdt:") predicates.
const DirectPropertyIRIPrefix = "http://www.wikidata.org/prop/direct/"

// Relation is the full predicate reference as returned by the query service.
type Relation string

// Code is the short label drawn on an edge: "P31" for direct properties,
// otherwise the last path or fragment segment of the reference.
func (r Relation) Code() string {
	s := string(r)
	if code, ok := strings.CutPrefix(s, DirectPropertyIRIPrefix); ok && code != "" {
		return code
	}
	if i := strings.LastIndexAny(s, "/#"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}

// URL is the clickable link for the relation. Direct properties link to
// their property page, anything else links to the reference itself.
func (r Relation) URL(root string) string {
	s := string(r)
	if code, ok := strings.CutPrefix(s, DirectPropertyIRIPrefix); ok && code != "" {
		return PropertyURLPrefix(root) + code
	}
	return s
}

// PropertyURLPrefix is the fixed part of a property page link.
func PropertyURLPrefix(root string) string {
	return strings.TrimRight(root, "/") + "/wiki/Property:"
}

// Edge is a directed, typed connection. Two edges are the same edge only if
// all three fields match.
type Edge struct {
	Source   EntityID `json:"source"`
	Target   EntityID `json:"target"`
	Relation Relation `json:"relation"`
}
