package model

import (
	"strconv"
	"strings"
)

// EntityIRIPrefix is the fixed part of every Wikidata item reference;
// the decimal Q-number follows it.
const EntityIRIPrefix = "http://www.wikidata.org/entity/Q"

// EntityID is the numeric part of a Wikidata Q-id.
type EntityID uint64

func (id EntityID) String() string {
	return "Q" + strconv.FormatUint(uint64(id), 10)
}

// IRI returns the full entity reference used inside queries and results.
func (id EntityID) IRI() string {
	return EntityIRIPrefix + strconv.FormatUint(uint64(id), 10)
}

// WikiURL links an entity to its page under root (e.g. "https://www.wikidata.org/").
func WikiURL(root string, id EntityID) string {
	return strings.TrimRight(root, "/") + "/wiki/" + id.String()
}

// SeedNode is an entity the caller asked to connect.
type SeedNode struct {
	ID    EntityID `json:"id"`
	Label string   `json:"label"`
}

// Node is an intermediate entity found while bridging two seeds.
type Node struct {
	ID    EntityID `json:"id"`
	Label string   `json:"label"`
}

// UniqueEntities drops repeated ids, keeping the first occurrence.
func UniqueEntities(ids []EntityID) []EntityID {
	seen := make(map[EntityID]struct{}, len(ids))
	out := make([]EntityID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
