package sparql

import (
	"strconv"
	"strings"

	"github.com/agenthands/wikigraph/internal/core/model"
)

// ParseEntityRef extracts the Q-number from a full item reference such as
// "http://www.wikidata.org/entity/Q42".
func ParseEntityRef(ref string) (model.EntityID, error) {
	digits, ok := strings.CutPrefix(ref, model.EntityIRIPrefix)
	if !ok {
		return 0, &ParseError{Ref: ref, Reason: "not a Wikidata item reference"}
	}
	if digits == "" {
		return 0, &ParseError{Ref: ref, Reason: "missing item number"}
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, &ParseError{Ref: ref, Reason: "item number is not decimal"}
		}
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, &ParseError{Ref: ref, Reason: "item number out of range", Err: err}
	}
	if n == 0 {
		return 0, &ParseError{Ref: ref, Reason: "item number must be positive"}
	}
	return model.EntityID(n), nil
}

// ParseRelationRef validates a predicate reference.
func ParseRelationRef(ref string) (model.Relation, error) {
	if ref == "" {
		return "", &ParseError{Reason: "empty predicate reference"}
	}
	return model.Relation(ref), nil
}
