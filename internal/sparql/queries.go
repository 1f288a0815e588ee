package sparql

import (
	"fmt"

	"github.com/agenthands/wikigraph/internal/core/model"
)

const (
	directLinkQuery = `SELECT ?a WHERE { wd:%s ?a wd:%s. }`

	bridgedLinkQuery = `
		SELECT ?a ?b ?bLabel ?c WHERE {
			wd:%s ?a ?b.
			?b ?c wd:%s.
			FILTER(STRSTARTS(STR(?b), "%s"))
			SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
		}
	`

	labelQuery = `
		SELECT ?label WHERE {
			wd:%s rdfs:label ?label.
			FILTER(LANGMATCHES(LANG(?label), "EN")).
			SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
		}
	`
)

// DirectLinkQuery asks for every predicate linking source straight to target.
func DirectLinkQuery(source, target model.EntityID) string {
	return fmt.Sprintf(directLinkQuery, source, target)
}

// BridgedLinkQuery asks for items b with source -a-> b -c-> target, with b's
// label resolved by the label service.
func BridgedLinkQuery(source, target model.EntityID) string {
	return fmt.Sprintf(bridgedLinkQuery, source, target, model.EntityIRIPrefix)
}

// LabelQuery asks for the English rdfs:label of id.
func LabelQuery(id model.EntityID) string {
	return fmt.Sprintf(labelQuery, id)
}
