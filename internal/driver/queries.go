package driver

const (
	SaveEntitiesQuery = `
		UNWIND $entities AS entity
		MERGE (n:Entity {qid: entity.qid})
		SET n.label = entity.label,
			n.url = entity.url,
			n.run_id = $run_id,
			n.seed = coalesce(n.seed, false) OR entity.seed,
			n.exported_at = $exported_at
		RETURN count(n) AS saved
	`

	SaveRelationsQuery = `
		UNWIND $relations AS rel
		MATCH (source:Entity {qid: rel.source})
		MATCH (target:Entity {qid: rel.target})
		MERGE (source)-[e:RELATES {relation: rel.relation}]->(target)
		SET e.code = rel.code,
			e.url = rel.url,
			e.run_id = $run_id,
			e.exported_at = $exported_at
		RETURN count(e) AS saved
	`

	GetRunRelationsQuery = `
		MATCH (source:Entity)-[e:RELATES {run_id: $run_id}]->(target:Entity)
		RETURN source.qid AS source, target.qid AS target, e.relation AS relation
	`
)

var indexQueries = []string{
	"CREATE INDEX ON :Entity(qid);",
	"CREATE INDEX ON :Entity(run_id);",
}
