// Package index loads a registry snapshot into an in-memory SQLite database
// and answers cross-entity queries over it. The registry file stays the
// source of truth; the index is rebuilt from it on every Open.
package index

// Table DDL. Ordinals preserve registry order for stable listings.
const (
	createEntities = `CREATE TABLE entities (
    ordinal INTEGER PRIMARY KEY,
    entity_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    status TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createFields = `CREATE TABLE fields (
    entity_ordinal INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    field_id TEXT NOT NULL,
    name TEXT NOT NULL,
    field_type TEXT NOT NULL,
    required INTEGER NOT NULL,
    multi INTEGER NOT NULL,
    target TEXT NOT NULL,
    PRIMARY KEY (entity_ordinal, ordinal),
    FOREIGN KEY (entity_ordinal) REFERENCES entities(ordinal)
);`

	createRelationships = `CREATE TABLE relationships (
    entity_ordinal INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    relationship_id TEXT NOT NULL,
    name TEXT NOT NULL,
    target TEXT NOT NULL,
    cardinality TEXT NOT NULL,
    required INTEGER NOT NULL,
    PRIMARY KEY (entity_ordinal, ordinal),
    FOREIGN KEY (entity_ordinal) REFERENCES entities(ordinal)
);`

	createExternalIDs = `CREATE TABLE external_ids (
    entity_ordinal INTEGER NOT NULL,
    external_id TEXT NOT NULL,
    FOREIGN KEY (entity_ordinal) REFERENCES entities(ordinal)
);`
)

// Index DDL for the lookups the queries perform.
const (
	idxEntitiesID          = `CREATE INDEX idx_entities_id ON entities(entity_id);`
	idxEntitiesStatus      = `CREATE INDEX idx_entities_status ON entities(status);`
	idxFieldsType          = `CREATE INDEX idx_fields_type ON fields(field_type);`
	idxFieldsTarget        = `CREATE INDEX idx_fields_target ON fields(target);`
	idxRelationshipsTarget = `CREATE INDEX idx_relationships_target ON relationships(target);`
	idxExternalIDs         = `CREATE INDEX idx_external_ids ON external_ids(external_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createEntities,
	createFields,
	createRelationships,
	createExternalIDs,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEntitiesID,
	idxEntitiesStatus,
	idxFieldsType,
	idxFieldsTarget,
	idxRelationshipsTarget,
	idxExternalIDs,
}
