// Package types defines the master-data registry model: entities, their typed
// fields and relationships, change-log snapshots, the authoring draft, and the
// sentinel errors shared by the store, the schema engines, and the CLI.
package types
