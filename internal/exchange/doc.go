// Package exchange serializes the registry and its derived artifacts: the
// registry export (mdm-registry.json), the combined schema export
// (mdm-json-schemas.json), per-entity .schema.json and .d.ts files, and
// YAML renderings of any of them. Import is the only path that reads data
// back; it either replaces the store wholesale or leaves it untouched.
package exchange
