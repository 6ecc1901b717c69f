// Package staging implements the Stager driven port on the local filesystem.
//
// The staging directory is the input directory of the search-indexing engine.
// A pass acquires it (stale entries are cleared), writes a single corpus
// artifact, hands the directory to the engine, and releases it, which removes
// the artifact. Only one stage may be held at a time per Stager.
//
// # Artifact Format
//
// The corpus is a JSON array of {"id", "contents"} objects indented by two
// spaces. Output is ASCII only: non-ASCII characters are written as \uXXXX
// escapes (surrogate pairs above the BMP), so any value can be represented.
package staging
