// Package pyserini runs the pyserini Lucene indexer as an external process.
package pyserini
