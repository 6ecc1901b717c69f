// Package watcher reports database files that change under a database root.
package watcher
