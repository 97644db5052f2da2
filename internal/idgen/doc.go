// Package idgen generates snapshot and message identifiers. The generator is
// a package variable so tests can make identifiers deterministic.
package idgen
