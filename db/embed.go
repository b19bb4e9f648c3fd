// Package db provides the embedded default seed data.
package db

import _ "embed"

// SeedProducts is the default product seed set, applied through the
// upsert path so repeated runs restock instead of duplicating. It
// intentionally repeats one title to exercise the merge.
//
//go:embed seed/products.json
var SeedProducts []byte
