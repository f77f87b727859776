// Package schemas holds the JSON Schemas for the documents the parser reads and writes.
package schemas

import "embed"

// Files contains every *.schema.json file in this directory
//
//go:embed *.schema.json
var Files embed.FS
