// Package schemas embeds the JSON Schemas for analysis replies and exported reports.
package schemas

import "embed"

// File names of the embedded schemas.
const (
	AnalysisReply = "analysis_reply.schema.json"
	Report        = "report.schema.json"
)

//go:embed *.json
var files embed.FS

// MustGet returns the content of an embedded schema, panicking if it is missing.
func MustGet(name string) string {
	data, err := files.ReadFile(name)
	if err != nil {
		panic("schemas: " + err.Error())
	}
	return string(data)
}

// List returns the names of all embedded schemas.
func List() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
