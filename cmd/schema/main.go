// Command schema writes the JSON schema of an API payload, for front ends
// that validate what the shop server sends them.
//
//	go run ./cmd/schema -type item -out web/schema/item.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/everforgeworks/rift-armory/internal/game"
)

func main() {
	var outPath, kind string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.StringVar(&kind, "type", "session", "payload to describe: item, session or groups")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	schema, err := buildSchema(kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeSchema(outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

// payloads maps the -type flag to the value reflected and its description.
var payloads = map[string]struct {
	value       interface{}
	title       string
	description string
}{
	"item": {
		value:       new(game.Item),
		title:       "Rift Armory Item",
		description: "One entry of /api/catalog",
	},
	"session": {
		value:       new(game.Snapshot),
		title:       "Rift Armory Session",
		description: "Snapshot returned by /api/session and pushed as session_updated",
	},
	"groups": {
		value:       new([]game.NamedGroup),
		title:       "Rift Armory Groups",
		description: "Display groups returned by /api/groups",
	},
}

func buildSchema(kind string) (*jsonschema.Schema, error) {
	p, ok := payloads[kind]
	if !ok {
		return nil, fmt.Errorf("unknown -type %q", kind)
	}

	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(p.value)
	schema.Title = p.title
	schema.Description = p.description
	return schema, nil
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
