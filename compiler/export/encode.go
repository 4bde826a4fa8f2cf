package export

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/metamodel"
)

// Format is an output format of a snapshot.
type Format string

// Supported formats.
const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
	GraphQL Format = "graphql"
)

// Formats returns the supported formats.
func Formats() []Format { return []Format{JSON, YAML, MsgPack, GraphQL} }

// ParseFormat parses a format name, case-insensitively. "yml" is accepted
// for YAML and "gql" for GraphQL.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, MsgPack, GraphQL:
		return f, nil
	case "yml":
		return YAML, nil
	case "gql":
		return GraphQL, nil
	default:
		return "", metamodel.NewConfigError("Format", s, "unsupported format; use json, yaml, msgpack or graphql")
	}
}

// Extension returns the file extension of the format.
func (f Format) Extension() string {
	if f == MsgPack {
		return ".msgpack"
	}
	return "." + string(f)
}

// Encode writes a snapshot in the given format. The GraphQL format only
// describes the types: entities and embeddables become object types and
// mapped superclasses interfaces.
func Encode(w io.Writer, s *Snapshot, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case MsgPack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(s)
	case GraphQL:
		return encodeGraphQL(w, s)
	default:
		return metamodel.NewConfigError("Format", string(f), "unsupported format")
	}
}

// Decode reads a snapshot written by Encode. The GraphQL format cannot be
// decoded.
func Decode(r io.Reader, f Format) (*Snapshot, error) {
	s := &Snapshot{}
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(s)
	case YAML:
		err = yaml.NewDecoder(r).Decode(s)
	case MsgPack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		err = dec.Decode(s)
	default:
		return nil, metamodel.NewConfigError("Format", string(f), "format cannot be decoded")
	}
	if err != nil {
		return nil, fmt.Errorf("metamodel: decode %s snapshot: %w", f, err)
	}
	return s, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
