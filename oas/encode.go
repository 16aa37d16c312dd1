package oas

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Format is a textual encoding of a document.
type Format string

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is block-style YAML.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks JSON for a ".json" extension and YAML for everything else.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ContentType returns the HTTP content type used to serve f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return MediaTypeJSON
	}
	return "text/yaml"
}

// EncodeJSON encodes v as two-space indented JSON.
func EncodeJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// EncodeYAML encodes v as YAML with the same key order as its JSON form.
func EncodeYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonToYAML(raw)
}

// Encode encodes v in the given format.
func Encode(v any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return EncodeJSON(v)
	case FormatYAML:
		return EncodeYAML(v)
	default:
		return nil, fmt.Errorf("oas: unsupported format %q", f)
	}
}

// ConvertFormat re-encodes a JSON or YAML document into the target format,
// keeping mapping key order.
func ConvertFormat(data []byte, to Format) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("oas: decoding document: %w", err)
	}
	switch to {
	case FormatYAML:
		return marshalBlockYAML(&node)
	case FormatJSON:
		var buf bytes.Buffer
		if err := writeNodeJSON(&buf, &node); err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
			return nil, err
		}
		out.WriteByte('\n')
		return out.Bytes(), nil
	default:
		return nil, fmt.Errorf("oas: unsupported format %q", to)
	}
}

// jsonToYAML parses JSON as YAML (JSON is a YAML subset) so the node tree keeps
// key order, then re-emits it in block style.
func jsonToYAML(raw []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("oas: converting to yaml: %w", err)
	}
	return marshalBlockYAML(&node)
}

func marshalBlockYAML(node *yaml.Node) ([]byte, error) {
	resetStyle(node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resetStyle clears flow and quoting styles so the encoder chooses block style
// and quotes only where a plain scalar would change type. Strings that YAML 1.1
// readers take for booleans stay double quoted.
func resetStyle(n *yaml.Node) {
	str := n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
	n.Style = 0
	if str && yaml11Bools[n.Value] {
		n.Style = yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		resetStyle(c)
	}
}

var yaml11Bools = map[string]bool{
	"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
	"n": true, "N": true, "no": true, "No": true, "NO": true,
	"on": true, "On": true, "ON": true,
	"off": true, "Off": true, "OFF": true,
}

// writeNodeJSON writes a YAML node tree as compact JSON in document order.
func writeNodeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNodeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeNodeJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNodeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNodeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		return writeScalarJSON(buf, n)
	default:
		return fmt.Errorf("oas: unexpected yaml node kind %v", n.Kind)
	}
}

func writeScalarJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("null")
		return nil
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err != nil {
			return err
		}
		buf.WriteString(strconv.FormatBool(b))
		return nil
	case "!!int", "!!float":
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
			return nil
		}
	}
	s, err := json.Marshal(n.Value)
	if err != nil {
		return err
	}
	buf.Write(s)
	return nil
}
