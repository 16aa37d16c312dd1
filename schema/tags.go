package schema

import (
	"reflect"
	"slices"
	"strings"
)

// parseJSONTag parses a struct field's json tag.
// Returns the field name and options (like "omitempty").
func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

// parseOASTag parses the oas struct tag into a map of key-value pairs.
// Supports flags and pairs: oas:"inline,description=User ID,format=email"
func parseOASTag(tag string) map[string]string {
	result := make(map[string]string)
	if tag == "" {
		return result
	}
	for part := range strings.SplitSeq(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx > 0 {
			result[strings.TrimSpace(part[:idx])] = strings.TrimSpace(part[idx+1:])
		} else {
			result[part] = "true"
		}
	}
	return result
}

// fieldFromStruct builds the Field descriptor for one struct field. The second
// result is false for fields that are invisible to encoding/json.
func fieldFromStruct(sf reflect.StructField, fieldCase Case) (Field, bool) {
	jsonName, jsonOpts := parseJSONTag(sf.Tag.Get("json"))
	oasOpts := parseOASTag(sf.Tag.Get("oas"))

	if !sf.IsExported() && !sf.Anonymous {
		return Field{}, false
	}

	f := Field{
		Name:        jsonName,
		Type:        sf.Type,
		GoName:      sf.Name,
		Description: sf.Tag.Get("doc"),
	}
	if f.Name == "" {
		f.Name = fieldCase.Apply(sf.Name)
	}

	switch {
	case jsonName == "-" && len(jsonOpts) == 0:
		f.Skip = true
	case oasOpts["skip"] == "true":
		f.Skip = true
	}

	// Embedded structs without an explicit name are promoted by encoding/json.
	if sf.Anonymous && jsonName == "" && isStructLike(sf.Type) {
		f.Flatten = true
	}
	if !sf.IsExported() && !f.Flatten {
		return Field{}, false
	}

	f.Flatten = f.Flatten || oasOpts["flatten"] == "true"
	f.Inline = oasOpts["inline"] == "true"
	f.Newtype = oasOpts["newtype"] == "true"
	f.SkipIfAbsent = slices.Contains(jsonOpts, "omitempty") ||
		slices.Contains(jsonOpts, "omitzero") ||
		oasOpts["optional"] == "true"
	if v, ok := oasOpts["required"]; ok {
		f.SkipIfAbsent = v != "true"
	}
	if d, ok := oasOpts["description"]; ok && f.Description == "" {
		f.Description = d
	}
	f.Format = oasOpts["format"]
	f.Deprecated = oasOpts["deprecated"] == "true"
	return f, true
}

func isStructLike(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
