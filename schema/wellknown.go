package schema

import (
	"encoding"
	"encoding/json"
	"math/big"
	"net"
	"net/netip"
	"net/url"
	"reflect"
	"time"

	"github.com/erraggy/oasgen/oas"
)

// wellKnown maps standard library types whose JSON form differs from their
// Go structure.
var wellKnown = map[reflect.Type]func() *oas.Schema{
	reflect.TypeFor[time.Time]():       func() *oas.Schema { return stringFormat("date-time") },
	reflect.TypeFor[url.URL]():         func() *oas.Schema { return stringFormat("uri") },
	reflect.TypeFor[net.IP]():          ipSchema,
	reflect.TypeFor[netip.Addr]():      ipSchema,
	reflect.TypeFor[netip.AddrPort]():  oas.NewString,
	reflect.TypeFor[netip.Prefix]():    func() *oas.Schema { return stringFormat("cidr") },
	reflect.TypeFor[json.RawMessage](): func() *oas.Schema { return &oas.Schema{} },
	reflect.TypeFor[json.Number]():     oas.NewNumber,
	reflect.TypeFor[big.Int]():         oas.NewInteger,
}

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

func stringFormat(format string) *oas.Schema {
	s := oas.NewString()
	s.Format = format
	return s
}

func ipSchema() *oas.Schema {
	return &oas.Schema{OneOf: []*oas.SchemaRef{
		oas.Item(stringFormat("ipv4")),
		oas.Item(stringFormat("ipv6")),
	}}
}

// wellKnownSchema returns the schema of a type recognized by identity or shape.
func wellKnownSchema(t reflect.Type) (*oas.Schema, bool) {
	if fn, ok := wellKnown[t]; ok {
		return fn(), true
	}
	// UUID types from any package share this shape.
	if t.Name() == "UUID" && t.Kind() == reflect.Array && t.Len() == 16 && t.Elem().Kind() == reflect.Uint8 {
		return stringFormat("uuid"), true
	}
	// encoding/json writes text marshalers as strings.
	if t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType) {
		return oas.NewString(), true
	}
	return nil, false
}
