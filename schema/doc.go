// Package schema derives OpenAPI 3.0 schemas from Go types.
//
// A [Generator] walks a type by reflection and produces either an inline
// schema or a reference to a named component. Named components are recorded
// as constructors in a [Registry] and only built when the document is
// assembled, so registration order never affects output.
//
// # Type Mappings
//
//   - bool → boolean
//   - int, int64, uint, uint64 → integer (format: int64)
//   - int8 through int32 → integer (format: int32)
//   - float32 → number (format: float)
//   - float64 → number (format: double)
//   - string → string
//   - []byte → string (format: byte)
//   - []T, [N]T → array (items from T)
//   - map[K]T → object (additionalProperties from T)
//   - *T → schema of T with nullable: true
//   - time.Time → string (format: date-time)
//   - net.IP, netip.Addr → oneOf ipv4, ipv6
//   - encoding.TextMarshaler → string
//
// Named struct types become components; anonymous structs are inlined.
//
// # Struct Tags
//
// Field names and optionality follow encoding/json. A field is required unless
// its json tag carries omitempty or omitzero. The oas tag refines this:
//
//	type Account struct {
//		ID      string  `json:"id" oas:"format=uuid"`
//		Profile Profile `json:"profile" oas:"inline"`
//		Audit   Audit   `oas:"flatten"`
//		Secret  string  `json:"secret" oas:"skip"`
//		Note    string  `json:"note" oas:"optional,description=Free text"`
//	}
//
// Recognized options: skip, flatten, inline, optional, required, newtype,
// deprecated, description=..., format=.... The doc tag is an alternative
// source for descriptions.
//
// Embedded structs without a json name are flattened, as encoding/json
// promotes their fields. Flattening requires the embedded type to produce an
// inline object; anything else fails with [oaserrors.ErrInvalidFlatten].
//
// # Sum Types
//
// Go has no tagged unions, so a sum type declares its shapes:
//
//	func (Shape) OAVariants() schema.Variants {
//		return schema.Variants{
//			Tagging: schema.Internal("kind"),
//			List: []schema.Variant{
//				schema.Struct[Circle]("circle"),
//				schema.Struct[Square]("square"),
//				schema.Unit("empty"),
//			},
//		}
//	}
//
// Interface types declare their variants with [DeclareVariants]. Unit variants
// collapse into one string enumeration placed after the payload variants.
//
// # Custom Schemas
//
// Types implementing [Describer] supply their own schema, [Namer] chooses the
// component name, and [ParameterProvider] and [BodyProvider] control how a
// type participates in an operation.
package schema
