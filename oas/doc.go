// Package oas holds the OpenAPI 3.0 document model produced by oasgen.
//
// The model is deliberately small: it covers the objects the schema generator and
// operation assembler emit (schemas, paths, operations, parameters, bodies and
// responses) rather than the whole OpenAPI surface.
//
// Two properties matter for callers:
//
//   - [Properties] keeps insertion order, and both [EncodeJSON] and [EncodeYAML]
//     write properties in that order.
//   - Every other map (paths, component schemas, responses, content) is written
//     with sorted keys, so two documents with the same content encode to the same
//     bytes regardless of construction order.
//
// [SchemaRef] is the Ref-or-Item union used wherever a schema may either be
// inlined or point at a named entry under components.schemas.
package oas
