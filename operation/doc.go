// Package operation assembles OpenAPI operations from handler signatures.
//
// A handler's parameters declare where their values come from by wrapping
// them in a source type:
//
//	func GetPet(
//		ctx context.Context,
//		id operation.Path[int64],
//		q operation.Query[PetFilter],
//	) (Pet, error)
//
// Path, Path2 and Path3 read placeholders, Query reads the query string,
// Header reads headers, Body reads the payload and Extension carries framework
// state. Framework types such as context.Context and *http.Request are
// recognized by an [Adapter] and left out of the document.
//
// # Assembly
//
// [Assembler.Assemble] walks the parameters in declaration order. Only the last
// parameter may contribute a request body; what happens when an earlier one
// could as well is set by [AmbiguousBodyPolicy]. Path parameters take the
// names of the mount path's placeholders positionally, so
//
//	/pets/{petId}/toys/{toyId}
//
// renames the first two path parameters to petId and toyId.
//
// Failures are declared with [WithError] and [WithErrorBody]. Facts that share
// a status code produce one response; distinct descriptions are joined as a
// bulleted list.
//
// The operation id is the explicit override, or the handler's qualified name in
// snake case without its import path ([NormalizeOperationID]).
package operation
