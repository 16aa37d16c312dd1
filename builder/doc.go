// Package builder assembles OpenAPI documents from Go handler functions.
//
// Handlers declare their inputs with the source wrappers of the operation
// package and their outputs as ordinary return values. The builder derives one
// operation per handler, collects the component schemas those operations
// reference, and produces a single document.
//
// # Quick Start
//
//	b := builder.New(builder.NewCollection()).
//		SetTitle("Pet Store API").
//		SetVersion("1.0.0")
//
//	b.Get("/pets", listPets)
//	b.Get("/pets/{petId}", getPet,
//		operation.WithError(http.StatusNotFound, "pet not found"))
//	b.Post("/pets", createPet, operation.WithStatus(http.StatusCreated))
//
//	frozen, err := b.Freeze()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := frozen.WriteAndExitIfEnv("openapi.yaml"); err != nil {
//		log.Fatal(err)
//	}
//	mux := http.NewServeMux()
//	frozen.Mount(mux)
//
// # Collection
//
// Registration and assembly are split. Handle records a deferred operation
// constructor in a [Collection] and notes where it is mounted; nothing is
// generated until Build. Schemas and operations are write-once by name, so
// repeated registrations from different call sites are harmless. Build output
// depends only on what was registered, never on the order it was registered in.
//
// # Freezing
//
// [Builder.Freeze] builds the document and encodes it once as JSON and YAML.
// The resulting [Frozen] value is immutable and may be shared by all request
// handlers. It serves both encodings under the configured routes, writes them
// to disk, and validates the document with kin-openapi.
//
// # Errors
//
// Registration problems are collected and returned by Build as [BuilderErrors].
// Each [BuilderError] names the method, path and operation id involved and wraps
// the typed errors of the oaserrors package:
//
//	if errors.Is(err, oaserrors.ErrUnsupportedPathItemRef) { ... }
package builder
