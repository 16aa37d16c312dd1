// Package oasgen generates OpenAPI 3.0 documents from Go types and handler
// function signatures.
//
// A service describes each endpoint with an ordinary Go function. Parameter
// types say where values come from and return types say what is sent back;
// oasgen turns those signatures into operations, and the types they mention
// into named component schemas.
//
// # Overview
//
// The library consists of the following packages:
//
//   - oas: the document model with JSON and YAML encoders
//   - schema: schema generation, struct tag handling, sum types and the
//     write-once schema registry
//   - operation: parameter sources, framework adapters and operation assembly
//   - builder: the document builder, freezing, serving and writing documents
//   - docs: harvests Go doc comments into schema and operation descriptions
//   - oaserrors: sentinel and typed errors shared by all packages
//
// # Installation
//
//	go get github.com/erraggy/oasgen
//
// # Quick Start
//
// Declare handlers with source wrappers:
//
//	type Pet struct {
//		ID   int64  `json:"id"`
//		Name string `json:"name"`
//	}
//
//	func GetPet(ctx context.Context, id operation.Path[int64]) (Pet, error)
//	func CreatePet(ctx context.Context, body operation.Body[Pet]) (Pet, error)
//
// Mount them on a builder and freeze the result:
//
//	b := builder.New(nil).
//		SetTitle("Pet Store API").
//		SetVersion("1.0.0")
//	b.Get("/pets/{petId}", GetPet, operation.WithError(http.StatusNotFound, "pet not found"))
//	b.Post("/pets", CreatePet, operation.WithStatus(http.StatusCreated))
//
//	frozen, err := b.Freeze()
//	if err != nil {
//		log.Fatal(err)
//	}
//	frozen.Mount(mux) // serves /openapi.json and /openapi.yaml
//
// Setting OASGEN_WRITE_SPEC=true makes [builder.Frozen.WriteAndExitIfEnv]
// write the document to disk and exit, which lets a build step capture the
// document of a service without starting it.
//
// # Descriptions
//
// Go doc comments are not available through reflection. The oasgen command
// harvests them ahead of time:
//
//	oasgen docs -o docs.json ./...
//
// The manifest is then embedded and passed to builder.WithDescriber and
// builder.WithOperationDocs.
//
// # Command Line
//
// The oasgen command validates, inspects and converts written documents, and
// serves them to AI assistants over the Model Context Protocol:
//
//	oasgen validate openapi.yaml
//	oasgen inspect openapi.yaml
//	oasgen convert -format json -o openapi.json openapi.yaml
//	oasgen mcp
package oasgen
