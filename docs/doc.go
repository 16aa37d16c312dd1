// Package docs harvests Go doc comments into a manifest of descriptions.
//
// Reflection cannot see comments, so descriptions are collected ahead of time
// from source and shipped with the program:
//
//	oasgen docs -o docs.json ./...
//
// The manifest is then embedded and handed to the builder:
//
//	//go:embed docs.json
//	var docsJSON []byte
//
//	m, err := docs.Parse(docsJSON)
//	b := builder.New(c,
//		builder.WithDescriber(m.Describe),
//		builder.WithOperationDocs(m.FuncDoc))
//
// Type and field comments become schema descriptions. A handler's comment
// becomes its operation description, and its first sentence the summary.
package docs
