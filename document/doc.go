// Package document loads Swagger 2.0 documents into a typed model.
//
// The model covers what request matching and validation need: the base path,
// path items, operations, parameters (inline OAS 2.0 type fields or a nested
// schema), responses and a JSON Schema subset. Documents are read from YAML or
// JSON with go.yaml.in/yaml/v4.
//
// # Quick Start
//
//	result, err := document.ParseWithOptions(
//		document.WithFilePath("swagger.yaml"),
//		document.WithResolveRefs(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Document.BasePath, result.Stats.OperationCount)
//
// # Reference Resolution
//
// With WithResolveRefs(true) every $ref is replaced by its target before the
// document is decoded. Local references (#/definitions/Pet) and relative file
// references (common.yaml#/definitions/Error) are supported. File references
// may not leave the directory of the root document.
//
// Unlike a permissive loader, cyclic references are an error: the result must
// be a fully inlined tree, so a cycle fails with an *oaserrors.ReferenceError
// whose IsCircular field is set.
//
// Documents built in code can be inlined with [Dereference].
package document
