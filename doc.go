// Package oasmatch compiles Swagger 2.0 documents into request matchers and
// parameter validators.
//
// A compiled document answers two questions about an HTTP request: which
// path template it addresses, and whether its parameters satisfy the
// document. Nothing is generated: validators are closures built from the
// document's schemas.
//
// # Overview
//
// The module is organized as a pipeline:
//
//   - document: load a Swagger 2.0 document from YAML or JSON and resolve
//     local and relative-file $ref references
//   - schema: build validators for Swagger schema fragments, either with the
//     native backend or by rendering JSON Schema Draft 4
//   - value: the dynamic value model validators operate on
//   - compiler: attach a validator to every parameter and response, compile
//     path templates to anchored patterns and build the Dispatcher
//   - middleware: validate HTTP requests (and optionally responses) with a
//     compiled Dispatcher
//
// Only Swagger 2.0 is supported. OpenAPI 3.x documents are rejected at load
// time.
//
// # Installation
//
//	go get github.com/erraggy/oasmatch
//
// # Quick Start
//
// Load and compile a document:
//
//	result, err := document.ParseWithOptions(document.WithFilePath("swagger.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	d, err := compiler.Compile(result.Document)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Find the template a request path addresses:
//
//	cp, ok := d.Dispatch("/api/pets/42")
//	if ok {
//		fmt.Println(cp.Name, cp.Extract("/api/pets/42"))
//	}
//
// Validate a query parameter. Query values arrive as strings; the compiled
// validator coerces them according to the parameter's declared type:
//
//	op, _ := cp.Operation("get")
//	limit, _ := op.Parameter("query", "limit")
//	fmt.Println(limit.Validate(value.String("20")))
//
// Guard an HTTP handler:
//
//	guard := middleware.New(d, middleware.WithResponseValidation(true))
//	http.ListenAndServe(":8080", guard.Handler(mux))
//
// # Errors
//
// Load and compile failures are structured errors from package oaserrors and
// work with errors.Is and errors.As. A value failing validation is never an
// error: validators return false, and Explain lists the violations.
//
// # Command Line
//
// The oasmatch command exposes compile, match and check subcommands, and an
// MCP server over stdio:
//
//	oasmatch compile swagger.yaml
//	oasmatch match swagger.yaml /api/pets/42
//	oasmatch check --method GET --param query:limit=20 swagger.yaml /api/pets
//	oasmatch mcp
package oasmatch
