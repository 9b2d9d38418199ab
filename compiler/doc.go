// Package compiler turns a dereferenced Swagger 2.0 document into a
// Dispatcher: a set of path matchers with validators attached to every
// parameter and response.
//
// # Basic Usage
//
//	parsed, _ := document.ParseWithOptions(
//	    document.WithFilePath("swagger.yaml"),
//	    document.WithResolveRefs(true),
//	)
//	d, err := compiler.Compile(parsed.Document)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cp, ok := d.Dispatch("/api/pets/42")
//	if !ok {
//	    // no path matched, or more than one did
//	}
//	op, _ := cp.Operation("GET")
//	limit, _ := op.Parameter("query", "limit")
//	limit.Validate(value.String("10")) // true for {type: integer}
//
// # Coercion
//
// Query and header values arrive as strings. Their validators convert
// numeric strings for number and integer parameters, "true" and "false" for
// boolean parameters, and split arrays with the declared collectionFormat
// (csv by default) before validating. Values that do not convert are left
// alone and fail the type check. An absent value passes exactly when the
// parameter is not required; this holds for every location.
//
// Path, body and formData parameters, and responses, are validated without
// coercion. A response that declares no schema accepts only an absent, null
// or empty-string body.
//
// # Matching
//
// Each template becomes a regular expression: the base path, then the
// template with every {name} replaced by one or more non-"/" characters,
// anchored at both ends. WithSuffixMatching drops the leading anchor.
//
// Dispatch reports a path only when exactly one template matches. Resolve
// returns the three-way Outcome (Matched, NoMatch, Ambiguous).
//
// # Concurrency
//
// Compilation runs synchronously. The returned Dispatcher and all validators
// are read-only and may be used from any number of goroutines.
package compiler
