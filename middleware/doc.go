// Package middleware validates HTTP requests, and optionally responses, with
// the validators of a compiled Swagger 2.0 document.
//
//	d, _ := compiler.Compile(doc)
//	guard := middleware.New(d,
//	    middleware.WithResponseValidation(true),
//	    middleware.WithLogger(document.NewSlogAdapter(slog.Default())),
//	)
//	http.ListenAndServe(":8080", guard.Handler(mux))
//
// A request is answered with
//
//   - 404 when no template, or more than one, matches the path. The X-Match
//     header says which ("none" or "ambiguous").
//   - 405 when the template has no operation for the method.
//   - 413 when a body parameter exceeds the size limit.
//   - 400 when a parameter fails validation. The body lists every problem.
//
// Query values arrive as strings and are coerced by the compiled validators.
// Path segments and form fields are coerced here before validation, since
// their compiled validators expect typed values. JSON bodies are decoded
// with github.com/goccy/go-json.
package middleware
