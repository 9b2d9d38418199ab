// Package oaserrors provides structured error types for oasmatch.
//
// Import path: github.com/erraggy/oasmatch/oaserrors
//
// Errors are only returned for structural problems: a document that cannot be
// decoded, a $ref that cannot be resolved, a path template that cannot be
// compiled. Parameter and response validation failures are never errors;
// validators report them as false.
//
// # Error Types
//
//   - [ParseError]: YAML/JSON decoding failures and unsupported documents
//   - [ReferenceError]: $ref resolution failures, circular references, path traversal
//   - [ResourceLimitError]: depth, size and count limits
//   - [ConfigError]: invalid options
//   - [CompileError]: path templates or schemas the compiler cannot turn into matchers/validators
//
// # Sentinel Errors
//
// Each error type matches a sentinel with errors.Is():
//
//   - [ErrParse], [ErrReference], [ErrCircularReference], [ErrPathTraversal]
//   - [ErrResourceLimit], [ErrConfig], [ErrCompile]
//
// # Usage
//
//	d, err := compiler.Compile(doc)
//	if errors.Is(err, oaserrors.ErrCompile) {
//	    var ce *oaserrors.CompileError
//	    if errors.As(err, &ce) {
//	        log.Printf("cannot compile %s: %s", ce.Path, ce.Message)
//	    }
//	}
package oaserrors
