// Package schema turns schema fragments into reusable validation predicates.
//
// A [Generator] prepares a *document.Schema once and returns a [Predicate]
// that may be called concurrently and repeatedly. Two backends exist:
//
//   - [NewGenerator]: a native validator for the OAS 2.0 JSON Schema subset.
//     Patterns are compiled at generation time; format checks (date,
//     date-time, uuid, email, uri) only produce warnings.
//   - [NewJSONSchemaGenerator]: renders the fragment as a draft-4 JSON Schema
//     and validates with github.com/santhosh-tekuri/jsonschema/v5.
//
// Both backends treat an absent value like null, and neither panics on any
// input value.
//
// For diagnostics, [Validate] reports every violation with the location of
// the offending value:
//
//	for _, v := range schema.Validate(s, body) {
//		fmt.Println(v.Path, v.Message)
//	}
package schema
