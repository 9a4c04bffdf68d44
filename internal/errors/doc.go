// Package errors provides structured errors for rpg-stats.
//
// Errors carry a Code, a message, an optional cause and free-form metadata:
//
//	err := errors.NotFoundf("stat %v not found", key).
//	    WithMeta("collection", c.Name())
//
// Wrapping keeps the original code:
//
//	if err := sheet.Build(doc, cfg); err != nil {
//	    return errors.Wrap(err, "failed to build sheet")
//	}
//
// Config structs validate themselves with the ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	if c.Registry == nil {
//	    vb.RequiredField("Registry")
//	}
//	return vb.Build()
//
// # Layer guidelines
//
// Stat engine and collections:
//   - Misuse at runtime (unknown key, duplicate key) is logged and reported
//     through a bool or absent result, never as a panic
//   - Operations that already return an error use FailedPrecondition for
//     invalid state transitions such as setting the base of a chained stat
//
// Loaders and constructors:
//   - InvalidArgument for malformed input
//   - NotFound / AlreadyExists for reference problems
//   - FailedPrecondition for graphs that cannot be built (parent cycles)
package errors
