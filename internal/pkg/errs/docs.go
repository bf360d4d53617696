// Package errs provides standardized error types for the storefront service.
// Every type follows the same shape so that handlers can classify failures
// with errors.Is against a sentinel and still print a precise message.
//
// The package includes:
//   - ObjectNotFoundError: an order (or other object) does not exist
//   - ValueIsRequiredError: a mandatory input is missing
//   - ValueIsInvalidError: an input has the wrong shape or value
//   - ValueIsOutOfRangeError: a numeric input lies outside its bounds
//   - StoreUnavailableError: the order store or another collaborator failed
//
// Each error type consists of:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
package errs
