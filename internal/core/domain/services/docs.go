// Package services holds the pure domain logic of the storefront that does not
// belong to a single aggregate method.
//
// The package includes:
//   - VerificationEngine: decides whether a driver's verification attempt
//     against an order is authentic and which transitions it authorizes
//   - ResolveExpectedCode: first-present resolution over ordered code fields
//   - CodeGenerator: unique 8-character redemption codes with a bounded
//     number of collision retries
//
// Nothing in this package performs I/O apart from the CodeGenerator's injected
// existence check.
package services
