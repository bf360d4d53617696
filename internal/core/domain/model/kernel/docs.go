// Package kernel provides the shared value objects of the storefront domain.
//
// The package includes:
//   - UUID: identifier of orders, assigned by the order store
//   - Money: an amount in the minor currency unit (kobo), never negative
//
// Both are immutable; their zero values are invalid and fail Validate.
package kernel
