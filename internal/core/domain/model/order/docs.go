// Package order provides the Order aggregate of the storefront: a grocery order
// paid either up front (pay now) or at the door (pay on delivery), together with
// the two status axes a driver moves it along.
//
// The package includes:
//   - Order: the aggregate root with items, totals, codes and statuses
//   - PaymentMethod: PayNow or PayOnDelivery, fixed at creation
//   - PaymentStatus: PaymentPending -> Paid
//   - DeliveryStatus: DeliveryPending -> Delivered
//   - RedemptionCode: the 8-character code a pay-now customer shows the driver
//   - Item and Customer: immutable value objects captured at checkout
//
// Key business rules:
//   - Both statuses are monotonic; Paid and Delivered are terminal
//   - An order can only become Delivered once it is Paid
//   - Pay-now orders never carry POS or transfer delivery codes
//   - The total equals the sum of quantity × unit price at creation
//
// The aggregate remembers the statuses it was loaded with and which fields
// changed since, so that persistence can apply conditional partial updates.
package order
