// Package api provides typed clients for the RentalBridge backend resources.
//
// # Overview
//
// Every method is a thin request builder over a Doer, normally the session
// manager from internal/session. The session manager absorbs 401s behind its
// refresh protocol, so callers of this package only ever see network,
// validation, server, or authentication-required failures.
//
// # Resources
//
//   - Auth: Login, Register, GetProfile, UpdateProfile, Logout, ChangePassword
//   - Properties: ListProperties, GetProperty, CreateProperty, UpdateProperty, DeleteProperty
//   - Units: ListUnits, GetUnit, CreateUnit, UpdateUnit
//   - Contracts: ListContracts, GetContract
//   - Billing: ListBills, GetBill, CreateBill, UpdateBill, PendingBills
//   - Payments: ListPayments, GetPayment, CreatePayment, DownloadReceipt
//   - Dashboard: OwnerDashboard, TenantDashboard
//
// # Pagination
//
// List endpoints return Page[T], the backend's {count, next, previous,
// results} envelope.
//
// # Validation
//
// Outbound request structs carry validate tags; failures surface as the same
// field-error APIError shape the backend produces, so form display code
// handles both identically.
package api
