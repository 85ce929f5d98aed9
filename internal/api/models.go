// ABOUTME: Data model for the RentalBridge backend resources
// ABOUTME: Mirrors the JSON shapes served by the accounts/properties/billing/payments APIs

package api

import "time"

// Role is the user's role within the platform.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
	RoleAdmin  Role = "admin"
)

// User is the backend profile identity. It is owned by the auth state layer
// and only mutated through the explicit profile-update flow.
type User struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthTokens is the credential pair issued on login, registration, and refresh.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResponse is returned by the login and register endpoints.
type LoginResponse struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// LoginRequest carries the primary login handle and password.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,e164"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new account. Role must be one of the supported
// enum values; the zero value defaults to tenant before validation.
type RegisterRequest struct {
	Phone    string `json:"phone" validate:"required,e164"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     Role   `json:"role" validate:"required,oneof=owner tenant admin"`
}

// ProfileUpdate carries the mutable profile fields for PUT /auth/profile/.
type ProfileUpdate struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// PasswordChange carries the payload for POST /auth/password/change/.
type PasswordChange struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Location is the structured address attached to a property.
type Location struct {
	ID              int64  `json:"id,omitempty"`
	AreaName        string `json:"area_name,omitempty"`
	Village         string `json:"village,omitempty"`
	Ward            string `json:"ward,omitempty"`
	ZoneOrUnion     string `json:"zone_or_union,omitempty"`
	CityCorporation string `json:"city_corporation,omitempty"`
	UpazilaOrThana  string `json:"upazila_or_thana,omitempty"`
	District        string `json:"district"`
	Division        string `json:"division"`
	Country         string `json:"country"`
}

// Property is a building owned by an owner account.
type Property struct {
	ID               int64     `json:"id"`
	Location         Location  `json:"location"`
	HouseName        string    `json:"house_name"`
	AgeOfBuilding    int       `json:"age_of_building,omitempty"`
	TotalFloors      int       `json:"total_floors"`
	HasLift          bool      `json:"has_lift"`
	HasSecurityGuard bool      `json:"has_security_guard"`
	HasParking       bool      `json:"has_parking"`
	IsTiled          bool      `json:"is_tiled"`
	Photos           []string  `json:"photos"`
	CreatedBy        int64     `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Facing directions for a unit.
const (
	FacingNorth     = "north"
	FacingSouth     = "south"
	FacingEast      = "east"
	FacingWest      = "west"
	FacingNorthEast = "north_east"
	FacingNorthWest = "north_west"
	FacingSouthEast = "south_east"
	FacingSouthWest = "south_west"
)

// Unit is a rentable unit within a property.
type Unit struct {
	ID            int64     `json:"id"`
	Property      int64     `json:"property"`
	UnitNumber    string    `json:"unit_number"`
	FloorNumber   int       `json:"floor_number"`
	Facing        string    `json:"facing"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	AreaSqft      float64   `json:"area_sqft,omitempty"`
	RentAmount    float64   `json:"rent_amount"`
	UtilityCharge float64   `json:"utility_charge,omitempty"`
	IsAvailable   bool      `json:"is_available"`
	Description   string    `json:"description,omitempty"`
	Photos        []string  `json:"photos"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Contract statuses.
const (
	ContractActive     = "active"
	ContractExpired    = "expired"
	ContractTerminated = "terminated"
)

// Contract ties a tenant to a unit for a rental period.
type Contract struct {
	ID              int64     `json:"id"`
	Unit            int64     `json:"unit"`
	Tenant          int64     `json:"tenant"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	RentAmount      float64   `json:"rent_amount"`
	SecurityDeposit float64   `json:"security_deposit"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Bill statuses.
const (
	BillPending   = "pending"
	BillPaid      = "paid"
	BillOverdue   = "overdue"
	BillCancelled = "cancelled"
)

// Bill is a billing-period charge against a contract.
type Bill struct {
	ID                 int64     `json:"id"`
	Contract           int64     `json:"contract"`
	BillingPeriodStart string    `json:"billing_period_start"`
	BillingPeriodEnd   string    `json:"billing_period_end"`
	RentAmount         float64   `json:"rent_amount"`
	UtilityAmount      float64   `json:"utility_amount"`
	TotalAmount        float64   `json:"total_amount"`
	DueDate            string    `json:"due_date"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Payment methods and statuses.
const (
	PaymentMethodBkash        = "bkash"
	PaymentMethodNagad        = "nagad"
	PaymentMethodRocket       = "rocket"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"

	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
)

// Payment records money applied to a bill.
type Payment struct {
	ID            int64     `json:"id"`
	Bill          int64     `json:"bill"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id,omitempty"`
	PaymentDate   string    `json:"payment_date"`
	Status        string    `json:"status"`
	ReceiptURL    string    `json:"receipt_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PaymentRequest creates a payment against a bill.
type PaymentRequest struct {
	Bill          int64   `json:"bill" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=bkash nagad rocket bank_transfer cash"`
	TransactionID string  `json:"transaction_id,omitempty"`
}

// OwnerDashboardStats summarizes an owner's portfolio.
type OwnerDashboardStats struct {
	TotalProperties   int     `json:"total_properties"`
	TotalUnits        int     `json:"total_units"`
	OccupiedUnits     int     `json:"occupied_units"`
	VacantUnits       int     `json:"vacant_units"`
	PendingRentAmount float64 `json:"pending_rent_amount"`
	PendingRentCount  int     `json:"pending_rent_count"`
	TotalTenants      int     `json:"total_tenants"`
}

// UpcomingPayment is the tenant's next due bill.
type UpcomingPayment struct {
	BillID        int64   `json:"bill_id"`
	Amount        float64 `json:"amount"`
	DueDate       string  `json:"due_date"`
	DaysRemaining int     `json:"days_remaining"`
}

// TenantDashboardStats summarizes a tenant's rental standing.
type TenantDashboardStats struct {
	CurrentContract *Contract        `json:"current_contract,omitempty"`
	NextPayment     *UpcomingPayment `json:"next_payment,omitempty"`
	TotalPaid       float64          `json:"total_paid"`
	LastPayment     *Payment         `json:"last_payment,omitempty"`
}

// Page is the backend's pagination envelope for list endpoints.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
	Results  []T     `json:"results"`
}
