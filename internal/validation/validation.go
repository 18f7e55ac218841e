// Package validation checks candidate records before they reach storage.
// Every rule is evaluated so callers get the complete list of problems.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	supplierdomain "github.com/tair/mini-erp/internal/supplier/domain"
	userdomain "github.com/tair/mini-erp/internal/user/domain"
)

const (
	maxSKULength      = 50
	maxUsernameLength = 50
	minPasswordLength = 6
	// bcrypt rejects longer input; counted in bytes
	maxPasswordBytes = 72
	// MaxOrderQuantity bounds a single purchase order line
	MaxOrderQuantity = 1_000_000
)

// MaxAmount is the exclusive upper bound of every stored price and total,
// the largest value a numeric(12,2) column holds plus one cent.
var MaxAmount = decimal.New(1, 10)

// Result carries the outcome of one validation
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func (r *Result) add(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) done() Result {
	r.IsValid = len(r.Errors) == 0
	return *r
}

// Err returns nil for a valid result and an *Error otherwise
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return &Error{Errors: r.Errors}
}

// Error is returned by use cases when input fails validation
type Error struct {
	Errors []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateProduct checks a product before create or update
func ValidateProduct(p *productdomain.Product) Result {
	var r Result
	if blank(p.Name) {
		r.add("Product name is required")
	}
	if blank(p.SKU) {
		r.add("SKU is required")
	} else if utf8.RuneCountInString(p.SKU) > maxSKULength {
		r.add("SKU must not exceed %d characters", maxSKULength)
	}
	if !p.SellingPrice.IsPositive() {
		r.add("Selling price must be greater than zero")
	} else if p.SellingPrice.GreaterThanOrEqual(MaxAmount) {
		r.add("Selling price must be less than %s", MaxAmount)
	}
	if p.CriticalStockLevel < 0 {
		r.add("Critical stock level cannot be negative")
	}
	if p.StockLevel < 0 {
		r.add("Stock level cannot be negative")
	}
	return r.done()
}

// ValidateSupplier checks a supplier before create or update
func ValidateSupplier(s *supplierdomain.Supplier) Result {
	var r Result
	if blank(s.CompanyName) {
		r.add("Company name is required")
	}
	if blank(s.ContactPerson) {
		r.add("Contact person is required")
	}
	if blank(s.Phone) {
		r.add("Phone is required")
	}
	if blank(s.Email) {
		r.add("Email is required")
	}
	if !IsValidEmail(s.Email) {
		r.add("Invalid email format")
	}
	return r.done()
}

// OrderLine is one requested line of a new purchase order. UnitPrice is
// whatever the caller sent; it is checked but never persisted.
type OrderLine struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// ValidatePurchaseOrder checks the shape of a purchase order request
func ValidatePurchaseOrder(supplierID uint, lines []OrderLine) Result {
	var r Result
	if supplierID == 0 {
		r.add("Supplier is required")
	}
	if len(lines) == 0 {
		r.add("Purchase order must have at least one item")
	}
	for i, line := range lines {
		if line.ProductID == 0 {
			r.add("Item %d: product is required", i+1)
		}
		if line.Quantity <= 0 {
			r.add("Item %d: quantity must be greater than zero", i+1)
		} else if line.Quantity > MaxOrderQuantity {
			r.add("Item %d: quantity must not exceed %d", i+1, MaxOrderQuantity)
		}
		if line.UnitPrice.IsNegative() {
			r.add("Item %d: unit price cannot be negative", i+1)
		} else if line.UnitPrice.GreaterThanOrEqual(MaxAmount) {
			r.add("Item %d: unit price must be less than %s", i+1, MaxAmount)
		}
	}
	return r.done()
}

// ValidateOrderTotal checks a computed order total against the storable range
func ValidateOrderTotal(total decimal.Decimal) Result {
	var r Result
	if total.GreaterThanOrEqual(MaxAmount) {
		r.add("Purchase order total must be less than %s", MaxAmount)
	}
	return r.done()
}

// UserInput is the data a new account is created from
type UserInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// ValidateUser checks registration input
func ValidateUser(u UserInput) Result {
	var r Result
	if blank(u.Username) {
		r.add("Username is required")
	} else if utf8.RuneCountInString(u.Username) > maxUsernameLength {
		r.add("Username must not exceed %d characters", maxUsernameLength)
	}
	if blank(u.Email) {
		r.add("Email is required")
	} else if !IsValidEmail(u.Email) {
		r.add("Invalid email format")
	}
	if utf8.RuneCountInString(u.Password) < minPasswordLength {
		r.add("Password must be at least %d characters", minPasswordLength)
	} else if len(u.Password) > maxPasswordBytes {
		r.add("Password must not exceed %d bytes", maxPasswordBytes)
	}
	if u.Role != "" && !userdomain.IsValidRole(u.Role) {
		r.add("Role must be %s or %s", userdomain.RoleAdministrator, userdomain.RoleOperationUser)
	}
	return r.done()
}

// IsValidEmail accepts a bare address only: display names and anything the
// parser would rewrite are rejected.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
