package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/tair/mini-erp/internal/product/domain"
	supplierdomain "github.com/tair/mini-erp/internal/supplier/domain"
)

func validProduct() *productdomain.Product {
	return &productdomain.Product{
		Name:               "Hex Bolt M8",
		SKU:                "HB-M8",
		SellingPrice:       decimal.RequireFromString("0.35"),
		CriticalStockLevel: 100,
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *productdomain.Product)
		errors []string
	}{
		{name: "valid", mutate: func(p *productdomain.Product) {}},
		{
			name:   "blank name",
			mutate: func(p *productdomain.Product) { p.Name = "   " },
			errors: []string{"Product name is required"},
		},
		{
			name:   "long SKU",
			mutate: func(p *productdomain.Product) { p.SKU = strings.Repeat("X", 51) },
			errors: []string{"SKU must not exceed 50 characters"},
		},
		{
			name:   "zero price",
			mutate: func(p *productdomain.Product) { p.SellingPrice = decimal.Zero },
			errors: []string{"Selling price must be greater than zero"},
		},
		{
			name:   "price at the storable limit",
			mutate: func(p *productdomain.Product) { p.SellingPrice = decimal.New(1, 10) },
			errors: []string{"Selling price must be less than 10000000000"},
		},
		{
			name:   "largest storable price",
			mutate: func(p *productdomain.Product) { p.SellingPrice = decimal.RequireFromString("9999999999.99") },
		},
		{
			name:   "negative opening stock",
			mutate: func(p *productdomain.Product) { p.StockLevel = -1 },
			errors: []string{"Stock level cannot be negative"},
		},
		{
			name:   "zero critical level is allowed",
			mutate: func(p *productdomain.Product) { p.CriticalStockLevel = 0 },
		},
		{
			name: "every violation is reported in order",
			mutate: func(p *productdomain.Product) {
				p.Name = ""
				p.SKU = ""
				p.SellingPrice = decimal.NewFromInt(-1)
				p.CriticalStockLevel = -1
				p.StockLevel = -3
			},
			errors: []string{
				"Product name is required",
				"SKU is required",
				"Selling price must be greater than zero",
				"Critical stock level cannot be negative",
				"Stock level cannot be negative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(p)

			result := ValidateProduct(p)
			assert.Equal(t, len(tt.errors) == 0, result.IsValid)
			assert.Equal(t, tt.errors, result.Errors)
		})
	}
}

func TestValidateSupplier(t *testing.T) {
	valid := supplierdomain.Supplier{
		CompanyName:   "Acme",
		ContactPerson: "Jane Doe",
		Phone:         "+1 555 0100",
		Email:         "orders@acme.example",
	}

	tests := []struct {
		name   string
		mutate func(s *supplierdomain.Supplier)
		errors []string
	}{
		{name: "valid", mutate: func(s *supplierdomain.Supplier) {}},
		{
			name:   "malformed email",
			mutate: func(s *supplierdomain.Supplier) { s.Email = "not-an-email" },
			errors: []string{"Invalid email format"},
		},
		{
			name:   "email with display name",
			mutate: func(s *supplierdomain.Supplier) { s.Email = "Orders <orders@acme.example>" },
			errors: []string{"Invalid email format"},
		},
		{
			name: "all required fields blank",
			mutate: func(s *supplierdomain.Supplier) {
				*s = supplierdomain.Supplier{}
			},
			errors: []string{
				"Company name is required",
				"Contact person is required",
				"Phone is required",
				"Email is required",
				"Invalid email format",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			result := ValidateSupplier(&s)
			assert.Equal(t, len(tt.errors) == 0, result.IsValid)
			assert.Equal(t, tt.errors, result.Errors)
		})
	}
}

func TestValidatePurchaseOrder(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		result := ValidatePurchaseOrder(1, nil)
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"Purchase order must have at least one item"}, result.Errors)
	})

	t.Run("bad lines", func(t *testing.T) {
		result := ValidatePurchaseOrder(0, []OrderLine{
			{ProductID: 7, Quantity: 0},
			{ProductID: 8, Quantity: 1, UnitPrice: decimal.NewFromInt(-5)},
		})
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{
			"Supplier is required",
			"Item 1: quantity must be greater than zero",
			"Item 2: unit price cannot be negative",
		}, result.Errors)
	})

	t.Run("lines beyond storable range", func(t *testing.T) {
		result := ValidatePurchaseOrder(1, []OrderLine{
			{ProductID: 7, Quantity: MaxOrderQuantity + 1},
			{ProductID: 8, Quantity: 1, UnitPrice: decimal.New(1, 10)},
		})
		assert.Equal(t, []string{
			"Item 1: quantity must not exceed 1000000",
			"Item 2: unit price must be less than 10000000000",
		}, result.Errors)
	})

	t.Run("valid", func(t *testing.T) {
		result := ValidatePurchaseOrder(1, []OrderLine{{ProductID: 7, Quantity: MaxOrderQuantity}})
		assert.True(t, result.IsValid)
		assert.NoError(t, result.Err())
	})
}

func TestValidateOrderTotal(t *testing.T) {
	assert.True(t, ValidateOrderTotal(decimal.RequireFromString("9999999999.99")).IsValid)

	result := ValidateOrderTotal(decimal.New(1, 10))
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Purchase order total must be less than 10000000000"}, result.Errors)
}

func TestValidateUser(t *testing.T) {
	result := ValidateUser(UserInput{
		Username: strings.Repeat("u", 51),
		Email:    "nope",
		Password: "12345",
		Role:     "Root",
	})
	require.False(t, result.IsValid)
	assert.Len(t, result.Errors, 4)

	result = ValidateUser(UserInput{
		Username: "clerk",
		Email:    "clerk@erp.example",
		Password: "secret1",
	})
	assert.True(t, result.IsValid)
}

func TestValidateUser_PasswordLength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errors   []string
	}{
		{name: "72 bytes", password: strings.Repeat("p", 72)},
		{name: "73 bytes", password: strings.Repeat("p", 73), errors: []string{"Password must not exceed 72 bytes"}},
		{name: "multibyte runes count as bytes", password: strings.Repeat("é", 40), errors: []string{"Password must not exceed 72 bytes"}},
		{name: "too short", password: "abc", errors: []string{"Password must be at least 6 characters"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateUser(UserInput{Username: "clerk", Email: "clerk@erp.example", Password: tt.password})
			assert.Equal(t, len(tt.errors) == 0, result.IsValid)
			assert.Equal(t, tt.errors, result.Errors)
		})
	}
}

func TestResult_Err(t *testing.T) {
	err := ValidateProduct(&productdomain.Product{}).Err()

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "SKU is required")
	assert.Contains(t, err.Error(), "validation failed")
}
