package checkout

import (
	"regexp"

	"github.com/fjod/clothify/internal/domain"
)

// spaceClass is the whitespace set browsers use for \s: ASCII whitespace plus
// vertical tab, Unicode space separators, line/paragraph separators and BOM.
const spaceClass = `\s\x0B\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	emailPattern      = regexp.MustCompile(`^[^@` + spaceClass + `]+@[^@` + spaceClass + `]+\.[^@` + spaceClass + `]+$`)
	cardNumberPattern = regexp.MustCompile(`^\d{12,19}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvcPattern        = regexp.MustCompile(`^\d{3,4}$`)
	whitespace        = regexp.MustCompile(`[` + spaceClass + `]+`)
)

// Form is the submitted checkout form. Card fields are validated and then
// dropped; they never reach an Order.
type Form struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	ZIP        string `json:"zip"`
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVC        string `json:"cvc"`
	Agree      bool   `json:"agree"`
}

type rule struct {
	field   string
	message string
	ok      func(f *Form) bool
}

// Order matters: the first failing rule is the one reported.
var rules = []rule{
	{"fullName", "Full name is required", func(f *Form) bool { return f.FullName != "" }},
	{"email", "Valid email is required", func(f *Form) bool { return emailPattern.MatchString(f.Email) }},
	{"address", "Address is required", func(f *Form) bool { return f.Address != "" }},
	{"city", "City is required", func(f *Form) bool { return f.City != "" }},
	{"country", "Country is required", func(f *Form) bool { return f.Country != "" }},
	{"zip", "ZIP is required", func(f *Form) bool { return f.ZIP != "" }},
	{"cardName", "Name on card is required", func(f *Form) bool { return f.CardName != "" }},
	{"cardNumber", "Card number looks invalid", func(f *Form) bool {
		return cardNumberPattern.MatchString(whitespace.ReplaceAllString(f.CardNumber, ""))
	}},
	{"expiry", "Expiry must be MM/YY", func(f *Form) bool { return expiryPattern.MatchString(f.Expiry) }},
	{"cvc", "CVC looks invalid", func(f *Form) bool { return cvcPattern.MatchString(f.CVC) }},
	{"agree", "You must accept the demo notice", func(f *Form) bool { return f.Agree }},
}

// Validate returns a *ValidationError for the first rule the form breaks.
func (f *Form) Validate() error {
	for _, r := range rules {
		if !r.ok(f) {
			return &ValidationError{Field: r.field, Message: r.message}
		}
	}
	return nil
}

func (f *Form) Customer() domain.Customer {
	return domain.Customer{
		FullName: f.FullName,
		Email:    f.Email,
		Phone:    f.Phone,
		Address:  f.Address,
		City:     f.City,
		Country:  f.Country,
		ZIP:      f.ZIP,
	}
}
