package domain

// Customer is the shopper placing the order
type Customer struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Birthday    string `json:"birthday,omitempty"` // YYYY-MM-DD
	Gender      string `json:"gender,omitempty"`
	LanguageISO string `json:"language_iso,omitempty"`
	IsGuest     bool   `json:"is_guest"`
}

// Address is a host platform address record
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company,omitempty"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	PostCode   string `json:"postcode"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	CountryISO string `json:"country_iso"`
	Phone      string `json:"phone,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
}

// PreferredPhone returns the landline when present, the mobile number otherwise
func (a *Address) PreferredPhone() string {
	if a.Phone != "" {
		return a.Phone
	}
	return a.Mobile
}
