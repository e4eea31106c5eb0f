package address

import (
	"strings"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// Block is the address part of the gateway's customer and delivery sections
type Block struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Address1    string `json:"address1,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Phone1      string `json:"phone1,omitempty"`
	Phone2      string `json:"phone2,omitempty"`
}

// FromHost maps a host address onto a gateway address block
func FromHost(a domain.Address) (Block, error) {
	street, houseNumber, err := SplitStreet(a.Address1, a.Address2)
	if err != nil {
		return Block{}, err
	}

	phone2 := ""
	if a.Phone != "" && a.Mobile != "" && a.Mobile != a.Phone {
		phone2 = a.Mobile
	}

	return Block{
		FirstName:   strings.TrimSpace(a.FirstName),
		LastName:    strings.TrimSpace(a.LastName),
		CompanyName: strings.TrimSpace(a.Company),
		Address1:    street,
		HouseNumber: houseNumber,
		ZipCode:     strings.TrimSpace(a.PostCode),
		City:        strings.TrimSpace(a.City),
		State:       strings.TrimSpace(a.State),
		Country:     strings.ToUpper(strings.TrimSpace(a.CountryISO)),
		Phone1:      a.PreferredPhone(),
		Phone2:      phone2,
	}, nil
}
