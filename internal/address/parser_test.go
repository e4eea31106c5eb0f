package address

import (
	"testing"

	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStreet(t *testing.T) {
	tests := []struct {
		name       string
		address1   string
		address2   string
		wantStreet string
		wantHouse  string
	}{
		{name: "trailing number", address1: "Kraanspoor 39", wantStreet: "Kraanspoor", wantHouse: "39"},
		{name: "trailing number with suffix", address1: "Kraanspoor 39C", wantStreet: "Kraanspoor", wantHouse: "39C"},
		{name: "trailing range", address1: "Damrak 1-3", wantStreet: "Damrak", wantHouse: "1-3"},
		{name: "trailing addition", address1: "Main Street 12 bis", wantStreet: "Main Street", wantHouse: "12 bis"},
		{name: "comma before number", address1: "Kraanspoor, 39", wantStreet: "Kraanspoor", wantHouse: "39"},
		{name: "number in second line", address1: "Kraanspoor", address2: "39 C", wantStreet: "Kraanspoor", wantHouse: "39 C"},
		{name: "leading number", address1: "39 Main Street", wantStreet: "Main Street", wantHouse: "39"},
		{name: "leading number with letter", address1: "12B Baker Street", wantStreet: "Baker Street", wantHouse: "12B"},
		{name: "street name with digits", address1: "Plein 1945 12", wantStreet: "Plein 1945", wantHouse: "12"},
		{name: "extra whitespace", address1: "  Kraanspoor   39 ", wantStreet: "Kraanspoor", wantHouse: "39"},
		{name: "only second line", address2: "Kraanspoor 39", wantStreet: "Kraanspoor", wantHouse: "39"},
		{name: "no number", address1: "Postbus", wantStreet: "Postbus", wantHouse: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			street, house, err := SplitStreet(tt.address1, tt.address2)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStreet, street)
			assert.Equal(t, tt.wantHouse, house)
		})
	}
}

func TestSplitStreet_Empty(t *testing.T) {
	_, _, err := SplitStreet("  ", "")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeAddressInvalid))
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestLocale(t *testing.T) {
	assert.Equal(t, "nl_NL", Locale("nl", "nl"))
	assert.Equal(t, "en_GB", Locale("EN", "gb"))
	assert.Equal(t, "de_AT", Locale("de-de", "AT"))
	assert.Equal(t, "fr_BE", Locale("fr-be", ""))
	assert.Equal(t, "it_IT", Locale("it", ""))
	assert.Equal(t, "en_US", Locale("", "NL"))
}

func TestFromHost(t *testing.T) {
	got, err := FromHost(domain.Address{
		FirstName:  " Jan ",
		LastName:   "Jansen",
		Address1:   "Kraanspoor 39C",
		PostCode:   "1033 SC",
		City:       "Amsterdam",
		CountryISO: "nl",
		Phone:      "0201234567",
		Mobile:     "0612345678",
	})
	require.NoError(t, err)

	assert.Equal(t, Block{
		FirstName:   "Jan",
		LastName:    "Jansen",
		Address1:    "Kraanspoor",
		HouseNumber: "39C",
		ZipCode:     "1033 SC",
		City:        "Amsterdam",
		Country:     "NL",
		Phone1:      "0201234567",
		Phone2:      "0612345678",
	}, got)
}

func TestFromHost_MobileOnly(t *testing.T) {
	got, err := FromHost(domain.Address{Address1: "Damrak 1", Mobile: "0612345678"})
	require.NoError(t, err)

	assert.Equal(t, "0612345678", got.Phone1)
	assert.Empty(t, got.Phone2)
}

func TestFromHost_EmptyStreet(t *testing.T) {
	_, err := FromHost(domain.Address{City: "Amsterdam"})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
