package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFor(t *testing.T) {
	cases := []struct {
		name     string
		country  string
		timezone string
		want     Config
	}{
		{"indian country code", "IN", "", indiaConfig},
		{"indian country code overrides timezone", "IN", "America/New_York", indiaConfig},
		{"kolkata timezone fallback", "", "Asia/Kolkata", indiaConfig},
		{"legacy calcutta timezone", "", "Asia/Calcutta", indiaConfig},
		{"us country code", "US", "", internationalConfig},
		{"known country ignores timezone", "US", "Asia/Kolkata", internationalConfig},
		{"no signals", "", "", internationalConfig},
		{"other timezone", "", "Europe/Berlin", internationalConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ConfigFor(tc.country, tc.timezone))
		})
	}
}

func TestRegionalPricing(t *testing.T) {
	assert.Equal(t, int64(1500), indiaConfig.Amount)
	assert.Equal(t, "razorpay", indiaConfig.Provider)
	assert.Equal(t, int64(30), internationalConfig.Amount)
	assert.Equal(t, "paypal", internationalConfig.Provider)
}
