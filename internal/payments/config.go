package payments

// Config describes how the frontend should collect payment for one
// appointment. Indian visitors pay in rupees through Razorpay;
// everyone else pays in dollars through PayPal.
type Config struct {
	Currency string `json:"currency"`
	Symbol   string `json:"symbol"`
	Amount   int64  `json:"amount"`
	Provider string `json:"provider"`
}

var (
	indiaConfig = Config{
		Currency: "INR",
		Symbol:   "₹",
		Amount:   1500,
		Provider: "razorpay",
	}
	internationalConfig = Config{
		Currency: "USD",
		Symbol:   "$",
		Amount:   30,
		Provider: "paypal",
	}
)

// ConfigFor selects the payment configuration from the visitor's
// country code, falling back to their IANA timezone when the country is
// unknown.
func ConfigFor(country, timezone string) Config {
	if country == "IN" {
		return indiaConfig
	}
	if country == "" && isIndianTimezone(timezone) {
		return indiaConfig
	}
	return internationalConfig
}

func isIndianTimezone(tz string) bool {
	return tz == "Asia/Kolkata" || tz == "Asia/Calcutta"
}
