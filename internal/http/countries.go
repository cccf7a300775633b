package http

// Country is one entry of GET /api/research/config/countries —
// spec.md §6.
type Country struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	DefaultLanguage string `json:"defaultLanguage"`
	Currency        string `json:"currency"`
}

// supportedCountries is the fixed set of countries the metrics
// provider is known to support, mirroring the country/language
// coverage keyword-research providers typically expose.
var supportedCountries = []Country{
	{Code: "US", Name: "United States", DefaultLanguage: "en", Currency: "USD"},
	{Code: "GB", Name: "United Kingdom", DefaultLanguage: "en", Currency: "GBP"},
	{Code: "CA", Name: "Canada", DefaultLanguage: "en", Currency: "CAD"},
	{Code: "AU", Name: "Australia", DefaultLanguage: "en", Currency: "AUD"},
	{Code: "DE", Name: "Germany", DefaultLanguage: "de", Currency: "EUR"},
	{Code: "FR", Name: "France", DefaultLanguage: "fr", Currency: "EUR"},
	{Code: "ES", Name: "Spain", DefaultLanguage: "es", Currency: "EUR"},
	{Code: "IT", Name: "Italy", DefaultLanguage: "it", Currency: "EUR"},
	{Code: "NL", Name: "Netherlands", DefaultLanguage: "nl", Currency: "EUR"},
	{Code: "CH", Name: "Switzerland", DefaultLanguage: "de", Currency: "CHF"},
	{Code: "BR", Name: "Brazil", DefaultLanguage: "pt", Currency: "BRL"},
	{Code: "MX", Name: "Mexico", DefaultLanguage: "es", Currency: "MXN"},
	{Code: "IN", Name: "India", DefaultLanguage: "en", Currency: "INR"},
	{Code: "JP", Name: "Japan", DefaultLanguage: "ja", Currency: "JPY"},
}

// supportedLanguages is the fixed set of language codes accepted by
// the metrics provider and seed generator.
var supportedLanguages = []string{
	"en", "de", "fr", "es", "it", "nl", "pt", "ja",
}

var countryByCode = func() map[string]Country {
	m := make(map[string]Country, len(supportedCountries))
	for _, c := range supportedCountries {
		m[c.Code] = c
	}
	return m
}()

// resolveLanguage picks the language a job runs with: an explicit,
// supported request language wins; otherwise fall back to the
// requested country's default language; otherwise "en".
func resolveLanguage(requested, country string) string {
	for _, l := range supportedLanguages {
		if l == requested {
			return requested
		}
	}
	if c, ok := countryByCode[country]; ok {
		return c.DefaultLanguage
	}
	return "en"
}
