package models

// Issuer identifiers used in CardCompany fields and log output.
// The set is closed and slowly changing; parsers are registered in a
// fixed order keyed by these names.
const (
	CompanySMBC    = "smbc"
	CompanyJCB     = "jcb"
	CompanyRakuten = "rakuten"
	CompanyMUFG    = "mufg"
	CompanyVisa    = "visa"
)

// MaxAmount is the largest amount magnitude accepted from a parsed email.
// Anything beyond this is treated as a mis-parse, not a real transaction.
const MaxAmount = 2147483647

// MaxMerchantLength caps the extracted merchant string.
const MaxMerchantLength = 1000
