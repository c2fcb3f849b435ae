package constants

// Semantic entity types a field rule may request from the recognizer.
const (
	EntityDate     = "DATE"
	EntityMoney    = "MONEY"
	EntityPerson   = "PERSON"
	EntityOrg      = "ORG"
	EntityGPE      = "GPE"
	EntityLocation = "LOCATION"
)

// EntityTypes holds the allowed entity_type values in a field rule.
var EntityTypes = []string{EntityDate, EntityMoney, EntityPerson, EntityOrg, EntityGPE, EntityLocation}

// Value-type hints for the keyword-window strategy.
const (
	HintAmount       = "amount"
	HintDate         = "date"
	HintLicensePlate = "license-plate"
	HintName         = "name"
	HintCompany      = "company"
	HintAddress      = "address"
	HintPhone        = "phone"
)

// ValueTypeHints holds the allowed value_type_hint values in a field rule.
var ValueTypeHints = []string{
	HintAmount, HintDate, HintLicensePlate, HintName, HintCompany, HintAddress, HintPhone,
}

// Post-process function names a field rule may declare.
const (
	PostAmountNormalize = "amount_normalize"
	PostDateNormalize   = "date_normalize"
)

// PostProcessNames holds the known post_process values. Unknown names are
// treated as identity by the resolver, not rejected.
var PostProcessNames = []string{PostAmountNormalize, PostDateNormalize}

// LowConfidenceThreshold flags extracted fields for manual review.
const LowConfidenceThreshold = 80
