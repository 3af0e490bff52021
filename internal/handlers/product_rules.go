package handlers

import "productsapi/internal/validation"

// Validation messages returned in the errors array.
const (
	MsgInvalidID           = "invalid id"
	MsgEmptyName           = "product name cannot be empty"
	MsgInvalidPriceValue   = "invalid value"
	MsgEmptyPrice          = "price cannot be empty"
	MsgInvalidPrice        = "invalid price"
	MsgInvalidAvailability = "invalid availability value"
)

func nameRule() validation.Rule {
	return validation.Body("name").
		NotEmpty(MsgEmptyName).
		Rule()
}

func priceRule() validation.Rule {
	return validation.Body("price").
		Numeric(MsgInvalidPriceValue).
		NotEmpty(MsgEmptyPrice).
		Positive(MsgInvalidPrice).
		Rule()
}

func idRule() validation.Rule {
	return validation.Param("id").
		Int(MsgInvalidID).
		Rule()
}

var (
	idRules = validation.Chain{idRule()}

	createProductRules = validation.Chain{
		nameRule(),
		priceRule(),
	}

	updateProductRules = validation.Chain{
		nameRule(),
		priceRule(),
		validation.Body("aviability").
			Boolean(MsgInvalidAvailability).
			Rule(),
		idRule(),
	}
)
