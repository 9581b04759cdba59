package signal

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Solana addresses are base58 (no 0, O, I or l) public keys of 32-44 characters.
var base58Address = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

var addressValidator = newAddressValidator()

func newAddressValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("solana_address", func(fl validator.FieldLevel) bool {
		return base58Address.MatchString(fl.Field().String())
	})
	return v
}

type addressInput struct {
	ContractAddress string `validate:"required,solana_address"`
}

// ValidateAddress trims and checks the shape of a token mint address.
func ValidateAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	err := addressValidator.Struct(addressInput{ContractAddress: address})
	if err == nil {
		return address, nil
	}

	reason := "must be a base58 Solana address of 32-44 characters"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
		reason = "is required"
	}
	return "", &ValidationError{Field: "contractAddress", Reason: reason}
}
