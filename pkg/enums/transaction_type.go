package enums

import "fmt"

// TransactionType tags a cart line as a sale or rental intent. It decides
// which stock pool the quantity is checked against.
type TransactionType string

const (
	TransactionTypeSale TransactionType = "SALE"
	TransactionTypeRent TransactionType = "RENT"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeSale,
	TransactionTypeRent,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
