package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	priceMaxDigits         = 10
	priceDecimalPlaces     = 2
	ratingMaxDigits        = 2
	ratingDecimalPlaces    = 1
	variationMaxLength     = 50
	MaxShopNameLength      = 100
	MaxProductNameLength   = 255
	MaxCategoryLength      = 50
	MaxImageURLLength      = 500
	msgRequired            = "This field is required."
	msgNull                = "This field may not be null."
	msgBlank               = "This field may not be blank."
	msgInvalidNumber       = "A valid number is required."
	msgInvalidInteger      = "A valid integer is required."
	msgNonNegative         = "Ensure this value is greater than or equal to 0."
	msgPriceNotPositive    = "Product price must be greater than zero"
	msgQuantityNotPositive = "Quantity must be greater than zero"
	msgShopNameTaken       = "Shop name already exists"
	msgInvalidString       = "Not a valid string."
	msgNotAList            = "Expected a list of items."
)

var (
	ratingMax = decimal.NewFromInt(5)
	maxInt32  = decimal.NewFromInt(1<<31 - 1)
)

// AllowedImageTypes are the content types accepted for product images.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ShopNameLookup resolves whether a shop with exactly this name exists.
type ShopNameLookup interface {
	ShopNameExists(ctx context.Context, name string) (bool, error)
}

// Required rejects a field that was not supplied at all
func Required(field string) *FieldError {
	return newFieldError(field, CodeRequired, msgRequired)
}

// Null rejects an explicit JSON null for a non-nullable field
func Null(field string) *FieldError {
	return newFieldError(field, CodeNull, msgNull)
}

// IsNull reports whether raw is the JSON literal null
func IsNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Name rejects values that are empty once whitespace is stripped.
func Name(field, value, message string) *FieldError {
	if strings.TrimSpace(value) == "" {
		if message == "" {
			message = msgBlank
		}
		return newFieldError(field, CodeBlank, message)
	}
	return nil
}

func MaxLength(field, value string, max int) *FieldError {
	if utf8.RuneCountInString(value) > max {
		return newFieldError(field, CodeMaxLength,
			fmt.Sprintf("Ensure this field has no more than %d characters.", max))
	}
	return nil
}

func MinLength(field, value string, min int) *FieldError {
	if utf8.RuneCountInString(value) < min {
		return newFieldError(field, CodeMinLength,
			fmt.Sprintf("Ensure this field has at least %d characters.", min))
	}
	return nil
}

// ParseDecimal reads a JSON number or numeric string as a decimal
func ParseDecimal(field string, raw json.RawMessage) (decimal.Decimal, *FieldError) {
	if IsNull(raw) {
		return decimal.Decimal{}, Null(field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(bytes.TrimSpace(raw))
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, newFieldError(field, CodeInvalid, msgInvalidNumber)
	}
	return d, nil
}

// decimalShape returns the digit count and decimal places of d, ignoring
// trailing fractional zeros.
func decimalShape(d decimal.Decimal) (digits, places int) {
	s := d.Abs().String()
	whole, frac, _ := strings.Cut(s, ".")
	whole = strings.TrimLeft(whole, "0")
	return len(whole) + len(frac), len(frac)
}

func checkPrecision(field string, d decimal.Decimal, maxDigits, maxPlaces int) *FieldError {
	digits, places := decimalShape(d)
	if places > maxPlaces {
		return newFieldError(field, CodeMaxDecimalPlaces,
			fmt.Sprintf("Ensure that there are no more than %d decimal places.", maxPlaces))
	}
	if digits > maxDigits {
		return newFieldError(field, CodeMaxDigits,
			fmt.Sprintf("Ensure that there are no more than %d digits in total.", maxDigits))
	}
	return nil
}

// Price accepts strictly positive amounts with at most two decimal places
func Price(field string, d decimal.Decimal) *FieldError {
	if !d.IsPositive() {
		return newFieldError(field, CodeMinValue, msgPriceNotPositive)
	}
	return checkPrecision(field, d, priceMaxDigits, priceDecimalPlaces)
}

// Quantity accepts strictly positive counts; used on creation
func Quantity(field string, q int) *FieldError {
	if q <= 0 {
		return newFieldError(field, CodeMinValue, msgQuantityNotPositive)
	}
	return nil
}

// NonNegativeQuantity accepts zero and up
func NonNegativeQuantity(field string, q int) *FieldError {
	if q < 0 {
		return newFieldError(field, CodeMinValue, msgNonNegative)
	}
	return nil
}

// Variations rejects repeated labels (exact string equality) and
// labels longer than the column allows. An empty list is valid.
func Variations(field string, values []string) *FieldError {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if utf8.RuneCountInString(v) > variationMaxLength {
			return newFieldError(field, CodeMaxLength,
				fmt.Sprintf("Ensure this field has no more than %d characters.", variationMaxLength))
		}
		if _, dup := seen[v]; dup {
			return newFieldError(field, CodeDuplicate,
				fmt.Sprintf("Variations must be unique; %q appears more than once", v))
		}
		seen[v] = struct{}{}
	}
	return nil
}

// ProductRating accepts 0 <= r <= 5 with one decimal place
func ProductRating(field string, r decimal.Decimal) *FieldError {
	if r.IsNegative() || r.GreaterThan(ratingMax) {
		return newFieldError(field, CodeMaxValue, "Rating must be between 0 and 5 inclusive")
	}
	return checkPrecision(field, r, ratingMaxDigits, ratingDecimalPlaces)
}

// ReviewRating accepts 0 < r <= 5 with one decimal place
func ReviewRating(field string, r decimal.Decimal) *FieldError {
	if !r.IsPositive() || r.GreaterThan(ratingMax) {
		return newFieldError(field, CodeMaxValue, "Rating must be greater than 0 and at most 5")
	}
	return checkPrecision(field, r, ratingMaxDigits, ratingDecimalPlaces)
}

// PrimaryKey is a foreign key reference as supplied by the client.
type PrimaryKey struct {
	ID  uint
	Raw string
}

// ParsePrimaryKey accepts an integer-shaped JSON number or a digit string.
// Integers that cannot name a row (zero, negative, overflow) parse but
// come back with ID 0, so the lookup reports them as missing.
func ParsePrimaryKey(field string, raw json.RawMessage) (PrimaryKey, *FieldError) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return PrimaryKey{}, Required(field)
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return PrimaryKey{}, incorrectType(field, "str")
	}

	var text string
	switch val := v.(type) {
	case nil:
		return PrimaryKey{}, Null(field)
	case json.Number:
		text = val.String()
		if strings.ContainsAny(text, ".eE") {
			return PrimaryKey{}, incorrectType(field, "float")
		}
	case string:
		text = strings.TrimSpace(val)
	case bool:
		return PrimaryKey{}, incorrectType(field, "bool")
	case []interface{}:
		return PrimaryKey{}, incorrectType(field, "list")
	default:
		return PrimaryKey{}, incorrectType(field, "dict")
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return PrimaryKey{Raw: text}, nil
		}
		return PrimaryKey{}, incorrectType(field, "str")
	}
	if n <= 0 {
		return PrimaryKey{Raw: text}, nil
	}
	return PrimaryKey{ID: uint(n), Raw: text}, nil
}

func incorrectType(field, got string) *FieldError {
	return newFieldError(field, CodeIncorrectType,
		fmt.Sprintf("Incorrect type. Expected pk value, received %s.", got))
}

// DoesNotExist rejects a well-formed key that resolves to no row
func DoesNotExist(field, raw string) *FieldError {
	return newFieldError(field, CodeDoesNotExist,
		fmt.Sprintf("Invalid pk %q - object does not exist.", raw))
}

// UniqueShopName rejects a name another shop already uses (case-sensitive).
// The returned error is a lookup failure, not a rejection.
func UniqueShopName(ctx context.Context, field, name string, lookup ShopNameLookup) (*FieldError, error) {
	exists, err := lookup.ShopNameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return ShopNameTaken(field), nil
	}
	return nil, nil
}

// ShopNameTaken is the rejection for a duplicate shop name
func ShopNameTaken(field string) *FieldError {
	return newFieldError(field, CodeUnique, msgShopNameTaken)
}

// ContentType accepts only the image types in AllowedImageTypes
func ContentType(field, contentType string) *FieldError {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range AllowedImageTypes {
		if ct == allowed {
			return nil
		}
	}
	return newFieldError(field, CodeInvalidChoice, fmt.Sprintf("%q is not a valid choice.", contentType))
}

// ParseInt reads a JSON number or numeric string holding a whole number
func ParseInt(field string, raw json.RawMessage) (int, *FieldError) {
	if IsNull(raw) {
		return 0, Null(field)
	}
	d, fe := ParseDecimal(field, raw)
	if fe != nil || !d.IsInteger() || d.Abs().GreaterThan(maxInt32) {
		return 0, newFieldError(field, CodeInvalid, msgInvalidInteger)
	}
	return int(d.IntPart()), nil
}

// ParseOptionalString reads a string that may be explicitly null
func ParseOptionalString(field string, raw json.RawMessage) (*string, *FieldError) {
	if IsNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, newFieldError(field, CodeInvalid, msgInvalidString)
	}
	return &s, nil
}

// ParseString reads a string field that may not be null
func ParseString(field string, raw json.RawMessage) (string, *FieldError) {
	if IsNull(raw) {
		return "", Null(field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", newFieldError(field, CodeInvalid, msgInvalidString)
	}
	return s, nil
}

// ParseStringList reads a non-null JSON array whose items are all strings
func ParseStringList(field string, raw json.RawMessage) ([]string, *FieldError) {
	if IsNull(raw) {
		return nil, Null(field)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, newFieldError(field, CodeNotAList, msgNotAList)
	}
	values := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if IsNull(item) || json.Unmarshal(item, &s) != nil {
			return nil, newFieldError(field, CodeInvalid, msgInvalidString)
		}
		values = append(values, s)
	}
	return values, nil
}
