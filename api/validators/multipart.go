package validators

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductCreateForm is the parsed multipart payload for product creation.
type ProductCreateForm struct {
	NameEn           string `json:"nameEn" validate:"required"`
	NameAr           string `json:"nameAr" validate:"required"`
	Company          string `json:"company" validate:"required"`
	Category         string `json:"category" validate:"required"`
	Description      string `json:"description" validate:"required"`
	Rate             float64 `json:"rate" validate:"gte=0,lte=5"`
	CostPrice        decimal.Decimal
	RentPrice        *decimal.Decimal
	SellPrice        *decimal.Decimal
	AvailableForRent bool
	AvailableForSale bool
	RentStock        int `json:"rentStock" validate:"gte=0"`
	SaleStock        int `json:"saleStock" validate:"gte=0"`

	Images []*multipart.FileHeader
	Videos []*multipart.FileHeader
}

// ProductEditForm is the parsed multipart payload for product edits. Pointer
// fields distinguish "absent" from a zero value; only present fields update.
type ProductEditForm struct {
	NameEn           *string
	NameAr           *string
	Company          *string
	Category         *string
	Description      *string
	Rate             *float64
	CostPrice        *decimal.Decimal
	RentPrice        *decimal.Decimal
	SellPrice        *decimal.Decimal
	AvailableForRent *bool
	AvailableForSale *bool
	RentStock        *int
	SaleStock        *int

	Images []*multipart.FileHeader
	Videos []*multipart.FileHeader
}

// ParseProductCreateForm parses and validates a product creation form.
// maxMemory bounds the in-memory portion of the multipart parse.
func ParseProductCreateForm(r *http.Request, maxMemory int64) (*ProductCreateForm, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	form := &ProductCreateForm{
		NameEn:           r.FormValue("nameEn"),
		NameAr:           r.FormValue("nameAr"),
		Company:          r.FormValue("company"),
		Category:         r.FormValue("category"),
		Description:      r.FormValue("description"),
		AvailableForRent: r.FormValue("availableForRent") == "true",
		AvailableForSale: r.FormValue("availableForSale") == "true",
	}

	var err error
	if form.Rate, err = parseFloatField(r, "rate", 0); err != nil {
		return nil, err
	}
	if form.CostPrice, err = parseDecimalField(r, "costPrice"); err != nil {
		return nil, err
	}
	if form.RentPrice, err = parseOptionalDecimalField(r, "rentPrice"); err != nil {
		return nil, err
	}
	if form.SellPrice, err = parseOptionalDecimalField(r, "sellPrice"); err != nil {
		return nil, err
	}
	if form.RentStock, err = parseIntField(r, "rentStock", 0); err != nil {
		return nil, err
	}
	if form.SaleStock, err = parseIntField(r, "saleStock", 0); err != nil {
		return nil, err
	}

	if err := validate.Struct(form); err != nil {
		return nil, formatValidationErrors(err)
	}
	if err := validatePrices(form.CostPrice, form.RentPrice, form.SellPrice); err != nil {
		return nil, err
	}

	if r.MultipartForm != nil {
		form.Images = r.MultipartForm.File["images"]
		form.Videos = r.MultipartForm.File["videos"]
	}
	return form, nil
}

// ParseProductEditForm parses a sparse product edit form. A field updates the
// product only when its key is present in the request.
func ParseProductEditForm(r *http.Request, maxMemory int64) (*ProductEditForm, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	form := &ProductEditForm{}
	form.NameEn = optionalString(r, "nameEn")
	form.NameAr = optionalString(r, "nameAr")
	form.Company = optionalString(r, "company")
	form.Category = optionalString(r, "category")
	form.Description = optionalString(r, "description")

	var err error
	if form.Rate, err = optionalFloat(r, "rate"); err != nil {
		return nil, err
	}
	if form.CostPrice, err = parseOptionalDecimalField(r, "costPrice"); err != nil {
		return nil, err
	}
	if form.RentPrice, err = parseOptionalDecimalField(r, "rentPrice"); err != nil {
		return nil, err
	}
	if form.SellPrice, err = parseOptionalDecimalField(r, "sellPrice"); err != nil {
		return nil, err
	}
	if form.AvailableForRent, err = optionalBool(r, "availableForRent"); err != nil {
		return nil, err
	}
	if form.AvailableForSale, err = optionalBool(r, "availableForSale"); err != nil {
		return nil, err
	}
	if form.RentStock, err = optionalInt(r, "rentStock"); err != nil {
		return nil, err
	}
	if form.SaleStock, err = optionalInt(r, "saleStock"); err != nil {
		return nil, err
	}

	if form.Rate != nil && (*form.Rate < 0 || *form.Rate > 5) {
		return nil, fieldError("rate", "must be between 0 and 5")
	}
	if form.RentStock != nil && *form.RentStock < 0 {
		return nil, fieldError("rentStock", "must be at least 0")
	}
	if form.SaleStock != nil && *form.SaleStock < 0 {
		return nil, fieldError("saleStock", "must be at least 0")
	}
	var cost decimal.Decimal
	if form.CostPrice != nil {
		cost = *form.CostPrice
	}
	if err := validatePrices(cost, form.RentPrice, form.SellPrice); err != nil {
		return nil, err
	}

	if r.MultipartForm != nil {
		form.Images = r.MultipartForm.File["images"]
		form.Videos = r.MultipartForm.File["videos"]
	}
	return form, nil
}

func validatePrices(cost decimal.Decimal, rent, sell *decimal.Decimal) error {
	if cost.IsNegative() {
		return fieldError("costPrice", "must be at least 0")
	}
	if rent != nil && rent.IsNegative() {
		return fieldError("rentPrice", "must be at least 0")
	}
	if sell != nil && sell.IsNegative() {
		return fieldError("sellPrice", "must be at least 0")
	}
	return nil
}

func fieldError(field, msg string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{field: msg})
}

func formHas(r *http.Request, key string) bool {
	if r.MultipartForm == nil {
		return false
	}
	_, ok := r.MultipartForm.Value[key]
	return ok
}

func optionalString(r *http.Request, key string) *string {
	if !formHas(r, key) {
		return nil
	}
	v := r.FormValue(key)
	return &v
}

func optionalBool(r *http.Request, key string) (*bool, error) {
	if !formHas(r, key) {
		return nil, nil
	}
	switch r.FormValue(key) {
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	}
	return nil, fieldError(key, "must be true or false")
}

func optionalInt(r *http.Request, key string) (*int, error) {
	if !formHas(r, key) {
		return nil, nil
	}
	v, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return nil, fieldError(key, "must be an integer")
	}
	return &v, nil
}

func optionalFloat(r *http.Request, key string) (*float64, error) {
	if !formHas(r, key) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(r.FormValue(key), 64)
	if err != nil {
		return nil, fieldError(key, "must be a number")
	}
	return &v, nil
}

func parseIntField(r *http.Request, key string, fallback int) (int, error) {
	if !formHas(r, key) || r.FormValue(key) == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return 0, fieldError(key, "must be an integer")
	}
	return v, nil
}

func parseFloatField(r *http.Request, key string, fallback float64) (float64, error) {
	if !formHas(r, key) || r.FormValue(key) == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(r.FormValue(key), 64)
	if err != nil {
		return 0, fieldError(key, "must be a number")
	}
	return v, nil
}

func parseDecimalField(r *http.Request, key string) (decimal.Decimal, error) {
	raw := r.FormValue(key)
	if raw == "" {
		return decimal.Decimal{}, fieldError(key, "is required")
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fieldError(key, fmt.Sprintf("invalid amount %q", raw))
	}
	return v, nil
}

func parseOptionalDecimalField(r *http.Request, key string) (*decimal.Decimal, error) {
	if !formHas(r, key) || r.FormValue(key) == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(r.FormValue(key))
	if err != nil {
		return nil, fieldError(key, fmt.Sprintf("invalid amount %q", r.FormValue(key)))
	}
	return &v, nil
}
