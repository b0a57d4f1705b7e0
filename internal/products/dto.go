package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rentiva/rentiva-backend/pkg/db/models"
)

// ProductDTO is the catalog entry payload returned to clients.
type ProductDTO struct {
	ID               int64             `json:"id"`
	NameEn           string            `json:"nameEn"`
	NameAr           string            `json:"nameAr"`
	Company          string            `json:"company"`
	Category         string            `json:"category"`
	Description      string            `json:"description"`
	Rate             float64           `json:"rate"`
	CostPrice        decimal.Decimal   `json:"costPrice"`
	RentPrice        *decimal.Decimal  `json:"rentPrice"`
	SellPrice        *decimal.Decimal  `json:"sellPrice"`
	AvailableForRent bool              `json:"availableForRent"`
	AvailableForSale bool              `json:"availableForSale"`
	RentStock        int               `json:"rentStock"`
	SaleStock        int               `json:"saleStock"`
	Images           []string          `json:"images"`
	QRCode           *string           `json:"qrCode"`
	Videos           []ProductVideoDTO `json:"videos,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// ProductVideoDTO is a single promotional clip attached to a product.
type ProductVideoDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio"`
	URL  string `json:"url"`
}

// NewProductDTO builds a DTO from the persisted model. Videos are included
// only when loaded.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:               product.ID,
		NameEn:           product.NameEn,
		NameAr:           product.NameAr,
		Company:          product.Company,
		Category:         product.Category,
		Description:      product.Description,
		Rate:             product.Rate,
		CostPrice:        product.CostPrice,
		RentPrice:        product.RentPrice,
		SellPrice:        product.SellPrice,
		AvailableForRent: product.AvailableForRent,
		AvailableForSale: product.AvailableForSale,
		RentStock:        product.RentStock,
		SaleStock:        product.SaleStock,
		Images:           append([]string{}, product.Images...),
		QRCode:           product.QRCode,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
	for _, video := range product.Videos {
		dto.Videos = append(dto.Videos, ProductVideoDTO{
			ID:   video.ID,
			Name: video.Name,
			Bio:  video.Bio,
			URL:  video.URL,
		})
	}
	return dto
}

// NewProductDTOs maps a slice of models.
func NewProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i]))
	}
	return dtos
}
