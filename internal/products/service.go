package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/rentiva/rentiva-backend/pkg/db"
	"github.com/rentiva/rentiva-backend/pkg/db/models"
	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/rentiva/rentiva-backend/pkg/logger"
	"github.com/rentiva/rentiva-backend/pkg/metrics"
	"github.com/rentiva/rentiva-backend/pkg/uploads"
)

// Service exposes catalog management operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Edit(ctx context.Context, productID int64, input EditProductInput) (*ProductDTO, error)
	Remove(ctx context.Context, productID int64) (*ProductDTO, error)
	Fetch(ctx context.Context, category string, withVideos bool) ([]ProductDTO, error)
	FindByQRPayload(ctx context.Context, payload string) (*ProductDTO, error)
	RegenerateQR(ctx context.Context, productID int64) (*ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	NameEn           string
	NameAr           string
	Company          string
	Category         string
	Description      string
	Rate             float64
	CostPrice        decimal.Decimal
	RentPrice        *decimal.Decimal
	SellPrice        *decimal.Decimal
	AvailableForRent bool
	AvailableForSale bool
	RentStock        int
	SaleStock        int
	Images           []uploads.File
	Videos           []uploads.File
}

// EditProductInput holds optional mutation values for a product. Nil fields
// leave the stored value untouched; uploaded media is appended.
type EditProductInput struct {
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
	Images           []uploads.File
	Videos           []uploads.File
}

type mediaStore interface {
	SaveImage(uploads.File) (string, error)
	SaveVideo(uploads.File) (string, error)
	QRImagePath(productID int64) (fsPath string, urlPath string)
	Remove(urlPath string) error
}

type qrRenderer interface {
	Render(content, path string) error
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo          *Repository
	DBClient      *db.Client
	Media         mediaStore
	QR            qrRenderer
	QRMetrics     *metrics.QRMetrics
	Logger        *logger.Logger
	PublicBaseURL string
}

type service struct {
	repo      *Repository
	dbClient  *db.Client
	media     mediaStore
	qr        qrRenderer
	qrMetrics *metrics.QRMetrics
	logg      *logger.Logger
	baseURL   string
}

// NewService constructs a product service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media store required")
	}
	if params.QR == nil {
		return nil, fmt.Errorf("qr renderer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      params.Repo,
		dbClient:  params.DBClient,
		media:     params.Media,
		qr:        params.QR,
		qrMetrics: params.QRMetrics,
		logg:      params.Logger,
		baseURL:   strings.TrimRight(params.PublicBaseURL, "/"),
	}, nil
}

// Create stores uploaded media, inserts the product with its nested videos,
// then renders a QR image embedding the new identifier and writes its path
// back. The QR phase must run after the insert because the payload embeds the
// generated id. A QR failure is logged and counted but never fails creation;
// the image can be regenerated later.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	imagePaths, err := s.saveImages(input.Images)
	if err != nil {
		return nil, err
	}
	videos, err := s.saveVideos(input.Videos)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		NameEn:           input.NameEn,
		NameAr:           input.NameAr,
		Company:          input.Company,
		Category:         input.Category,
		Description:      input.Description,
		Rate:             input.Rate,
		CostPrice:        input.CostPrice,
		RentPrice:        input.RentPrice,
		SellPrice:        input.SellPrice,
		AvailableForRent: input.AvailableForRent,
		AvailableForSale: input.AvailableForSale,
		RentStock:        input.RentStock,
		SaleStock:        input.SaleStock,
		Images:           imagePaths,
		Videos:           videos,
	}

	if _, err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	ctx = s.logg.WithProductID(ctx, product.ID)
	if urlPath, err := s.writeQRCode(ctx, product.ID); err != nil {
		s.qrMetrics.IncFailure()
		s.logg.Error(ctx, "qr.generation_failed", err)
	} else {
		s.qrMetrics.IncSuccess()
		product.QRCode = &urlPath
	}

	return NewProductDTO(product), nil
}

// Edit applies a sparse update. Only fields present in the input change;
// newly uploaded images append to the existing list and new videos create
// additional rows.
func (s *service) Edit(ctx context.Context, productID int64, input EditProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	imagePaths, err := s.saveImages(input.Images)
	if err != nil {
		return nil, err
	}
	videos, err := s.saveVideos(input.Videos)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		videos[i].ProductID = productID
	}

	applyEditToProduct(product, input)
	product.Images = append(product.Images, imagePaths...)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.SaveProduct(ctx, product); err != nil {
			return err
		}
		return txRepo.CreateVideos(ctx, videos)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	updated, err := s.repo.FindByIDWithVideos(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return NewProductDTO(updated), nil
}

// Remove deletes the product and its video rows, videos first so the product
// row never outlives a dangling reference. Stored media files are cleaned up
// afterwards; cleanup failures are logged, not surfaced.
func (s *service) Remove(ctx context.Context, productID int64) (*ProductDTO, error) {
	product, err := s.repo.FindByIDWithVideos(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteVideosByProductID(ctx, productID); err != nil {
			return err
		}
		return txRepo.DeleteProduct(ctx, productID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}

	if err := s.cleanupMedia(product); err != nil {
		ctx = s.logg.WithProductID(ctx, productID)
		s.logg.Error(ctx, "media.cleanup_failed", err)
	}

	return NewProductDTO(product), nil
}

// Fetch lists products newest-first, optionally filtered by category.
func (s *service) Fetch(ctx context.Context, category string, withVideos bool) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx, strings.TrimSpace(category), withVideos)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return NewProductDTOs(products), nil
}

// FindByQRPayload resolves a scanned QR payload to the product it encodes.
func (s *service) FindByQRPayload(ctx context.Context, payload string) (*ProductDTO, error) {
	productID, err := ParseQRPayload(payload)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByIDWithVideos(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found for the given QR code.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// RegenerateQR re-renders the QR image for an existing product and writes the
// path back. The output filename is deterministic, so repeated calls converge
// on the same stored state.
func (s *service) RegenerateQR(ctx context.Context, productID int64) (*ProductDTO, error) {
	product, err := s.repo.FindByIDWithVideos(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	ctx = s.logg.WithProductID(ctx, productID)
	urlPath, err := s.writeQRCode(ctx, productID)
	if err != nil {
		s.qrMetrics.IncFailure()
		return nil, err
	}
	s.qrMetrics.IncSuccess()

	product.QRCode = &urlPath
	return NewProductDTO(product), nil
}

// writeQRCode renders the QR image for the product and persists its path.
func (s *service) writeQRCode(ctx context.Context, productID int64) (string, error) {
	content := s.qrPayload(productID)
	fsPath, urlPath := s.media.QRImagePath(productID)

	if err := s.qr.Render(content, fsPath); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render qr image")
	}
	if err := s.repo.UpdateQRCode(ctx, productID, urlPath); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update qr path")
	}
	return urlPath, nil
}

func (s *service) qrPayload(productID int64) string {
	return fmt.Sprintf("%s/products/%d", s.baseURL, productID)
}

func (s *service) saveImages(files []uploads.File) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path, err := s.media.SaveImage(f)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *service) saveVideos(files []uploads.File) ([]models.ProductVideo, error) {
	videos := make([]models.ProductVideo, 0, len(files))
	for _, f := range files {
		path, err := s.media.SaveVideo(f)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store video")
		}
		videos = append(videos, models.ProductVideo{
			Name: f.Name,
			Bio:  "",
			URL:  path,
		})
	}
	return videos, nil
}

func (s *service) cleanupMedia(product *models.Product) error {
	var err error
	if product.QRCode != nil {
		err = multierr.Append(err, s.media.Remove(*product.QRCode))
	}
	for _, image := range product.Images {
		err = multierr.Append(err, s.media.Remove(image))
	}
	for _, video := range product.Videos {
		err = multierr.Append(err, s.media.Remove(video.URL))
	}
	return err
}

// applyEditToProduct copies present fields onto the model. Boolean and zero
// values are honored when the pointer is set; absent fields never change.
func applyEditToProduct(product *models.Product, input EditProductInput) {
	if input.NameEn != nil {
		product.NameEn = strings.TrimSpace(*input.NameEn)
	}
	if input.NameAr != nil {
		product.NameAr = strings.TrimSpace(*input.NameAr)
	}
	if input.Company != nil {
		product.Company = strings.TrimSpace(*input.Company)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Rate != nil {
		product.Rate = *input.Rate
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.RentPrice != nil {
		product.RentPrice = input.RentPrice
	}
	if input.SellPrice != nil {
		product.SellPrice = input.SellPrice
	}
	if input.AvailableForRent != nil {
		product.AvailableForRent = *input.AvailableForRent
	}
	if input.AvailableForSale != nil {
		product.AvailableForSale = *input.AvailableForSale
	}
	if input.RentStock != nil {
		product.RentStock = *input.RentStock
	}
	if input.SaleStock != nil {
		product.SaleStock = *input.SaleStock
	}
}
