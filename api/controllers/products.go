package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rentiva/rentiva-backend/api/responses"
	"github.com/rentiva/rentiva-backend/api/validators"
	productsvc "github.com/rentiva/rentiva-backend/internal/products"
	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/rentiva/rentiva-backend/pkg/logger"
	"github.com/rentiva/rentiva-backend/pkg/uploads"
)

// CreateProduct handles admin product creation from a multipart form.
func CreateProduct(svc productsvc.Service, maxMemory int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		form, err := validators.ParseProductCreateForm(r, maxMemory)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, closeImages, err := openUploads(form.Images)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeImages()

		videos, closeVideos, err := openUploads(form.Videos)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeVideos()

		product, err := svc.Create(r.Context(), productsvc.CreateProductInput{
			NameEn:           form.NameEn,
			NameAr:           form.NameAr,
			Company:          form.Company,
			Category:         form.Category,
			Description:      form.Description,
			Rate:             form.Rate,
			CostPrice:        form.CostPrice,
			RentPrice:        form.RentPrice,
			SellPrice:        form.SellPrice,
			AvailableForRent: form.AvailableForRent,
			AvailableForSale: form.AvailableForSale,
			RentStock:        form.RentStock,
			SaleStock:        form.SaleStock,
			Images:           images,
			Videos:           videos,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// EditProduct applies a sparse multipart update to an existing product.
func EditProduct(svc productsvc.Service, maxMemory int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form, err := validators.ParseProductEditForm(r, maxMemory)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, closeImages, err := openUploads(form.Images)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeImages()

		videos, closeVideos, err := openUploads(form.Videos)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer closeVideos()

		product, err := svc.Edit(r.Context(), productID, productsvc.EditProductInput{
			NameEn:           form.NameEn,
			NameAr:           form.NameAr,
			Company:          form.Company,
			Category:         form.Category,
			Description:      form.Description,
			Rate:             form.Rate,
			CostPrice:        form.CostPrice,
			RentPrice:        form.RentPrice,
			SellPrice:        form.SellPrice,
			AvailableForRent: form.AvailableForRent,
			AvailableForSale: form.AvailableForSale,
			RentStock:        form.RentStock,
			SaleStock:        form.SaleStock,
			Images:           images,
			Videos:           videos,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product and returns the deleted record.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Remove(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns the catalog, optionally filtered by category. Videos
// are included only when withVideos is the literal "true".
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		category := r.URL.Query().Get("category")
		withVideos := r.URL.Query().Get("withVideos") == "true"

		products, err := svc.Fetch(r.Context(), category, withVideos)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// GetProductByQRCode resolves a scanned QR payload, passed as the code query
// parameter, to the product it encodes.
func GetProductByQRCode(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, `The "code" query parameter is required.`))
			return
		}

		product, err := svc.FindByQRPayload(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// RegenerateQRCode re-renders the QR image for a product.
func RegenerateQRCode(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.RegenerateQR(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}

// openUploads opens every multipart file header and returns the decoupled
// upload list plus a closer for the underlying readers.
func openUploads(headers []*multipart.FileHeader) ([]uploads.File, func(), error) {
	files := make([]uploads.File, 0, len(headers))
	closers := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open uploaded file")
		}
		closers = append(closers, f)
		files = append(files, uploads.File{Name: fh.Filename, Reader: f})
	}
	return files, closeAll, nil
}
