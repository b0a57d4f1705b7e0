package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	productsvc "github.com/rentiva/rentiva-backend/internal/products"
	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
	"github.com/rentiva/rentiva-backend/pkg/types"
)

type stubProductService struct {
	created     *productsvc.ProductDTO
	createErr   error
	edited      *productsvc.ProductDTO
	editErr     error
	removed     *productsvc.ProductDTO
	removeErr   error
	list        []productsvc.ProductDTO
	listErr     error
	byQR        *productsvc.ProductDTO
	byQRErr     error
	regenerated *productsvc.ProductDTO
	regenErr    error

	gotCategory   string
	gotWithVideos bool
	gotPayload    string
	gotEditID     int64
	gotEdit       productsvc.EditProductInput
}

func (s *stubProductService) Create(_ context.Context, _ productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return s.created, s.createErr
}

func (s *stubProductService) Edit(_ context.Context, productID int64, input productsvc.EditProductInput) (*productsvc.ProductDTO, error) {
	s.gotEditID = productID
	s.gotEdit = input
	return s.edited, s.editErr
}

func (s *stubProductService) Remove(_ context.Context, _ int64) (*productsvc.ProductDTO, error) {
	return s.removed, s.removeErr
}

func (s *stubProductService) Fetch(_ context.Context, category string, withVideos bool) ([]productsvc.ProductDTO, error) {
	s.gotCategory = category
	s.gotWithVideos = withVideos
	return s.list, s.listErr
}

func (s *stubProductService) FindByQRPayload(_ context.Context, payload string) (*productsvc.ProductDTO, error) {
	s.gotPayload = payload
	return s.byQR, s.byQRErr
}

func (s *stubProductService) RegenerateQR(_ context.Context, _ int64) (*productsvc.ProductDTO, error) {
	return s.regenerated, s.regenErr
}

func productForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"nameEn":      "Drill",
		"nameAr":      "مثقاب",
		"company":     "Bosch",
		"category":    "tools",
		"description": "Cordless drill",
		"costPrice":   "100",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateProductReturns201(t *testing.T) {
	svc := &stubProductService{created: &productsvc.ProductDTO{ID: 1, NameEn: "Drill"}}
	handler := CreateProduct(svc, 1<<20, nil)

	body, contentType := productForm(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProductRejectsBadForm(t *testing.T) {
	svc := &stubProductService{}
	handler := CreateProduct(svc, 1<<20, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestEditProductStatusCodes(t *testing.T) {
	editForm := func(t *testing.T) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("nameEn", "Hammer Drill"); err != nil {
			t.Fatalf("write field: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close writer: %v", err)
		}
		return &buf, w.FormDataContentType()
	}

	t.Run("edited", func(t *testing.T) {
		svc := &stubProductService{edited: &productsvc.ProductDTO{ID: 7, NameEn: "Hammer Drill"}}
		body, contentType := editForm(t)
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/products/7", body), "productId", "7")
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		EditProduct(svc, 1<<20, nil).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if svc.gotEditID != 7 {
			t.Fatalf("productID = %d, want 7", svc.gotEditID)
		}
		if svc.gotEdit.NameEn == nil || *svc.gotEdit.NameEn != "Hammer Drill" {
			t.Fatalf("nameEn = %v", svc.gotEdit.NameEn)
		}
	})

	t.Run("missing product", func(t *testing.T) {
		svc := &stubProductService{editErr: pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")}
		body, contentType := editForm(t)
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/products/7", body), "productId", "7")
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		EditProduct(svc, 1<<20, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		svc := &stubProductService{}
		body, contentType := editForm(t)
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/products/abc", body), "productId", "abc")
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		EditProduct(svc, 1<<20, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad form", func(t *testing.T) {
		svc := &stubProductService{}
		req := withURLParam(httptest.NewRequest(http.MethodPatch, "/api/v1/products/7", bytes.NewBufferString("{}")), "productId", "7")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		EditProduct(svc, 1<<20, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestDeleteProductStatusCodes(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := &stubProductService{removed: &productsvc.ProductDTO{ID: 5}}
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/products/5", nil), "productId", "5")
		rec := httptest.NewRecorder()
		DeleteProduct(svc, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing product", func(t *testing.T) {
		svc := &stubProductService{removeErr: pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")}
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/products/5", nil), "productId", "5")
		rec := httptest.NewRecorder()
		DeleteProduct(svc, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		svc := &stubProductService{}
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/products/abc", nil), "productId", "abc")
		rec := httptest.NewRecorder()
		DeleteProduct(svc, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListProductsPassesQuery(t *testing.T) {
	svc := &stubProductService{list: []productsvc.ProductDTO{{ID: 1}}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=tools&withVideos=true", nil)
	rec := httptest.NewRecorder()
	ListProducts(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.gotCategory != "tools" || !svc.gotWithVideos {
		t.Fatalf("query not passed: category=%q withVideos=%v", svc.gotCategory, svc.gotWithVideos)
	}

	// Anything other than the literal "true" disables videos.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products?withVideos=1", nil)
	rec = httptest.NewRecorder()
	ListProducts(svc, nil).ServeHTTP(rec, req)
	if svc.gotWithVideos {
		t.Fatal("withVideos=1 should not enable videos")
	}
}

func TestGetProductByQRCode(t *testing.T) {
	t.Run("missing code", func(t *testing.T) {
		svc := &stubProductService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/by-qrcode", nil)
		rec := httptest.NewRecorder()
		GetProductByQRCode(svc, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}

		var env types.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Error.Message != `The "code" query parameter is required.` {
			t.Fatalf("message = %q", env.Error.Message)
		}
	})

	t.Run("passes payload through", func(t *testing.T) {
		svc := &stubProductService{byQR: &productsvc.ProductDTO{ID: 42}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/by-qrcode?code=https%3A%2F%2Frentiva.app%2Fproducts%2F42", nil)
		rec := httptest.NewRecorder()
		GetProductByQRCode(svc, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if svc.gotPayload != "https://rentiva.app/products/42" {
			t.Fatalf("payload = %q", svc.gotPayload)
		}
	})

	t.Run("malformed payload maps to 400", func(t *testing.T) {
		svc := &stubProductService{byQRErr: pkgerrors.New(pkgerrors.CodeInvalidFormat, "Invalid QR code format: Could not extract a valid product ID.")}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/by-qrcode?code=garbage", nil)
		rec := httptest.NewRecorder()
		GetProductByQRCode(svc, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRegenerateQRCode(t *testing.T) {
	svc := &stubProductService{regenerated: &productsvc.ProductDTO{ID: 7}}
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/products/7/qrcode", nil), "productId", "7")
	rec := httptest.NewRecorder()
	RegenerateQRCode(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
