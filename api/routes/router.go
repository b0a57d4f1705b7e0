package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentiva/rentiva-backend/api/controllers"
	"github.com/rentiva/rentiva-backend/api/middleware"
	cartsvc "github.com/rentiva/rentiva-backend/internal/cart"
	favoritessvc "github.com/rentiva/rentiva-backend/internal/favorites"
	productsvc "github.com/rentiva/rentiva-backend/internal/products"
	"github.com/rentiva/rentiva-backend/pkg/auth/session"
	"github.com/rentiva/rentiva-backend/pkg/config"
	"github.com/rentiva/rentiva-backend/pkg/enums"
	"github.com/rentiva/rentiva-backend/pkg/logger"
	"github.com/rentiva/rentiva-backend/pkg/metrics"
)

// Deps carries everything the router needs wired up. The session checker
// and gatherer may be nil; the matching features are then disabled.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       controllers.Pinger
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer

	Products  productsvc.Service
	Cart      cartsvc.Service
	Favorites favoritessvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger
	maxMemory := int64(cfg.Uploads.MaxUploadMB) << 20

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DBPinger, logg))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	// Stored product media and generated QR images are served straight
	// from the uploads directory.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.BaseDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(d.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))

			r.Get("/products/by-qrcode", controllers.GetProductByQRCode(d.Products, logg))
			r.Post("/products/{productId}/favorites", controllers.AddToFavorites(d.Favorites, logg))
			r.Delete("/products/{productId}/favorites", controllers.RemoveFromFavorites(d.Favorites, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(d.Cart, logg))
				r.Post("/", controllers.AddToCart(d.Cart, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

				r.Post("/products", controllers.CreateProduct(d.Products, maxMemory, logg))
				r.Patch("/products/{productId}", controllers.EditProduct(d.Products, maxMemory, logg))
				r.Delete("/products/{productId}", controllers.DeleteProduct(d.Products, logg))
				r.Post("/products/{productId}/qrcode", controllers.RegenerateQRCode(d.Products, logg))
			})
		})
	})

	return r
}
