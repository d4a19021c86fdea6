package http

import (
	"net/http"
	"time"

	_ "github.com/expressimports/backend/docs" // регистрация swagger-спецификации
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// UseCases - зависимости обработчиков.
type UseCases struct {
	Products     usecase.ProductUC
	Quotes       usecase.QuoteUC
	StockOrders  usecase.StockOrderUC
	MaxImageSize int64
}

func (r *Router) Init(uc UseCases, swaggerURL string) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(r.accessLog)
	// Витрина обслуживается с другого origin
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(swaggerURL),
	))

	r.router.Route("/api", func(api chi.Router) {
		api.Get("/test", healthCheck)

		registerProductRoutes(api, NewProductHandler(uc.Products, uc.MaxImageSize, r.logger))
		registerQuoteRoutes(api, NewQuoteHandler(uc.Quotes, r.logger))
		registerStockOrderRoutes(api, NewStockOrderHandler(uc.StockOrders, r.logger))
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.createProduct)
		pr.Get("/{id}", h.getProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
		pr.Post("/{id}/image", h.uploadImage)
		pr.Get("/{id}/image", h.getImage)
	})
}

func registerQuoteRoutes(router chi.Router, h *QuoteHandler) {
	router.Route("/quotes", func(q chi.Router) {
		q.Get("/", h.listQuotes)
		q.Post("/", h.createQuote)
		q.Put("/{id}/status", h.updateQuoteStatus)
	})
}

func registerStockOrderRoutes(router chi.Router, h *StockOrderHandler) {
	router.Route("/stock-orders", func(so chi.Router) {
		so.Get("/", h.listStockOrders)
		so.Post("/", h.placeOrder)
		so.Put("/{id}/status", h.updateOrderStatus)
	})
}

func (r *Router) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		r.logger.Debugf("%s %s %d %s request_id=%s",
			req.Method, req.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(req.Context()))
	})
}

