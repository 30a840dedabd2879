package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"printshop/internal/config"
	"printshop/internal/db"
	"printshop/internal/httpserver"
	analyticsrepo "printshop/internal/repository/analytics"
	cartrepo "printshop/internal/repository/cart"
	categoryrepo "printshop/internal/repository/category"
	contentrepo "printshop/internal/repository/content"
	customorderrepo "printshop/internal/repository/customorder"
	deliveryrepo "printshop/internal/repository/delivery"
	loyaltyrepo "printshop/internal/repository/loyalty"
	orderrepo "printshop/internal/repository/order"
	productrepo "printshop/internal/repository/product"
	promorepo "printshop/internal/repository/promo"
	reviewrepo "printshop/internal/repository/review"
	tokenrepo "printshop/internal/repository/token"
	userrepo "printshop/internal/repository/user"
	analyticssvc "printshop/internal/service/analytics"
	authsvc "printshop/internal/service/auth"
	cartsvc "printshop/internal/service/cart"
	categorysvc "printshop/internal/service/category"
	contentsvc "printshop/internal/service/content"
	customordersvc "printshop/internal/service/customorder"
	deliverysvc "printshop/internal/service/delivery"
	loyaltysvc "printshop/internal/service/loyalty"
	ordersvc "printshop/internal/service/order"
	productsvc "printshop/internal/service/product"
	promosvc "printshop/internal/service/promo"
	reviewsvc "printshop/internal/service/review"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	promoRepo := promorepo.NewPostgres(dbpool)
	deliveryRepo := deliveryrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	reviewRepo := reviewrepo.NewPostgres(dbpool)
	customOrderRepo := customorderrepo.NewPostgres(dbpool)
	loyaltyRepo := loyaltyrepo.NewPostgres(dbpool)
	contentRepo := contentrepo.NewPostgres(dbpool)
	analyticsRepo := analyticsrepo.NewPostgres(dbpool)

	productService := productsvc.New(productRepo)
	categoryService := categorysvc.New(categoryRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	promoService := promosvc.New(promoRepo)
	deliveryService := deliverysvc.New(deliveryRepo)
	orderService := ordersvc.New(orderRepo, productRepo, cartRepo, userRepo, loyaltyRepo, promoService, deliveryService, logger)
	customOrderService := customordersvc.New(orderRepo, customOrderRepo)
	reviewService := reviewsvc.New(reviewRepo, orderRepo, userRepo)
	authService := authsvc.New(userRepo, tokenRepo, loyaltyRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, logger)
	loyaltyService := loyaltysvc.New(loyaltyRepo)
	contentService := contentsvc.New(contentRepo)
	analyticsService := analyticssvc.New(analyticsRepo)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Auth:         authService,
		Products:     productService,
		Categories:   categoryService,
		Cart:         cartService,
		Promo:        promoService,
		Delivery:     deliveryService,
		Orders:       orderService,
		CustomOrders: customOrderService,
		Reviews:      reviewService,
		Loyalty:      loyaltyService,
		Content:      contentService,
		Analytics:    analyticsService,
	}, cfg.AllowedOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
