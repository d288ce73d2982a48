package main

import (
	"fmt"
	"net/http"

	"github.com/DepositEase/DE-Backend/internal/applications"
	"github.com/DepositEase/DE-Backend/internal/auth"
	"github.com/DepositEase/DE-Backend/internal/catalog"
	"github.com/DepositEase/DE-Backend/internal/config"
	"github.com/DepositEase/DE-Backend/internal/db"
	"github.com/DepositEase/DE-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "DepositEase API is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.Load()
	db.Connect()

	tokens := auth.Init(cfg)
	catalog.Init()
	applications.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/banks", catalog.BankRoutes(tokens))
	r.Mount("/products", catalog.ProductRoutes(tokens))
	r.Mount("/applications", applications.SetupRoutes(tokens))
	r.Mount("/stats", applications.StatsRoutes(tokens))

	fmt.Println("Server listening on port :" + cfg.Port + "...")

	http.ListenAndServe("0.0.0.0:"+cfg.Port, r)
}
