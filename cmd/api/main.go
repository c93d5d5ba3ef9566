package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/georgemunganga/printa-decor/internal/config"
	"github.com/georgemunganga/printa-decor/internal/modules/production"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// ── Stage graph ─────────────────────────────────────────
	graph := production.DefaultStageGraph()
	if cfg.StageGraphFile != "" {
		graph, err = production.LoadStageGraph(cfg.StageGraphFile)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Loaded stage graph from %s\n", cfg.StageGraphFile)
	}

	// ── Job source ──────────────────────────────────────────
	var jobs production.Repository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("Successfully connected to the database!")
		jobs = production.NewPostgresRepository(db)
	} else {
		log.Println("DATABASE_URL not set, serving jobs from an empty in-memory store")
		jobs = production.NewMemoryRepository()
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Production readiness ────────────────────────────────
	resolver := production.NewResolver(graph)
	productionService := production.NewService(jobs, resolver, log.Default())
	production.NewHandler(productionService, validator.New()).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	fmt.Printf("Printa Decor API server starting on :%s\n", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, router))
}
