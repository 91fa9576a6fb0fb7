package main

import (
	"context"
	"log"

	"notesearch-be/internal/bootstrap"
	"notesearch-be/internal/config"
	"notesearch-be/internal/server"
	"notesearch-be/internal/tracer"
	"notesearch-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to database: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// Embed pipeline consumer runs for the lifetime of the process
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Panicf("Unable to start embed consumer: %v", err)
	}

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
