package main

import (
	"context"
	"log"

	"vc-intel-be/internal/bootstrap"
	"vc-intel-be/internal/config"
	"vc-intel-be/internal/server"
	"vc-intel-be/internal/tracer"
	"vc-intel-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional; layer queries degrade without it)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
	} else {
		log.Println("[WARN] DB_CONNECTION_STRING not set; layer queries will degrade")
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Trigger Consumer...")
		if err := container.TriggerConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Trigger Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
