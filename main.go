package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-backend/config"
	"marketplace-backend/controllers"
	"marketplace-backend/routes"
	"marketplace-backend/storage"
)

func main() {
	cfg := config.Load()

	var st storage.Store
	if cfg.Store == "memory" {
		log.Println("using in-memory store")
		st = storage.NewMemStore()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal(err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			log.Fatal(err)
		}
		log.Println("MongoDB connected")

		st, err = storage.NewMongoStore(client.Database(cfg.DatabaseName))
		if err != nil {
			log.Fatal(err)
		}
	}

	controllers.Init(st, cfg)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(server, cfg)

	log.Printf("Server running on port %s", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
