package main

import (
	"log"
	"net/http"
	"os"

	"smartwaste-dashboard/internal/database"
	"smartwaste-dashboard/internal/handlers"
	"smartwaste-dashboard/internal/middleware"
	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/services"
	"smartwaste-dashboard/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 SMARTWASTE BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Get database URL
	log.Println("🔍 Checking DATABASE_URL environment variable...")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: DATABASE_URL environment variable is required")
		log.Println("   Please set DATABASE_URL in Railway Variables or .env file")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("DATABASE_URL environment variable is required")
	}
	log.Println("✅ DATABASE_URL found")

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("   This is usually caused by:")
		log.Println("   1. Wrong DATABASE_URL format")
		log.Println("   2. PostgreSQL service is down")
		log.Println("   3. Network connectivity issue")
		log.Println("   4. Invalid credentials")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: User seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Users seeded successfully")

	if err := database.SeedBins(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Bins seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Bins seeded successfully")

	// Firebase Cloud Messaging, from base64 credentials or a file
	var pusher handlers.Pusher
	var fcmService *services.FCMService
	if fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}
		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}
	if fcmService != nil {
		pusher = fcmService
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.SensorKeyHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Public routes
	r.Post("/api/auth/authenticate", handlers.Authenticate(db))
	r.Post("/api/auth/register", handlers.Register(db))

	// The WebSocket reads its token from the query string
	r.Get("/ws/bin-status", websocket.HandleWebSocket(wsHub))

	// Sensor ingestion
	r.With(middleware.SensorKey(os.Getenv("SENSOR_API_KEY"))).
		Post("/api/bin-status", handlers.IngestBinStatus(db, wsHub, pusher))

	// Any signed-in user
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Get("/api/bins", handlers.ListBins(db))
		r.Get("/api/notifications", handlers.ListNotifications(db))

		r.Get("/api/admin/users/profile", handlers.GetProfile(db))
		r.Put("/api/admin/users/profile", handlers.UpdateProfile(db))

		r.Route("/api/maintenance-requests", func(r chi.Router) {
			r.Get("/", handlers.ListMaintenance(db))
			r.Post("/", handlers.CreateMaintenance(db, wsHub))
			r.Put("/{id}", handlers.UpdateMaintenance(db))
			r.Delete("/{id}", handlers.DeleteMaintenance(db))
			r.With(middleware.RequireRole(models.RoleAdmin)).
				Put("/{id}/status", handlers.UpdateMaintenanceStatus(db))
		})

		// Bin owners
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleBinOwner))
			r.Get("/api/bins/fetch", handlers.FetchOwnedBins(db))
			r.Put("/api/bins/{binId}/assign", handlers.SelfAssignBin(db))
		})

		// Collectors
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleCollector))
			r.Post("/api/collector/fcm-token", handlers.RegisterFCMToken(db))
			r.Post("/api/routes/mark-collected", handlers.MarkCollected(db, wsHub))
		})

		// Admins
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/api/bins/add", handlers.AddBin(db))
			r.Put("/api/bins/{binId}", handlers.UpdateBinLocation(db))
			r.Delete("/api/bins/{binId}", handlers.DeleteBin(db))

			r.Get("/api/admin/trucks", handlers.ListTrucks(db))
			r.Post("/api/admin/trucks/add", handlers.AddTruck(db))
			r.Post("/api/admin/trucks/assign-collector", handlers.AssignCollector(db))
			r.Put("/api/admin/trucks/{id}", handlers.UpdateTruck(db))
			r.Delete("/api/admin/trucks/{id}", handlers.DeleteTruck(db))
			r.Get("/api/collector/trucks", handlers.TruckAssignments(db))
			r.Get("/api/collector/trucks/available-collectors", handlers.AvailableCollectors(db))

			r.Get("/api/routes", handlers.ListRoutes(db))
			r.Post("/api/routes", handlers.CreateRoute(db))
			r.Post("/api/routes/assign", handlers.AssignRoute(db, wsHub, pusher))
			r.Put("/api/routes/{id}", handlers.UpdateRoute(db))
			r.Delete("/api/routes/{id}", handlers.DeleteRoute(db))

			r.Get("/api/admin/users", handlers.ListUsers(db))
			r.Put("/api/admin/users/{id}", handlers.UpdateUser(db))
			r.Post("/api/admin/collectors", handlers.CreateCollector(db))
			r.Delete("/api/admin/collectors/{id}", handlers.DeleteCollector(db))
		})
	})

	// Get port
	log.Println("🔍 Checking PORT environment variable...")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	} else {
		log.Printf("✅ PORT found: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}
