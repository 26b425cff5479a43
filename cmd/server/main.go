package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"inmobiliaria/internal/api"
	"inmobiliaria/internal/auth"
	"inmobiliaria/internal/repository"
	"inmobiliaria/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	slotRepo := repository.NewSlotRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	jobRepo := repository.NewJobRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	// The listing client is built once and injected everywhere it is needed.
	listings := service.NewListingService()
	sender := service.NewSenderService()

	availabilitySvc := service.NewAvailabilityService(slotRepo)
	reconciler := service.NewReconcilerService(slotRepo, apptRepo)
	appointmentSvc := service.NewAppointmentService(slotRepo, apptRepo, availabilitySvc, reconciler, sender, listings)
	slotAdminSvc := service.NewSlotAdminService(slotRepo, reconciler)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	jobSvc := service.NewJobService(jobRepo, slotRepo, reconciler)

	userHandler := api.NewUserAppointmentHandler(appointmentSvc, availabilitySvc, listings)
	adminHandler := api.NewAdminHandler(appointmentSvc, slotAdminSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", userHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/appointments", userHandler.CreateOrUpdateAppointment).Methods("POST")
	r.HandleFunc("/api/appointments/{id}", userHandler.GetAppointment).Methods("GET")
	r.HandleFunc("/api/appointments/{id}", userHandler.CancelAppointment).Methods("DELETE")
	r.HandleFunc("/api/listings/{id}", userHandler.GetListing).Methods("GET")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	r.HandleFunc("/admin/register", adminAuthHandler.CreateUserAdmin).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/appointments", adminHandler.ListAppointments).Methods("GET")
	admin.HandleFunc("/appointments/{id}", adminHandler.AdminUpdateAppointment).Methods("PUT")
	admin.HandleFunc("/appointments/{id}", adminHandler.AdminDeleteAppointment).Methods("DELETE")
	admin.HandleFunc("/slots/{id}/check", adminHandler.CheckSlot).Methods("GET")
	admin.HandleFunc("/slots/{id}", adminHandler.UpdateSlotSettings).Methods("PUT")

	// Background jobs: complete past appointments hourly, repair counter
	// drift nightly.
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if err := jobSvc.CompletePastAppointments(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.AddFunc("0 4 * * *", func() {
		if err := jobSvc.RepairBookedCounters(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
