package http

import (
	"net/http"

	"clinic-management-server/internal/delivery/http/handler"
	"clinic-management-server/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	appointmentHandler   *handler.AppointmentHandler
	doctorHandler        *handler.DoctorHandler
	patientHandler       *handler.PatientHandler
	medicineHandler      *handler.MedicineHandler
	medicineOrderHandler *handler.MedicineOrderHandler
	notificationHandler  *handler.NotificationHandler
	activityLogHandler   *handler.ActivityLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	medicineHandler *handler.MedicineHandler,
	medicineOrderHandler *handler.MedicineOrderHandler,
	notificationHandler *handler.NotificationHandler,
	activityLogHandler *handler.ActivityLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		appointmentHandler:   appointmentHandler,
		doctorHandler:        doctorHandler,
		patientHandler:       patientHandler,
		medicineHandler:      medicineHandler,
		medicineOrderHandler: medicineOrderHandler,
		notificationHandler:  notificationHandler,
		activityLogHandler:   activityLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory (public)
	api.HandleFunc("/doctors", r.doctorHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.Get).Methods(http.MethodGet)

	// Appointments (any authenticated role; the usecase scopes by actor)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.List).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)

	// Booking is patient-only
	booking := api.PathPrefix("/appointments").Subrouter()
	booking.Use(r.authMiddleware.Authenticate)
	booking.Use(middleware.RequirePatient)
	booking.HandleFunc("", r.appointmentHandler.Book).Methods(http.MethodPost)

	// Patient self-service
	patientMe := api.PathPrefix("/patients/me").Subrouter()
	patientMe.Use(r.authMiddleware.Authenticate)
	patientMe.Use(middleware.RequirePatient)
	patientMe.HandleFunc("", r.patientHandler.GetProfile).Methods(http.MethodGet)
	patientMe.HandleFunc("", r.patientHandler.UpdateProfile).Methods(http.MethodPut)

	// Patient roster (staff)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireStaff)
	patients.HandleFunc("", r.patientHandler.List).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Get).Methods(http.MethodGet)

	// Medicine catalog (any authenticated role can browse)
	medicines := api.PathPrefix("/medicines").Subrouter()
	medicines.Use(r.authMiddleware.Authenticate)
	medicines.HandleFunc("", r.medicineHandler.List).Methods(http.MethodGet)
	medicines.HandleFunc("/{id}", r.medicineHandler.Get).Methods(http.MethodGet)

	// Medicine management (admin)
	medicineAdmin := api.PathPrefix("/medicines").Subrouter()
	medicineAdmin.Use(r.authMiddleware.Authenticate)
	medicineAdmin.Use(middleware.RequireAdmin)
	medicineAdmin.HandleFunc("", r.medicineHandler.Create).Methods(http.MethodPost)
	medicineAdmin.HandleFunc("/{id}", r.medicineHandler.Update).Methods(http.MethodPut)
	medicineAdmin.HandleFunc("/{id}", r.medicineHandler.Delete).Methods(http.MethodDelete)

	// Medicine orders
	orders := api.PathPrefix("/medicine-orders").Subrouter()
	orders.Use(r.authMiddleware.Authenticate)
	orders.HandleFunc("", r.medicineOrderHandler.List).Methods(http.MethodGet)
	orders.HandleFunc("/{id}", r.medicineOrderHandler.Get).Methods(http.MethodGet)
	orders.HandleFunc("/{id}/cancel", r.medicineOrderHandler.Cancel).Methods(http.MethodPost)

	orderCreate := api.PathPrefix("/medicine-orders").Subrouter()
	orderCreate.Use(r.authMiddleware.Authenticate)
	orderCreate.Use(middleware.RequirePatient)
	orderCreate.HandleFunc("", r.medicineOrderHandler.Create).Methods(http.MethodPost)

	orderDispense := api.PathPrefix("/medicine-orders").Subrouter()
	orderDispense.Use(r.authMiddleware.Authenticate)
	orderDispense.Use(middleware.RequireStaff)
	orderDispense.HandleFunc("/{id}/dispense", r.medicineOrderHandler.Dispense).Methods(http.MethodPost)

	// Notifications (own inbox)
	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.Use(r.authMiddleware.Authenticate)
	notifications.HandleFunc("", r.notificationHandler.List).Methods(http.MethodGet)
	notifications.HandleFunc("/read-all", r.notificationHandler.MarkAllRead).Methods(http.MethodPost)
	notifications.HandleFunc("/{id}/read", r.notificationHandler.MarkRead).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/doctors", r.doctorHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/receptionists", r.authHandler.CreateReceptionist).Methods(http.MethodPost)
	admin.HandleFunc("/activity-logs", r.activityLogHandler.List).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
