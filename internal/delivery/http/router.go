package http

import (
	"net/http"

	"go-medical-dispatch/internal/delivery/http/handler"
	"go-medical-dispatch/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	assignmentHandler  *handler.AssignmentHandler
	sosHandler         *handler.SOSHandler
	triageHandler      *handler.TriageHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	assignmentHandler *handler.AssignmentHandler,
	sosHandler *handler.SOSHandler,
	triageHandler *handler.TriageHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		assignmentHandler:  assignmentHandler,
		sosHandler:         sosHandler,
		triageHandler:      triageHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Public doctor search (no auth, origin required)
	api.HandleFunc("/doctors/search/public", r.doctorHandler.SearchPublic).Methods(http.MethodGet)

	// Patient routes
	patient := api.PathPrefix("").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/doctors/search", r.doctorHandler.Search).Methods(http.MethodGet)
	patient.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)
	patient.HandleFunc("/appointments", r.appointmentHandler.ListOwn).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPost)
	patient.HandleFunc("/patients/me/health-summary", r.appointmentHandler.HealthSummary).Methods(http.MethodGet)
	patient.HandleFunc("/sos", r.sosHandler.Create).Methods(http.MethodPost)
	patient.HandleFunc("/sos", r.sosHandler.ListOwn).Methods(http.MethodGet)
	patient.HandleFunc("/sos/{id}/cancel", r.sosHandler.Cancel).Methods(http.MethodPost)

	// Doctor routes
	doctor := api.PathPrefix("").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/doctors/me", r.doctorHandler.GetMe).Methods(http.MethodGet)
	doctor.HandleFunc("/doctors/me", r.doctorHandler.UpdateMe).Methods(http.MethodPut)
	doctor.HandleFunc("/doctors/me/location", r.doctorHandler.UpdateLocation).Methods(http.MethodPatch)
	doctor.HandleFunc("/doctors/me/services", r.doctorHandler.UpsertServices).Methods(http.MethodPut)
	doctor.HandleFunc("/appointments/open", r.assignmentHandler.ListOpenAppointments).Methods(http.MethodGet)
	doctor.HandleFunc("/appointments/{id}/accept", r.assignmentHandler.Accept).Methods(http.MethodPost)
	doctor.HandleFunc("/appointments/{id}/assignment", r.assignmentHandler.CancelAssignment).Methods(http.MethodDelete)
	doctor.HandleFunc("/appointments/{id}/status", r.assignmentHandler.UpdateStatus).Methods(http.MethodPatch)
	doctor.HandleFunc("/appointments/{id}/close", r.assignmentHandler.Close).Methods(http.MethodPost)
	doctor.HandleFunc("/assignments", r.assignmentHandler.ListAssignments).Methods(http.MethodGet)
	doctor.HandleFunc("/sos/invitations", r.sosHandler.ListInvitations).Methods(http.MethodGet)
	doctor.HandleFunc("/sos/{id}/accept", r.sosHandler.Accept).Methods(http.MethodPost)

	// Triage routes (any authenticated user)
	triage := api.PathPrefix("/triage").Subrouter()
	triage.Use(r.authMiddleware.Authenticate)
	triage.HandleFunc("/classify", r.triageHandler.Classify).Methods(http.MethodPost)
	triage.HandleFunc("/analyze", r.triageHandler.Analyze).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
