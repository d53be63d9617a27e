// Package handler implements the HTTP admin API for the permit reminder
// scheduler. All handlers are methods on Server; they are split into
// domain-specific files (trip.go, site.go, reminder.go, etc.) but share the
// same dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/trailcrew/internal/calendar"
	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/service"
	"github.com/pkordes/trailcrew/spec"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	LockDates(ctx context.Context, id uuid.UUID, start, end time.Time) (domain.Trip, error)
}

type SiteServicer interface {
	Create(ctx context.Context, site domain.Site) (domain.Site, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Site, error)
	List(ctx context.Context) ([]domain.Site, error)
	Update(ctx context.Context, site domain.Site) (domain.Site, error)
}

type MemberServicer interface {
	Register(ctx context.Context, name, email string) (domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
}

// ReminderServicer covers reminder generation, the due/upcoming queries, and
// the dispatch trigger.
type ReminderServicer interface {
	GenerateReminders(ctx context.Context, tripID uuid.UUID, siteIDs []uuid.UUID) (service.GenerationResult, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error)
	DueReminders(ctx context.Context) ([]domain.PermitReminder, error)
	UpcomingReminders(ctx context.Context, horizonDays int) ([]domain.PermitReminder, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error)
	SendDue(ctx context.Context) (service.DispatchReport, error)
}

type DateOptionServicer interface {
	Preview(year int) ([]domain.DateOption, error)
	Seed(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error)
	List(ctx context.Context, tripID uuid.UUID) ([]domain.DateOption, error)
}

type EmailLogServicer interface {
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.EmailLog, int64, error)
}

// Services bundles every service the API exposes. A nil field leaves its
// routes unregistered.
type Services struct {
	Trips       TripServicer
	Sites       SiteServicer
	Members     MemberServicer
	Reminders   ReminderServicer
	DateOptions DateOptionServicer
	EmailLog    EmailLogServicer
}

// Options tunes response rendering and query defaults.
type Options struct {
	// Zone renders permit instants as local wall-clock strings.
	Zone calendar.Zone
	// UpcomingDays is the horizon used by GET /reminders/upcoming when the
	// request has no ?days= parameter.
	UpcomingDays int
}

// DefaultUpcomingDays is used when Options.UpcomingDays is not positive.
const DefaultUpcomingDays = 30

// Server serves every API endpoint.
type Server struct {
	svc      Services
	opts     Options
	validate *validator.Validate
	logger   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, opts Options, logger *slog.Logger) *Server {
	if opts.UpcomingDays <= 0 {
		opts.UpcomingDays = DefaultUpcomingDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:      svc,
		opts:     opts,
		validate: newValidator(),
		logger:   logger,
	}
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(Services{}, Options{}, nil)
}

// Handler returns a chi router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

// Routes registers the API on an existing router so main can add its own
// middleware and extra endpoints around it.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveSpec)

	if s.svc.Sites != nil {
		r.Route("/sites", func(r chi.Router) {
			r.Post("/", s.CreateSite)
			r.Get("/", s.ListSites)
			r.Get("/{id}", s.GetSite)
			r.Put("/{id}", s.UpdateSite)
		})
	}

	if s.svc.Trips != nil {
		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Get("/{id}", s.GetTrip)
			r.Post("/{id}/lock", s.LockTrip)
			if s.svc.Reminders != nil {
				r.Post("/{id}/reminders", s.GenerateReminders)
				r.Get("/{id}/reminders", s.ListTripReminders)
			}
			if s.svc.DateOptions != nil {
				r.Get("/{id}/date-options", s.ListDateOptions)
				r.Post("/{id}/date-options", s.SeedDateOptions)
			}
		})
	}

	if s.svc.DateOptions != nil {
		r.Get("/seasons/{year}/date-options", s.PreviewDateOptions)
	}

	if s.svc.Reminders != nil {
		r.Route("/reminders", func(r chi.Router) {
			r.Get("/due", s.ListDueReminders)
			r.Get("/upcoming", s.ListUpcomingReminders)
			r.Post("/send-due", s.SendDueReminders)
			r.Put("/{id}/status", s.SetReminderStatus)
		})
	}

	if s.svc.Members != nil {
		r.Post("/members", s.RegisterMember)
		r.Get("/members", s.ListMembers)
	}

	if s.svc.EmailLog != nil {
		r.Get("/email-log", s.ListEmailLog)
	}
}

func serveSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
