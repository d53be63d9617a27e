package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trailcrew/internal/domain"
	"github.com/pkordes/trailcrew/internal/mailer"
	"github.com/pkordes/trailcrew/internal/metrics"
	"github.com/pkordes/trailcrew/internal/permit"
	"github.com/pkordes/trailcrew/internal/repo"
)

// Skip reasons reported by reminder generation.
const (
	SkipUnknownPolicy    = "unknown_policy_kind"
	SkipMissingParameter = "missing_policy_parameter"
	SkipInvalidParameter = "invalid_policy_parameter"
	SkipAlreadyOpen      = "permit_already_open"
	SkipAlreadyScheduled = "already_scheduled"
	SkipSiteNotFound     = "site_not_found"
)

// SkipNotice explains why a site got no reminder.
type SkipNotice struct {
	SiteID   uuid.UUID `json:"site_id"`
	SiteName string    `json:"site_name"`
	Reason   string    `json:"reason"`
	Detail   string    `json:"detail,omitempty"`
}

// DefaultNotice records a fallback value applied to a site's policy.
type DefaultNotice struct {
	SiteID   uuid.UUID      `json:"site_id"`
	SiteName string         `json:"site_name"`
	Default  permit.Default `json:"default"`
}

// GenerationResult is the outcome of generating reminders for one trip.
// An empty Created list is a normal result, not an error.
type GenerationResult struct {
	Created  []domain.PermitReminder `json:"created"`
	Skipped  []SkipNotice            `json:"skipped"`
	Defaults []DefaultNotice         `json:"defaults"`
}

// Dispatch outcomes.
const (
	OutcomeSent   = metrics.OutcomeSent
	OutcomeFailed = metrics.OutcomeFailed
)

// DispatchResult is the outcome for one due reminder.
// Error is set when the send failed, or when the send succeeded but
// settling it (status or audit log) did not.
type DispatchResult struct {
	ReminderID uuid.UUID `json:"reminder_id"`
	SiteName   string    `json:"site_name"`
	Outcome    string    `json:"outcome"`
	MessageID  string    `json:"message_id,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// DispatchReport summarizes one SendDue run.
type DispatchReport struct {
	Found   int              `json:"found"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Results []DispatchResult `json:"results"`
}

// ReminderStores groups the repos the reminder service reads and writes.
type ReminderStores struct {
	Trips     repo.TripRepo
	Sites     repo.SiteRepo
	Reminders repo.ReminderRepo
	Members   repo.MemberRepo
	EmailLog  repo.EmailLogRepo
}

// MailSettings controls who receives reminder emails.
type MailSettings struct {
	// TestMode sends every reminder to TestRecipient only.
	TestMode      bool
	TestRecipient string
	// AppBaseURL, when set, is used to link the trip from the email.
	AppBaseURL string
}

// ReminderService schedules permit reminders and sends the due ones.
type ReminderService struct {
	stores ReminderStores
	calc   *permit.Calculator
	sender mailer.Sender
	mail   MailSettings
	now    func() time.Time
	logger *slog.Logger
}

// NewReminderService wires a ReminderService. A nil now means time.Now and a
// nil logger means slog.Default().
func NewReminderService(stores ReminderStores, calc *permit.Calculator, sender mailer.Sender, mail MailSettings, now func() time.Time, logger *slog.Logger) *ReminderService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReminderService{
		stores: stores,
		calc:   calc,
		sender: sender,
		mail:   mail,
		now:    now,
		logger: logger,
	}
}

// GenerateReminders computes and stores reminders for a trip. With no
// siteIDs every site is considered. Sites that cannot be scheduled are
// reported in Skipped; pairs that already have a reminder are reported
// as already_scheduled and left untouched.
func (s *ReminderService) GenerateReminders(ctx context.Context, tripID uuid.UUID, siteIDs []uuid.UUID) (GenerationResult, error) {
	trip, err := s.stores.Trips.GetByID(ctx, tripID)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("service.ReminderService.GenerateReminders: %w", err)
	}
	if !trip.Finalized() {
		return GenerationResult{}, fmt.Errorf("service.ReminderService.GenerateReminders: %w", domain.ErrTripNotFinalized)
	}

	var sites []domain.Site
	if len(siteIDs) == 0 {
		sites, err = s.stores.Sites.List(ctx)
	} else {
		sites, err = s.stores.Sites.ListByIDs(ctx, siteIDs)
	}
	if err != nil {
		return GenerationResult{}, fmt.Errorf("service.ReminderService.GenerateReminders: %w", err)
	}

	planned, err := s.GenerateForTrip(trip, sites)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("service.ReminderService.GenerateReminders: %w", err)
	}
	planned.Skipped = append(planned.Skipped, missingSites(siteIDs, sites)...)

	created, conflicts, err := s.stores.Reminders.InsertBatch(ctx, planned.Created)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("service.ReminderService.GenerateReminders: %w", err)
	}
	result := GenerationResult{Created: created, Skipped: planned.Skipped, Defaults: planned.Defaults}
	for _, c := range conflicts {
		result.Skipped = append(result.Skipped, SkipNotice{
			SiteID:   c.SiteID,
			SiteName: c.SiteName,
			Reason:   SkipAlreadyScheduled,
		})
	}

	metrics.RemindersGenerated.Add(float64(len(result.Created)))
	for _, sk := range result.Skipped {
		metrics.RemindersSkipped.WithLabelValues(sk.Reason).Inc()
	}
	s.logger.InfoContext(ctx, "permit reminders generated",
		"trip_id", trip.ID,
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"defaults", len(result.Defaults),
	)
	return result, nil
}

// GenerateForTrip computes, without storing anything, one pending reminder
// per schedulable site. A site whose policy cannot be evaluated, or whose
// permits already opened, is skipped with a notice and the rest continue.
// Returns domain.ErrTripNotFinalized if the trip has no start date.
func (s *ReminderService) GenerateForTrip(trip domain.Trip, sites []domain.Site) (GenerationResult, error) {
	if !trip.Finalized() {
		return GenerationResult{}, domain.ErrTripNotFinalized
	}
	now := s.now().UTC()
	start := *trip.StartDate

	result := GenerationResult{
		Created:  []domain.PermitReminder{},
		Skipped:  []SkipNotice{},
		Defaults: []DefaultNotice{},
	}
	for _, site := range sites {
		op, err := s.calc.ComputeOpen(site, start)
		if err != nil {
			if !domain.IsPolicyError(err) {
				return GenerationResult{}, err
			}
			s.logger.Warn("site skipped: permit policy not usable",
				"trip_id", trip.ID, "site_id", site.ID, "site", site.Name, "error", err)
			result.Skipped = append(result.Skipped, SkipNotice{
				SiteID:   site.ID,
				SiteName: site.Name,
				Reason:   policySkipReason(err),
				Detail:   err.Error(),
			})
			continue
		}
		for _, d := range op.Defaults {
			result.Defaults = append(result.Defaults, DefaultNotice{SiteID: site.ID, SiteName: site.Name, Default: d})
		}

		if op.At.Before(now) {
			result.Skipped = append(result.Skipped, SkipNotice{
				SiteID:   site.ID,
				SiteName: site.Name,
				Reason:   SkipAlreadyOpen,
				Detail:   "permits opened " + s.calc.Zone().Format(op.At, time.RFC3339),
			})
			continue
		}

		remindAt := s.calc.ReminderAt(op.At)
		if !remindAt.Before(op.At) {
			return GenerationResult{}, fmt.Errorf("reminder for site %s is not before its opening", site.ID)
		}
		result.Created = append(result.Created, domain.PermitReminder{
			TripID:        trip.ID,
			SiteID:        site.ID,
			SiteName:      site.Name,
			TripStartDate: start,
			PermitOpensAt: op.At,
			RemindAt:      remindAt,
			Status:        domain.ReminderPending,
		})
	}
	return result, nil
}

// missingSites reports every requested ID that the store did not return.
func missingSites(requested []uuid.UUID, found []domain.Site) []SkipNotice {
	have := make(map[uuid.UUID]bool, len(found))
	for _, s := range found {
		have[s.ID] = true
	}
	var out []SkipNotice
	for _, id := range requested {
		if have[id] {
			continue
		}
		have[id] = true
		out = append(out, SkipNotice{SiteID: id, Reason: SkipSiteNotFound})
	}
	return out
}

func policySkipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingPolicyParameter):
		return SkipMissingParameter
	case errors.Is(err, domain.ErrInvalidPolicyParameter):
		return SkipInvalidParameter
	default:
		return SkipUnknownPolicy
	}
}

// ListForTrip returns every reminder of a trip.
func (s *ReminderService) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]domain.PermitReminder, error) {
	if _, err := s.stores.Trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ReminderService.ListForTrip: %w", err)
	}
	reminders, err := s.stores.Reminders.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ReminderService.ListForTrip: %w", err)
	}
	if reminders == nil {
		return []domain.PermitReminder{}, nil
	}
	return reminders, nil
}

// DueReminders returns every pending reminder whose send instant is at or
// before now, oldest first. It has no side effects.
func (s *ReminderService) DueReminders(ctx context.Context) ([]domain.PermitReminder, error) {
	now := s.now().UTC()
	rows, err := s.stores.Reminders.ListPending(ctx, nil, now)
	if err != nil {
		return nil, fmt.Errorf("service.ReminderService.DueReminders: %w", err)
	}
	return pendingWithin(rows, nil, now), nil
}

// UpcomingReminders returns pending reminders whose send instant lies
// between now and horizonDays calendar days ahead, both inclusive.
func (s *ReminderService) UpcomingReminders(ctx context.Context, horizonDays int) ([]domain.PermitReminder, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", domain.ErrValidation)
	}
	now := s.now().UTC()
	until := s.calc.Zone().AddDays(now, horizonDays)
	rows, err := s.stores.Reminders.ListPending(ctx, &now, until)
	if err != nil {
		return nil, fmt.Errorf("service.ReminderService.UpcomingReminders: %w", err)
	}
	return pendingWithin(rows, &now, until), nil
}

// pendingWithin keeps pending reminders with from <= RemindAt <= to and
// sorts them by RemindAt, so the result holds whatever the store returned.
func pendingWithin(rows []domain.PermitReminder, from *time.Time, to time.Time) []domain.PermitReminder {
	out := make([]domain.PermitReminder, 0, len(rows))
	for _, r := range rows {
		if r.Status != domain.ReminderPending || r.RemindAt.After(to) {
			continue
		}
		if from != nil && r.RemindAt.Before(*from) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out
}

// SetStatus applies an operator status change. reminder_sent can only be
// reached through SendDue, and a sent reminder cannot go back to pending.
func (s *ReminderService) SetStatus(ctx context.Context, id uuid.UUID, status domain.ReminderStatus) (domain.PermitReminder, error) {
	if !status.Valid() {
		return domain.PermitReminder{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if !status.OperatorSettable() {
		return domain.PermitReminder{}, fmt.Errorf("%w: %s is set by the dispatcher", domain.ErrInvalidStatusTransition, status)
	}

	current, err := s.stores.Reminders.GetByID(ctx, id)
	if err != nil {
		return domain.PermitReminder{}, fmt.Errorf("service.ReminderService.SetStatus: %w", err)
	}
	if current.Status == status {
		return current, nil
	}
	if current.Status == domain.ReminderSent && status == domain.ReminderPending {
		return domain.PermitReminder{}, fmt.Errorf("%w: a sent reminder cannot return to pending", domain.ErrInvalidStatusTransition)
	}

	updated, err := s.stores.Reminders.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.PermitReminder{}, fmt.Errorf("service.ReminderService.SetStatus: %w", err)
	}
	updated.SiteName = current.SiteName
	s.logger.InfoContext(ctx, "reminder status changed", "reminder_id", id, "from", current.Status, "to", status)
	return updated, nil
}

// SendDue emails every due reminder and settles each one. With nothing due
// it returns an empty report without looking at recipients. Otherwise
// recipients are resolved before anything is sent; a misconfiguration
// returns domain.ErrConfiguration with no side effects. After that, a
// failure on one reminder is recorded in the report and the batch
// continues. A failed send leaves the reminder pending so the next run
// retries it.
func (s *ReminderService) SendDue(ctx context.Context) (DispatchReport, error) {
	due, err := s.DueReminders(ctx)
	if err != nil {
		return DispatchReport{}, fmt.Errorf("service.ReminderService.SendDue: %w", err)
	}

	report := DispatchReport{Found: len(due), Results: make([]DispatchResult, 0, len(due))}
	if len(due) == 0 {
		s.logger.InfoContext(ctx, "no due reminders")
		return report, nil
	}

	recipients, err := s.recipients(ctx)
	if err != nil {
		return DispatchReport{}, fmt.Errorf("service.ReminderService.SendDue: %w", err)
	}
	s.logger.InfoContext(ctx, "sending due reminders", "count", len(due), "recipients", len(recipients), "test_mode", s.mail.TestMode)

	d := &dispatch{svc: s, recipients: recipients, trips: map[uuid.UUID]domain.Trip{}, sites: map[uuid.UUID]domain.Site{}}
	for _, rem := range due {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("service.ReminderService.SendDue: %w", err)
		}
		res := d.one(ctx, rem)
		metrics.ReminderDispatch.WithLabelValues(res.Outcome).Inc()
		if res.Outcome == OutcomeSent {
			report.Sent++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, res)
	}

	s.logger.InfoContext(ctx, "due reminders processed", "found", report.Found, "sent", report.Sent, "failed", report.Failed)
	return report, nil
}

// recipients resolves the address list for this run.
func (s *ReminderService) recipients(ctx context.Context) ([]string, error) {
	if s.mail.TestMode {
		addr := strings.TrimSpace(s.mail.TestRecipient)
		if !mailer.ValidAddress(addr) {
			return nil, fmt.Errorf("%w: test mode needs a valid MAIL_TEST_RECIPIENT", domain.ErrConfiguration)
		}
		return []string{addr}, nil
	}

	emails, err := s.stores.Members.ActiveEmails(ctx)
	if err != nil {
		return nil, err
	}
	var valid []string
	for _, e := range emails {
		if mailer.ValidAddress(e) {
			valid = append(valid, e)
			continue
		}
		s.logger.WarnContext(ctx, "skipping member with invalid email", "email", e)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no active members to notify", domain.ErrConfiguration)
	}
	return valid, nil
}

// dispatch carries per-run state so trips and sites are loaded once each.
type dispatch struct {
	svc        *ReminderService
	recipients []string
	trips      map[uuid.UUID]domain.Trip
	sites      map[uuid.UUID]domain.Site
}

func (d *dispatch) one(ctx context.Context, rem domain.PermitReminder) DispatchResult {
	s := d.svc
	res := DispatchResult{ReminderID: rem.ID, SiteName: rem.SiteName, Outcome: OutcomeFailed}
	log := s.logger.With("reminder_id", rem.ID, "site", rem.SiteName)

	msg, err := d.render(ctx, rem)
	if err != nil {
		log.ErrorContext(ctx, "reminder email not built", "error", err)
		res.Error = err.Error()
		return res
	}

	receipt, err := s.sender.Send(ctx, msg)
	if err != nil {
		derr := &domain.DeliveryError{ReminderID: rem.ID, Err: err}
		log.ErrorContext(ctx, "reminder email not sent", "error", derr)
		res.Error = derr.Error()
		return res
	}
	res.Outcome = OutcomeSent
	res.MessageID = receipt.MessageID

	// The audit entry is written for every confirmed send, marked or not.
	sentAt := s.now().UTC()
	var problems []string
	if _, err := s.stores.Reminders.MarkSent(ctx, rem.ID, sentAt); err != nil {
		log.ErrorContext(ctx, "reminder sent but not marked", "error", err)
		problems = append(problems, fmt.Sprintf("mark sent: %v", err))
	}

	reminderID := rem.ID
	_, err = s.stores.EmailLog.Append(ctx, domain.EmailLog{
		ReminderID:     &reminderID,
		Subject:        msg.Subject,
		RecipientCount: receipt.Recipients,
		MessageID:      receipt.MessageID,
		SentAt:         sentAt,
	})
	if err != nil {
		log.ErrorContext(ctx, "reminder sent but not logged", "error", err)
		problems = append(problems, fmt.Sprintf("email log: %v", err))
	}
	res.Error = strings.Join(problems, "; ")
	return res
}

func (d *dispatch) render(ctx context.Context, rem domain.PermitReminder) (mailer.Message, error) {
	s := d.svc
	trip, ok := d.trips[rem.TripID]
	if !ok {
		t, err := s.stores.Trips.GetByID(ctx, rem.TripID)
		if err != nil {
			return mailer.Message{}, fmt.Errorf("load trip: %w", err)
		}
		trip, d.trips[rem.TripID] = t, t
	}
	site, ok := d.sites[rem.SiteID]
	if !ok {
		st, err := s.stores.Sites.GetByID(ctx, rem.SiteID)
		if err != nil {
			return mailer.Message{}, fmt.Errorf("load site: %w", err)
		}
		site, d.sites[rem.SiteID] = st, st
	}

	zone := s.calc.Zone()
	data := mailer.ReminderData{
		SiteName:  site.Name,
		PermitURL: site.PermitURL,
		OpensAt:   zone.Format(rem.PermitOpensAt, "Mon Jan 2, 2006 3:04 PM MST"),
		Zone:      zone.String(),
		TripName:  trip.Name,
		TripStart: rem.TripStartDate.Format("Mon Jan 2, 2006"),
	}
	if trip.EndDate != nil {
		data.TripEnd = trip.EndDate.Format("Mon Jan 2, 2006")
	}
	if base := strings.TrimRight(s.mail.AppBaseURL, "/"); base != "" {
		data.AppURL = base + "/trips/" + trip.ID.String()
	}
	return mailer.RenderReminder(data, d.recipients)
}
