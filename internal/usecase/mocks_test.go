package usecase

import (
	"io"
	"sync"
	"testing"
	"time"

	"go-medical-dispatch/internal/domain/entity"
	domainRepo "go-medical-dispatch/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormtests "gorm.io/gorm/utils/tests"
)

// testDB returns a *gorm.DB the fakes never touch; the usecases only pass
// it through to repository methods.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormtests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeDoctorRepo is an in-memory DoctorProfileRepository.
type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*entity.DoctorProfile
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*entity.DoctorProfile)}
}

func (f *fakeDoctorRepo) add(d *entity.DoctorProfile) *entity.DoctorProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.UserID == uuid.Nil {
		d.UserID = uuid.New()
	}
	f.doctors[d.ID] = d
	return d
}

func (f *fakeDoctorRepo) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	f.add(profile)
	return nil
}

func (f *fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doctors[profile.ID] = profile
	return nil
}

func (f *fakeDoctorRepo) UpdateLocation(db *gorm.DB, doctorID uuid.UUID, lat, lng float64, serviceRadiusKm *float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[doctorID]
	if !ok {
		return nil
	}
	d.CurrentLat = &lat
	d.CurrentLng = &lng
	if serviceRadiusKm != nil {
		d.ServiceRadiusKm = *serviceRadiusKm
	}
	return nil
}

func (f *fakeDoctorRepo) FindActiveBySpecialty(db *gorm.DB, specialty entity.Specialty, limit int) ([]entity.DoctorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.DoctorProfile
	for _, d := range f.doctors {
		if d.IsActive && d.HasSpecialty(specialty) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDoctorRepo) FindActive(db *gorm.DB, limit int) ([]entity.DoctorProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.DoctorProfile
	for _, d := range f.doctors {
		if d.IsActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

// fakePatientRepo is an in-memory PatientProfileRepository.
type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*entity.PatientProfile
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*entity.PatientProfile)}
}

func (f *fakePatientRepo) add(p *entity.PatientProfile) *entity.PatientProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}
	f.patients[p.ID] = p
	return p
}

func (f *fakePatientRepo) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	f.add(profile)
	return nil
}

func (f *fakePatientRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) Update(db *gorm.DB, profile *entity.PatientProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patients[profile.ID] = profile
	return nil
}

// fakeAppointmentRepo is an in-memory AppointmentRepository with the same
// conditional-update semantics as the SQL implementation.
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (f *fakeAppointmentRepo) add(a *entity.Appointment) *entity.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = entity.AppointmentPending
	}
	f.appointments[a.ID] = a
	return a
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	f.add(appointment)
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindOpen(db *gorm.DB, limit int) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.Status == entity.AppointmentPending && !a.IsEmergency {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindByPatientWithStatuses(db *gorm.DB, patientID uuid.UUID, statuses []entity.AppointmentStatus, limit int) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Appointment
	for _, a := range f.appointments {
		if a.PatientID != patientID {
			continue
		}
		for _, s := range statuses {
			if a.Status == s {
				out = append(out, *a)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok || a.IsTerminal() {
		return 0, nil
	}
	a.Status = status
	return 1, nil
}

func (f *fakeAppointmentRepo) CancelOwned(db *gorm.DB, id, patientID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok || a.PatientID != patientID || a.IsTerminal() {
		return 0, nil
	}
	a.Status = entity.AppointmentCancelled
	return 1, nil
}

func (f *fakeAppointmentRepo) Close(db *gorm.DB, id uuid.UUID, total decimal.Decimal, closedAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok || a.IsTerminal() {
		return 0, nil
	}
	a.Status = entity.AppointmentCompleted
	a.Total = &total
	a.ClosedAt = &closedAt
	return 1, nil
}

// fakeAssignmentRepo mirrors the transactional accept: a per-store mutex
// stands in for the appointment row lock, so concurrent accepts serialize
// exactly as they would against postgres.
type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments []*entity.AppointmentAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{}
}

func (f *fakeAssignmentRepo) Accept(db *gorm.DB, appointmentID, doctorID uuid.UUID) (*entity.AppointmentAssignment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var accepted int
	for _, a := range f.assignments {
		if a.AppointmentID != appointmentID {
			continue
		}
		if a.DoctorID == doctorID {
			copied := *a
			return &copied, false, nil
		}
		if a.Status == entity.AssignmentAccepted {
			accepted++
		}
	}

	if accepted >= entity.MaxAcceptedAssignments {
		return nil, false, domainRepo.ErrAssignmentCapacity
	}

	now := time.Now()
	assignment := &entity.AppointmentAssignment{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		DoctorID:      doctorID,
		Status:        entity.AssignmentAccepted,
		QueuePosition: accepted + 1,
		AcceptedAt:    &now,
	}
	f.assignments = append(f.assignments, assignment)
	copied := *assignment
	return &copied, true, nil
}

func (f *fakeAssignmentRepo) Cancel(db *gorm.DB, appointmentID, doctorID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.AppointmentID == appointmentID && a.DoctorID == doctorID && a.Status != entity.AssignmentCancelled {
			now := time.Now()
			a.Status = entity.AssignmentCancelled
			a.CancelledAt = &now
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeAssignmentRepo) FindByAppointmentAndDoctor(db *gorm.DB, appointmentID, doctorID uuid.UUID) (*entity.AppointmentAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.AppointmentID == appointmentID && a.DoctorID == doctorID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AppointmentAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.AppointmentAssignment
	for _, a := range f.assignments {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) CountAccepted(db *gorm.DB, appointmentID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.assignments {
		if a.AppointmentID == appointmentID && a.Status == entity.AssignmentAccepted {
			n++
		}
	}
	return n, nil
}

func (f *fakeAssignmentRepo) HasAccepted(db *gorm.DB, appointmentID, doctorID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.AppointmentID == appointmentID && a.DoctorID == doctorID && a.Status == entity.AssignmentAccepted {
			return true, nil
		}
	}
	return false, nil
}

// fakeSOSRepo implements the single-winner compare-and-set with a mutex in
// place of the conditional UPDATE.
type fakeSOSRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*entity.SOSRequest
}

func newFakeSOSRepo() *fakeSOSRepo {
	return &fakeSOSRepo{requests: make(map[uuid.UUID]*entity.SOSRequest)}
}

func (f *fakeSOSRepo) add(s *entity.SOSRequest) *entity.SOSRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = entity.SOSPending
	}
	f.requests[s.ID] = s
	return s
}

func (f *fakeSOSRepo) Create(db *gorm.DB, sos *entity.SOSRequest) error {
	f.add(sos)
	return nil
}

func (f *fakeSOSRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.SOSRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.requests[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeSOSRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.SOSRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.SOSRequest
	for _, s := range f.requests {
		if s.PatientID == patientID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSOSRepo) MarkAccepted(db *gorm.DB, sosID, doctorID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.requests[sosID]
	if !ok || s.Status != entity.SOSPending || s.AcceptedByID != nil {
		return 0, nil
	}
	s.Status = entity.SOSAccepted
	id := doctorID
	s.AcceptedByID = &id
	return 1, nil
}

func (f *fakeSOSRepo) CancelOwned(db *gorm.DB, sosID, patientID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.requests[sosID]
	if !ok || s.PatientID != patientID || s.Status != entity.SOSPending {
		return 0, nil
	}
	s.Status = entity.SOSCancelled
	return 1, nil
}

// fakeInvitationRepo is an in-memory SOSInvitationRepository.
type fakeInvitationRepo struct {
	mu          sync.Mutex
	invitations []*entity.SOSInvitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{}
}

func (f *fakeInvitationRepo) CreateBatch(db *gorm.DB, invitations []entity.SOSInvitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range invitations {
		inv := invitations[i]
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		f.invitations = append(f.invitations, &inv)
	}
	return nil
}

func (f *fakeInvitationRepo) MarkAccepted(db *gorm.DB, sosID, doctorID uuid.UUID, respondedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.SOSID == sosID && inv.DoctorID == doctorID {
			inv.Status = entity.InvitationAccepted
			inv.RespondedAt = &respondedAt
		}
	}
	return nil
}

func (f *fakeInvitationRepo) FindOpenByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.SOSInvitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.SOSInvitation
	for _, inv := range f.invitations {
		if inv.DoctorID == doctorID && (inv.Status == entity.InvitationInvited || inv.Status == entity.InvitationQueued) {
			out = append(out, *inv)
		}
	}
	return out, nil
}
