package gdpr

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
	"github.com/doktor-na-dohled/booking-api/internal/service/audit"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
	"github.com/doktor-na-dohled/booking-api/pkg/security"
)

type fakeConsentRepo struct {
	records []*model.ConsentRecord
}

func (f *fakeConsentRepo) Create(ctx context.Context, record *model.ConsentRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeConsentRepo) List(ctx context.Context, filters *model.ConsentFilters) ([]*model.ConsentRecord, int, error) {
	var out []*model.ConsentRecord
	for _, r := range f.records {
		if r.UserID != filters.UserID {
			continue
		}
		if filters.ConsentType != "" && r.ConsentType != filters.ConsentType {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (f *fakeConsentRepo) LatestPerType(ctx context.Context, userID uuid.UUID) ([]*model.ConsentRecord, error) {
	latest := map[string]*model.ConsentRecord{}
	for _, r := range f.records {
		if r.UserID != userID {
			continue
		}
		if cur, ok := latest[r.ConsentType]; !ok || r.CreatedAt.After(cur.CreatedAt) {
			latest[r.ConsentType] = r
		}
	}
	var out []*model.ConsentRecord
	for _, r := range latest {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeConsentRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var kept []*model.ConsentRecord
	var n int64
	for _, r := range f.records {
		if r.UserID == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return n, nil
}

type fakeAppointmentStore struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (f *fakeAppointmentStore) Create(ctx context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentStore) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}

func (f *fakeAppointmentStore) Update(ctx context.Context, apt *model.Appointment) error {
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentStore) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.PatientID == filters.PatientID {
			out = append(out, apt)
		}
	}
	return out, len(out), nil
}

func (f *fakeAppointmentStore) ListDetailed(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeAppointmentStore) SetTelemedicineLink(ctx context.Context, id uuid.UUID, link string) error {
	return nil
}

func (f *fakeAppointmentStore) DeleteCancelledBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAppointmentStore) DeleteByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var n int64
	for id, apt := range f.appointments {
		if apt.PatientID == patientID {
			delete(f.appointments, id)
			n++
		}
	}
	return n, nil
}

type fakePatientStore struct {
	patients map[uuid.UUID]*model.Patient
}

func (f *fakePatientStore) Get(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	patient, ok := f.patients[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return patient, nil
}

func (f *fakePatientStore) Delete(ctx context.Context, userID uuid.UUID) error {
	delete(f.patients, userID)
	return nil
}

type fakeAuditStore struct {
	entries []*model.AuditLog
}

func (f *fakeAuditStore) Create(ctx context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) List(ctx context.Context, entityType string, limit, offset int) ([]*model.AuditLog, error) {
	return f.entries, nil
}

func (f *fakeAuditStore) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fixture struct {
	svc          *Service
	consents     *fakeConsentRepo
	appointments *fakeAppointmentStore
	patients     *fakePatientStore
	audits       *fakeAuditStore
	userID       uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cat, err := catalog.NewCzech()
	require.NoError(t, err)

	f := &fixture{
		consents:     &fakeConsentRepo{},
		appointments: &fakeAppointmentStore{appointments: make(map[uuid.UUID]*model.Appointment)},
		patients:     &fakePatientStore{patients: make(map[uuid.UUID]*model.Patient)},
		audits:       &fakeAuditStore{},
		userID:       uuid.New(),
	}
	f.patients.patients[f.userID] = &model.Patient{
		UserID:   f.userID,
		FullName: "Petr Svoboda",
		Email:    "petr@example.cz",
	}

	f.svc = NewService(
		f.consents,
		f.appointments,
		f.patients,
		audit.NewService(f.audits, security.NewPseudonymizer("secret", "salt")),
		cat,
		logger.NewLogger(nil),
	)
	return f
}

func boolptr(b bool) *bool { return &b }

func TestRecordConsent(t *testing.T) {
	f := newFixture(t)

	record, err := f.svc.RecordConsent(context.Background(), f.userID, &model.RecordConsentRequest{
		ConsentType:  "telemedicine",
		ConsentGiven: boolptr(true),
	}, RequestMeta{IPAddress: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)

	assert.Equal(t, f.userID, record.UserID)
	assert.True(t, record.Given)
	assert.Equal(t, "1.0", record.Version)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.AuditActionConsentGiven, f.audits.entries[0].Action)
	assert.Equal(t, "consent", f.audits.entries[0].LegalBasis)
	// The audit subject is pseudonymized, never the raw user id.
	require.NotNil(t, f.audits.entries[0].SubjectID)
	assert.NotEqual(t, f.userID.String(), *f.audits.entries[0].SubjectID)
}

func TestRevokeConsentIsNewRecord(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordConsent(context.Background(), f.userID, &model.RecordConsentRequest{
		ConsentType:  "marketing",
		ConsentGiven: boolptr(true),
	}, RequestMeta{})
	require.NoError(t, err)

	revoked, err := f.svc.RecordConsent(context.Background(), f.userID, &model.RecordConsentRequest{
		ConsentType:  "marketing",
		ConsentGiven: boolptr(false),
	}, RequestMeta{})
	require.NoError(t, err)
	assert.False(t, revoked.Given)

	// Both decisions stay in the ledger.
	assert.Len(t, f.consents.records, 2)
	assert.Equal(t, model.AuditActionConsentRevoked, f.audits.entries[1].Action)
}

func TestConsentStatusTakesLatestPerType(t *testing.T) {
	f := newFixture(t)

	base := time.Now().Add(-time.Hour)
	f.consents.records = []*model.ConsentRecord{
		{UserID: f.userID, ConsentType: "marketing", Given: true, CreatedAt: base},
		{UserID: f.userID, ConsentType: "marketing", Given: false, CreatedAt: base.Add(time.Minute)},
		{UserID: f.userID, ConsentType: "chat", Given: true, CreatedAt: base},
	}

	status, err := f.svc.ConsentStatus(context.Background(), f.userID)
	require.NoError(t, err)

	require.Len(t, status, 2)
	assert.False(t, status["marketing"].Given)
	assert.True(t, status["chat"].Given)
}

func TestConsentHistoryClampsPaging(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.ConsentHistory(context.Background(), f.userID, "", -5, -1)
	require.NoError(t, err)
}

func TestExportCollectsUserData(t *testing.T) {
	f := newFixture(t)

	apt := &model.Appointment{ID: uuid.New(), PatientID: f.userID}
	f.appointments.appointments[apt.ID] = apt
	f.consents.records = []*model.ConsentRecord{
		{UserID: f.userID, ConsentType: "chat", Given: true, CreatedAt: time.Now()},
		{UserID: uuid.New(), ConsentType: "chat", Given: true, CreatedAt: time.Now()},
	}

	export, err := f.svc.Export(context.Background(), f.userID, RequestMeta{})
	require.NoError(t, err)

	require.NotNil(t, export.Profile)
	assert.Equal(t, "Petr Svoboda", export.Profile.FullName)
	require.Len(t, export.Appointments, 1)
	// Only the subject's own consents are exported.
	require.Len(t, export.Consents, 1)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.AuditActionDataExport, f.audits.entries[0].Action)
}

func TestExportWithoutProfile(t *testing.T) {
	f := newFixture(t)
	delete(f.patients.patients, f.userID)

	export, err := f.svc.Export(context.Background(), f.userID, RequestMeta{})
	require.NoError(t, err)
	assert.Nil(t, export.Profile)
}

func TestEraseDefaultsToAllErasableTypes(t *testing.T) {
	f := newFixture(t)

	apt := &model.Appointment{ID: uuid.New(), PatientID: f.userID}
	f.appointments.appointments[apt.ID] = apt
	f.consents.records = []*model.ConsentRecord{
		{UserID: f.userID, ConsentType: "chat", Given: true, CreatedAt: time.Now()},
	}

	deleted, err := f.svc.Erase(context.Background(), f.userID, &model.EraseDataRequest{
		Reason: "Ukončení používání služby",
	}, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), deleted[DataTypeAppointments])
	assert.Equal(t, int64(1), deleted[DataTypeConsents])
	assert.Empty(t, f.appointments.appointments)
	assert.Empty(t, f.consents.records)
	assert.Empty(t, f.patients.patients)

	// The deletion request itself is audited before any rows go away.
	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.AuditActionDataDeletion, f.audits.entries[0].Action)
}

func TestEraseMedicalRecordsIsRefused(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Erase(context.Background(), f.userID, &model.EraseDataRequest{
		DataTypes: []string{"medical"},
		Reason:    "Ukončení používání služby",
	}, RequestMeta{})

	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "Zdravotní záznamy podléhají zákonné archivační lhůtě a nelze je smazat", appErr.Message)

	// Nothing was touched.
	assert.Len(t, f.patients.patients, 1)
}
