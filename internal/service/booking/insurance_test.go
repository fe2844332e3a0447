package booking

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/model"
)

func testChecker(t *testing.T) *InsuranceChecker {
	t.Helper()
	cat, err := catalog.NewCzech()
	require.NoError(t, err)
	return NewInsuranceChecker(cat)
}

func insuredPatient(code string) *model.Patient {
	return &model.Patient{InsuranceProvider: &code}
}

func acceptingDoctor(codes ...string) *model.Doctor {
	return &model.Doctor{AcceptedInsurances: pq.StringArray(codes)}
}

func TestCheckAcceptedInsurance(t *testing.T) {
	c := testChecker(t)

	status := c.Check(insuredPatient("111"), acceptingDoctor("111", "201"))
	assert.True(t, status.Verified)
	assert.Equal(t, msgInsuranceAccepted, status.Message)
	require.NotNil(t, status.Provider)
	assert.Equal(t, "Všeobecná zdravotní pojišťovna České republiky", *status.Provider)
}

func TestCheckNoInsuranceOnFile(t *testing.T) {
	c := testChecker(t)

	for _, patient := range []*model.Patient{nil, {}, insuredPatient("")} {
		status := c.Check(patient, acceptingDoctor("111"))
		assert.False(t, status.Verified)
		assert.Nil(t, status.Provider)
		assert.Equal(t, msgNoInsuranceOnFile, status.Message)
	}
}

func TestCheckInsurerNotAccepted(t *testing.T) {
	c := testChecker(t)

	status := c.Check(insuredPatient("205"), acceptingDoctor("111", "201"))
	assert.False(t, status.Verified)
	assert.Equal(t, msgInsurerNotAccepted, status.Message)
	// Provider name is still resolved for the response.
	require.NotNil(t, status.Provider)
	assert.Equal(t, "Česká průmyslová zdravotní pojišťovna", *status.Provider)
}

func TestCheckUnknownInsurerCode(t *testing.T) {
	c := testChecker(t)

	status := c.Check(insuredPatient("999"), acceptingDoctor("111"))
	assert.False(t, status.Verified)
	assert.Nil(t, status.Provider)
}

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, model.PaymentStatusPaid, PaymentStatusFor(model.InsuranceStatus{Verified: true}))
	assert.Equal(t, model.PaymentStatusPending, PaymentStatusFor(model.InsuranceStatus{Verified: false}))
}
