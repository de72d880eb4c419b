package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form283/pkg/models"
)

// cleanForm returns a fully filled record that passes every format rule.
func cleanForm() *models.Form283 {
	return &models.Form283{
		LastName:      "כהן",
		FirstName:     "דוד",
		IDNumber:      "123456789",
		Gender:        "זכר",
		DateOfBirth:   models.DateValue{Day: "15", Month: "06", Year: "1985"},
		Address: models.AddressValue{
			Street:      "הרצל",
			HouseNumber: "12",
			Entrance:    "א",
			Apartment:   "4",
			City:        "תל אביב",
			PostalCode:  "6120101",
			POBox:       "100",
		},
		LandlinePhone:       "039876543",
		MobilePhone:         "0502474947",
		JobType:             "נהג משאית",
		DateOfInjury:        models.DateValue{Day: "03", Month: "01", Year: "2023"},
		TimeOfInjury:        "08:30",
		AccidentLocation:    "מחסן החברה",
		AccidentAddress:     "רחוב התעשיה 5, חולון",
		AccidentDescription: "נפל מסולם בזמן סידור סחורה",
		InjuredBodyPart:     "רגל שמאל",
		Signature:           "ד. כהן",
		FormFillingDate:     models.DateValue{Day: "04", Month: "01", Year: "2023"},
		FormReceiptDateAtClinic: models.DateValue{Day: "05", Month: "01", Year: "2023"},
		MedicalInstitutionFields: models.MedicalBlock{
			HealthFundMember: "כללית",
			NatureOfAccident: "שבר ברגל",
			MedicalDiagnoses: "שבר בקרסול שמאל",
		},
	}
}

func TestValidateNilRecord(t *testing.T) {
	v := NewValidatorWithYear(2024)

	report, err := v.Validate(nil)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNilRecord)
}

func TestValidateCleanRecord(t *testing.T) {
	v := NewValidatorWithYear(2024)

	report, err := v.Validate(cleanForm())
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.AccuracyScore)
	assert.Equal(t, 100.0, report.CompletenessScore)
	assert.Equal(t, 21, report.FilledCount)
	assert.Equal(t, 21, report.TotalCount)
	assert.Empty(t, report.Corrections)
	assert.Empty(t, report.MissingFields)
	assert.Equal(t, "21/21 fields filled (100.0%). 21/21 filled fields accurate (100.0%). 0 quality issue(s) detected.", report.Summary)
}

func TestValidateEmptyRecord(t *testing.T) {
	v := NewValidatorWithYear(2024)

	report, err := v.Validate(&models.Form283{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.CompletenessScore)
	// No filled fields means nothing can be inaccurate.
	assert.Equal(t, 100.0, report.AccuracyScore)
	assert.Equal(t, 0, report.FilledCount)
	assert.Equal(t, 21, report.TotalCount)
	assert.Empty(t, report.Corrections)
	assert.Len(t, report.MissingFields, 21)
}

func TestValidateScoresArePerUnit(t *testing.T) {
	v := NewValidatorWithYear(2024)

	// One malformed field out of 21 filled.
	rec := cleanForm()
	rec.IDNumber = "12345678"

	report, err := v.Validate(rec)
	require.NoError(t, err)

	assert.Equal(t, 21, report.FilledCount)
	require.Len(t, report.Corrections, 1)
	assert.Equal(t, "idNumber", report.Corrections[0].Field)
	assert.Equal(t, "ID number should be 9 digits, got 8", report.Corrections[0].Reason)
	assert.InDelta(t, 100.0*20/21, report.AccuracyScore, 0.0001)
	assert.Equal(t, 100.0, report.CompletenessScore)
}

func TestValidateAccuracyClampedAtZero(t *testing.T) {
	v := NewValidatorWithYear(2024)

	// A single filled unit producing three issues must not push accuracy
	// below zero.
	rec := &models.Form283{
		DateOfBirth: models.DateValue{Day: "40", Month: "00", Year: "3000"},
	}

	report, err := v.Validate(rec)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilledCount)
	assert.Len(t, report.Corrections, 3)
	assert.Equal(t, 0.0, report.AccuracyScore)
}

func TestValidatePartialCompositeCounting(t *testing.T) {
	v := NewValidatorWithYear(2024)

	// A date with only the year counts as one filled unit; its empty
	// components come back as dotted leaf paths.
	rec := &models.Form283{
		DateOfBirth: models.DateValue{Year: "1985"},
	}

	report, err := v.Validate(rec)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilledCount)
	assert.Contains(t, report.MissingFields, "dateOfBirth.day")
	assert.Contains(t, report.MissingFields, "dateOfBirth.month")
	assert.NotContains(t, report.MissingFields, "dateOfBirth")
	assert.NotContains(t, report.MissingFields, "dateOfBirth.year")
	// The 20 untouched units appear once each under their own path.
	assert.Len(t, report.MissingFields, 22)
	assert.Contains(t, report.MissingFields, "address")
	assert.Contains(t, report.MissingFields, "medicalInstitutionFields.healthFundMember")
}

func TestValidateIssueOrderIsStable(t *testing.T) {
	v := NewValidatorWithYear(2024)

	rec := cleanForm()
	rec.IDNumber = "12"
	rec.LastName = ":unselected:"
	rec.MobilePhone = "6502474947"
	rec.LandlinePhone = "12345"
	rec.DateOfInjury.Day = "32"
	rec.Address.PostalCode = "123"

	report, err := v.Validate(rec)
	require.NoError(t, err)

	var fields []string
	for _, issue := range report.Corrections {
		fields = append(fields, issue.Field)
	}
	assert.Equal(t, []string{
		"idNumber",
		"lastName",
		"mobilePhone",
		"landlinePhone",
		"dateOfInjury.day",
		"address.postalCode",
	}, fields)
}

func TestValidateIsDeterministic(t *testing.T) {
	v := NewValidatorWithYear(2024)

	rec := cleanForm()
	rec.IDNumber = "12345678"
	rec.DateOfBirth.Month = "13"

	first, err := v.Validate(rec)
	require.NoError(t, err)
	second, err := v.Validate(rec)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ between runs (-first +second):\n%s", diff)
	}
}

func TestValidateDoesNotMutateRecord(t *testing.T) {
	v := NewValidatorWithYear(2024)

	rec := cleanForm()
	rec.IDNumber = "not-a-number"
	before := *rec

	_, err := v.Validate(rec)
	require.NoError(t, err)

	if diff := cmp.Diff(before, *rec); diff != "" {
		t.Errorf("record mutated by validation (-before +after):\n%s", diff)
	}
}

func TestValidateScoreBounds(t *testing.T) {
	v := NewValidatorWithYear(2024)

	records := []*models.Form283{
		{},
		cleanForm(),
		{IDNumber: "abc", MobilePhone: "999", Address: models.AddressValue{PostalCode: "1"}},
		{DateOfBirth: models.DateValue{Day: "99", Month: "99", Year: "99"}},
	}

	for _, rec := range records {
		report, err := v.Validate(rec)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, report.AccuracyScore, 0.0)
		assert.LessOrEqual(t, report.AccuracyScore, 100.0)
		assert.GreaterOrEqual(t, report.CompletenessScore, 0.0)
		assert.LessOrEqual(t, report.CompletenessScore, 100.0)
	}
}

func TestCountFilled(t *testing.T) {
	filled, total := countFilled(&models.Form283{})
	assert.Equal(t, 0, filled)
	assert.Equal(t, 21, total)

	filled, total = countFilled(cleanForm())
	assert.Equal(t, 21, filled)
	assert.Equal(t, 21, total)

	// Any single sub-field fills its composite.
	filled, _ = countFilled(&models.Form283{Address: models.AddressValue{City: "חיפה"}})
	assert.Equal(t, 1, filled)
}

func TestMissingFieldsEmptyRecordUnitPaths(t *testing.T) {
	missing := missingFields(&models.Form283{})

	require.Len(t, missing, 21)
	// Fully empty composites are reported once under the unit path, not
	// expanded into leaves.
	assert.Contains(t, missing, "dateOfBirth")
	assert.Contains(t, missing, "address")
	assert.NotContains(t, missing, "address.street")
	assert.Contains(t, missing, "medicalInstitutionFields.natureOfAccident")
}
