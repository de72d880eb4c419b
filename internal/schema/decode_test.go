package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form283/pkg/models"
)

func TestDecodeHebrewLabels(t *testing.T) {
	raw := map[string]any{
		"שם משפחה":   "כהן",
		"שם פרטי":    "דוד",
		"מספר זהות":  "123456789",
		"מין":        "זכר",
		"טלפון נייד": "0502474947",
		"תאריך לידה": map[string]any{
			"יום":  "15",
			"חודש": "06",
			"שנה":  "1985",
		},
		"כתובת": map[string]any{
			"רחוב":     "הרצל",
			"מספר בית": "12",
			"ישוב":     "תל אביב",
			"מיקוד":    "6120101",
		},
		`למילוי ע"י המוסד הרפואי`: map[string]any{
			"חבר בקופת חולים": "כללית",
			"מהות התאונה":     "שבר ברגל",
		},
	}

	rec, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "כהן", rec.LastName)
	assert.Equal(t, "דוד", rec.FirstName)
	assert.Equal(t, "123456789", rec.IDNumber)
	assert.Equal(t, "0502474947", rec.MobilePhone)
	assert.Equal(t, models.DateValue{Day: "15", Month: "06", Year: "1985"}, rec.DateOfBirth)
	assert.Equal(t, "הרצל", rec.Address.Street)
	assert.Equal(t, "6120101", rec.Address.PostalCode)
	assert.Equal(t, "כללית", rec.MedicalInstitutionFields.HealthFundMember)
	assert.Equal(t, "שבר ברגל", rec.MedicalInstitutionFields.NatureOfAccident)
	// Absent fields decode to empty strings, not errors.
	assert.Equal(t, "", rec.Signature)
	assert.True(t, rec.DateOfInjury.IsEmpty())
}

func TestDecodeEnglishAndCamelCaseAliases(t *testing.T) {
	raw := map[string]any{
		"lastName":  "Cohen",
		"firstName": "David",
		"ID Number": "987654321",
		"dateOfInjury": map[string]any{
			"day":   "03",
			"Month": "01",
			"year":  "2023",
		},
	}

	rec, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "Cohen", rec.LastName)
	assert.Equal(t, "David", rec.FirstName)
	assert.Equal(t, "987654321", rec.IDNumber)
	assert.Equal(t, models.DateValue{Day: "03", Month: "01", Year: "2023"}, rec.DateOfInjury)
}

func TestDecodeCoercesValues(t *testing.T) {
	raw := map[string]any{
		"מספר זהות": float64(123456789),
		"שם משפחה":  "  כהן  ",
		"חתימה":     nil,
		"תאריך לידה": map[string]any{
			"שנה": float64(1985),
		},
	}

	rec, err := Decode(raw)
	require.NoError(t, err)

	// Integral floats lose their JSON decoding artifacts.
	assert.Equal(t, "123456789", rec.IDNumber)
	assert.Equal(t, "כהן", rec.LastName)
	assert.Equal(t, "", rec.Signature)
	assert.Equal(t, "1985", rec.DateOfBirth.Year)
}

func TestDecodeTrimsStrayKeyWhitespace(t *testing.T) {
	raw := map[string]any{
		" שם משפחה ": "כהן",
	}

	rec, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "כהן", rec.LastName)
}

func TestDecodeMalformedComposite(t *testing.T) {
	raw := map[string]any{
		"תאריך לידה": "15/06/1985",
	}

	rec, err := Decode(raw)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestDecodeNilMap(t *testing.T) {
	rec, err := Decode(nil)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{
		"שם משפחה": "כהן",
		"מספר זהות": "123456789",
		"תאריך הפגיעה": {"יום": "03", "חודש": "01", "שנה": "2023"}
	}`)

	rec, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "כהן", rec.LastName)
	assert.Equal(t, "2023", rec.DateOfInjury.Year)
}

func TestDecodeJSONInvalid(t *testing.T) {
	rec, err := DecodeJSON([]byte("not json"))
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestEncodeAliasedRoundTrip(t *testing.T) {
	rec := &models.Form283{
		LastName:    "כהן",
		FirstName:   "דוד",
		IDNumber:    "123456789",
		MobilePhone: "0502474947",
		DateOfBirth: models.DateValue{Day: "15", Month: "06", Year: "1985"},
		Address: models.AddressValue{
			Street:     "הרצל",
			City:       "תל אביב",
			PostalCode: "6120101",
		},
		MedicalInstitutionFields: models.MedicalBlock{
			HealthFundMember: "כללית",
		},
	}

	encoded := EncodeAliased(rec)
	assert.Equal(t, "כהן", encoded["שם משפחה"])

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	if diff := cmp.Diff(rec, decoded); diff != "" {
		t.Errorf("round trip mismatch (-original +decoded):\n%s", diff)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "שם משפחה", Label("lastName"))
	assert.Equal(t, "תאריך לידה.יום", Label("dateOfBirth.day"))
	assert.Equal(t, "כתובת.מיקוד", Label("address.postalCode"))
	assert.Equal(t, `למילוי ע"י המוסד הרפואי.אבחנות רפואיות`, Label("medicalInstitutionFields.medicalDiagnoses"))
	assert.Equal(t, "unknownField", Label("unknownField"))
}
