// Package schema maps raw extraction output onto the canonical Form283
// model.
//
// The extraction model is asked for Hebrew field labels, but real output
// drifts: English labels, camelCase identifiers, numbers where strings
// belong. This package absorbs all of that once, at the data-model
// boundary, so the validation core only ever sees canonical field names
// and string values. It also renders records back out under their Hebrew
// labels for the saved JSON artifacts.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"form283/pkg/models"
)

// ErrMalformedRecord is returned when raw extraction output does not have
// the expected shape (a composite field that is not an object, or no
// object at all). Shape problems are contract violations by the extraction
// step, unlike value-level noise, which decoding passes through untouched
// for the validator to report.
var ErrMalformedRecord = errors.New("schema: malformed form record")

// Decode builds a Form283 from raw extraction output. Values are coerced
// to trimmed strings; missing fields become empty strings. Unknown keys
// are ignored.
func Decode(raw map[string]any) (*models.Form283, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no data", ErrMalformedRecord)
	}

	rec := &models.Form283{}

	rec.LastName = scalar(raw, "lastName")
	rec.FirstName = scalar(raw, "firstName")
	rec.IDNumber = scalar(raw, "idNumber")
	rec.Gender = scalar(raw, "gender")
	rec.LandlinePhone = scalar(raw, "landlinePhone")
	rec.MobilePhone = scalar(raw, "mobilePhone")
	rec.JobType = scalar(raw, "jobType")
	rec.TimeOfInjury = scalar(raw, "timeOfInjury")
	rec.AccidentLocation = scalar(raw, "accidentLocation")
	rec.AccidentAddress = scalar(raw, "accidentAddress")
	rec.AccidentDescription = scalar(raw, "accidentDescription")
	rec.InjuredBodyPart = scalar(raw, "injuredBodyPart")
	rec.Signature = scalar(raw, "signature")

	var err error
	if rec.DateOfBirth, err = dateComposite(raw, "dateOfBirth"); err != nil {
		return nil, err
	}
	if rec.DateOfInjury, err = dateComposite(raw, "dateOfInjury"); err != nil {
		return nil, err
	}
	if rec.FormFillingDate, err = dateComposite(raw, "formFillingDate"); err != nil {
		return nil, err
	}
	if rec.FormReceiptDateAtClinic, err = dateComposite(raw, "formReceiptDateAtClinic"); err != nil {
		return nil, err
	}
	if rec.Address, err = addressComposite(raw); err != nil {
		return nil, err
	}
	if rec.MedicalInstitutionFields, err = medicalComposite(raw); err != nil {
		return nil, err
	}

	return rec, nil
}

// DecodeJSON decodes a JSON document into a Form283.
func DecodeJSON(data []byte) (*models.Form283, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return Decode(raw)
}

// EncodeAliased renders a record as a map keyed by the Hebrew form labels,
// the shape the extraction prompt requests and the saved form-data JSON
// uses.
func EncodeAliased(rec *models.Form283) map[string]any {
	date := func(d models.DateValue) map[string]any {
		return map[string]any{
			hebrewLabel(dateSubAliases, "day"):   d.Day,
			hebrewLabel(dateSubAliases, "month"): d.Month,
			hebrewLabel(dateSubAliases, "year"):  d.Year,
		}
	}

	return map[string]any{
		hebrewLabel(scalarAliases, "lastName"):              rec.LastName,
		hebrewLabel(scalarAliases, "firstName"):             rec.FirstName,
		hebrewLabel(scalarAliases, "idNumber"):              rec.IDNumber,
		hebrewLabel(scalarAliases, "gender"):                rec.Gender,
		hebrewLabel(compositeAliases, "dateOfBirth"):        date(rec.DateOfBirth),
		hebrewLabel(compositeAliases, "address"): map[string]any{
			hebrewLabel(addressSubAliases, "street"):      rec.Address.Street,
			hebrewLabel(addressSubAliases, "houseNumber"): rec.Address.HouseNumber,
			hebrewLabel(addressSubAliases, "entrance"):    rec.Address.Entrance,
			hebrewLabel(addressSubAliases, "apartment"):   rec.Address.Apartment,
			hebrewLabel(addressSubAliases, "city"):        rec.Address.City,
			hebrewLabel(addressSubAliases, "postalCode"):  rec.Address.PostalCode,
			hebrewLabel(addressSubAliases, "poBox"):       rec.Address.POBox,
		},
		hebrewLabel(scalarAliases, "landlinePhone"):         rec.LandlinePhone,
		hebrewLabel(scalarAliases, "mobilePhone"):           rec.MobilePhone,
		hebrewLabel(scalarAliases, "jobType"):               rec.JobType,
		hebrewLabel(compositeAliases, "dateOfInjury"):       date(rec.DateOfInjury),
		hebrewLabel(scalarAliases, "timeOfInjury"):          rec.TimeOfInjury,
		hebrewLabel(scalarAliases, "accidentLocation"):      rec.AccidentLocation,
		hebrewLabel(scalarAliases, "accidentAddress"):       rec.AccidentAddress,
		hebrewLabel(scalarAliases, "accidentDescription"):   rec.AccidentDescription,
		hebrewLabel(scalarAliases, "injuredBodyPart"):       rec.InjuredBodyPart,
		hebrewLabel(scalarAliases, "signature"):             rec.Signature,
		hebrewLabel(compositeAliases, "formFillingDate"):    date(rec.FormFillingDate),
		hebrewLabel(compositeAliases, "formReceiptDateAtClinic"): date(rec.FormReceiptDateAtClinic),
		hebrewLabel(compositeAliases, "medicalInstitutionFields"): map[string]any{
			hebrewLabel(medicalSubAliases, "healthFundMember"): rec.MedicalInstitutionFields.HealthFundMember,
			hebrewLabel(medicalSubAliases, "natureOfAccident"): rec.MedicalInstitutionFields.NatureOfAccident,
			hebrewLabel(medicalSubAliases, "medicalDiagnoses"): rec.MedicalInstitutionFields.MedicalDiagnoses,
		},
	}
}

// lookup finds the raw value for a canonical field under any of its known
// label variants. Raw keys are compared after whitespace trimming.
func lookup(raw map[string]any, variants []string) (any, bool) {
	for _, variant := range variants {
		if v, ok := raw[variant]; ok {
			return v, true
		}
	}
	// Second pass for keys with stray whitespace from the model output.
	for key, v := range raw {
		trimmed := strings.TrimSpace(key)
		if trimmed == key {
			continue
		}
		for _, variant := range variants {
			if trimmed == variant {
				return v, true
			}
		}
	}
	return nil, false
}

func scalar(raw map[string]any, canonical string) string {
	v, ok := lookup(raw, scalarAliases[canonical])
	if !ok {
		return ""
	}
	return coerceString(v)
}

func composite(raw map[string]any, canonical string) (map[string]any, error) {
	v, ok := lookup(raw, compositeAliases[canonical])
	if !ok || v == nil {
		return nil, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: field %q: expected object, got %T", ErrMalformedRecord, canonical, v)
	}
	return obj, nil
}

func dateComposite(raw map[string]any, canonical string) (models.DateValue, error) {
	obj, err := composite(raw, canonical)
	if err != nil || obj == nil {
		return models.DateValue{}, err
	}
	return models.DateValue{
		Day:   sub(obj, dateSubAliases, "day"),
		Month: sub(obj, dateSubAliases, "month"),
		Year:  sub(obj, dateSubAliases, "year"),
	}, nil
}

func addressComposite(raw map[string]any) (models.AddressValue, error) {
	obj, err := composite(raw, "address")
	if err != nil || obj == nil {
		return models.AddressValue{}, err
	}
	return models.AddressValue{
		Street:      sub(obj, addressSubAliases, "street"),
		HouseNumber: sub(obj, addressSubAliases, "houseNumber"),
		Entrance:    sub(obj, addressSubAliases, "entrance"),
		Apartment:   sub(obj, addressSubAliases, "apartment"),
		City:        sub(obj, addressSubAliases, "city"),
		PostalCode:  sub(obj, addressSubAliases, "postalCode"),
		POBox:       sub(obj, addressSubAliases, "poBox"),
	}, nil
}

func medicalComposite(raw map[string]any) (models.MedicalBlock, error) {
	obj, err := composite(raw, "medicalInstitutionFields")
	if err != nil || obj == nil {
		return models.MedicalBlock{}, err
	}
	return models.MedicalBlock{
		HealthFundMember: sub(obj, medicalSubAliases, "healthFundMember"),
		NatureOfAccident: sub(obj, medicalSubAliases, "natureOfAccident"),
		MedicalDiagnoses: sub(obj, medicalSubAliases, "medicalDiagnoses"),
	}, nil
}

func sub(obj map[string]any, table map[string][]string, canonical string) string {
	v, ok := lookup(obj, table[canonical])
	if !ok {
		return ""
	}
	return coerceString(v)
}

// coerceString converts a raw JSON value to the model's string
// representation. Numbers lose their float decoding artifacts ("2023",
// not "2023.000000"); nil becomes the empty string like every other
// missing value.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
