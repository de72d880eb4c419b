package validation

import "form283/pkg/models"

// totalUnits is the fixed number of logical units on Form 283: 13 scalar
// fields, 4 date composites, 1 address composite and 3 medical
// institution fields.
const totalUnits = 21

// leaf is one addressable scalar value inside a logical unit.
type leaf struct {
	path  string
	value string
}

// unit is one logical field counted once for completeness. Scalar fields
// are single-leaf units whose leaf path equals the unit path; date and
// address composites carry one leaf per sub-field.
type unit struct {
	path   string
	leaves []leaf
}

func (u unit) filled() bool {
	for _, l := range u.leaves {
		if l.value != "" {
			return true
		}
	}
	return false
}

func scalarUnit(path, value string) unit {
	return unit{path: path, leaves: []leaf{{path: path, value: value}}}
}

func dateUnit(path string, d models.DateValue) unit {
	return unit{path: path, leaves: []leaf{
		{path: path + ".day", value: d.Day},
		{path: path + ".month", value: d.Month},
		{path: path + ".year", value: d.Year},
	}}
}

func addressUnit(path string, a models.AddressValue) unit {
	return unit{path: path, leaves: []leaf{
		{path: path + ".street", value: a.Street},
		{path: path + ".houseNumber", value: a.HouseNumber},
		{path: path + ".entrance", value: a.Entrance},
		{path: path + ".apartment", value: a.Apartment},
		{path: path + ".city", value: a.City},
		{path: path + ".postalCode", value: a.PostalCode},
		{path: path + ".poBox", value: a.POBox},
	}}
}

// formUnits flattens a record into its logical units, in the order the
// fields appear on the form. The completeness counter and the
// missing-field enumeration both walk this same structure so the two can
// never disagree.
func formUnits(rec *models.Form283) []unit {
	return []unit{
		scalarUnit("lastName", rec.LastName),
		scalarUnit("firstName", rec.FirstName),
		scalarUnit("idNumber", rec.IDNumber),
		scalarUnit("gender", rec.Gender),
		dateUnit("dateOfBirth", rec.DateOfBirth),
		addressUnit("address", rec.Address),
		scalarUnit("landlinePhone", rec.LandlinePhone),
		scalarUnit("mobilePhone", rec.MobilePhone),
		scalarUnit("jobType", rec.JobType),
		dateUnit("dateOfInjury", rec.DateOfInjury),
		scalarUnit("timeOfInjury", rec.TimeOfInjury),
		scalarUnit("accidentLocation", rec.AccidentLocation),
		scalarUnit("accidentAddress", rec.AccidentAddress),
		scalarUnit("accidentDescription", rec.AccidentDescription),
		scalarUnit("injuredBodyPart", rec.InjuredBodyPart),
		scalarUnit("signature", rec.Signature),
		dateUnit("formFillingDate", rec.FormFillingDate),
		dateUnit("formReceiptDateAtClinic", rec.FormReceiptDateAtClinic),
		scalarUnit("medicalInstitutionFields.healthFundMember", rec.MedicalInstitutionFields.HealthFundMember),
		scalarUnit("medicalInstitutionFields.natureOfAccident", rec.MedicalInstitutionFields.NatureOfAccident),
		scalarUnit("medicalInstitutionFields.medicalDiagnoses", rec.MedicalInstitutionFields.MedicalDiagnoses),
	}
}

// countFilled returns (filled, total) over the logical units. A date or
// address composite counts as filled when any of its sub-fields is
// non-empty.
func countFilled(rec *models.Form283) (int, int) {
	units := formUnits(rec)
	filled := 0
	for _, u := range units {
		if u.filled() {
			filled++
		}
	}
	return filled, len(units)
}

// missingFields enumerates the dotted path of every empty field. A
// composite that is entirely empty is reported once under its own path; a
// partially filled composite is reported per empty sub-field.
func missingFields(rec *models.Form283) []string {
	missing := []string{}
	for _, u := range formUnits(rec) {
		if !u.filled() {
			missing = append(missing, u.path)
			continue
		}
		if len(u.leaves) == 1 {
			continue
		}
		for _, l := range u.leaves {
			if l.value == "" {
				missing = append(missing, l.path)
			}
		}
	}
	return missing
}
