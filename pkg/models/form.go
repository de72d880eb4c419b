package models

// DateValue represents a date in day/month/year format.
//
// All components are strings to match the form's text-based input boxes.
// Empty strings are used for missing values; the value is never normalized
// here (leading zeros, stray characters and all survive as extracted).
type DateValue struct {
	Day   string `json:"day"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

// IsEmpty reports whether all three date components are empty.
func (d DateValue) IsEmpty() bool {
	return d.Day == "" && d.Month == "" && d.Year == ""
}

// AddressValue represents a full Israeli address as it appears on the form.
type AddressValue struct {
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	Entrance    string `json:"entrance"`
	Apartment   string `json:"apartment"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	POBox       string `json:"poBox"`
}

// IsEmpty reports whether all seven address components are empty.
func (a AddressValue) IsEmpty() bool {
	return a.Street == "" && a.HouseNumber == "" && a.Entrance == "" &&
		a.Apartment == "" && a.City == "" && a.PostalCode == "" && a.POBox == ""
}

// MedicalBlock holds the fields filled by the medical institution
// (Part 5 of Form 283). Unlike the date and address composites, its three
// fields are counted individually for completeness purposes.
type MedicalBlock struct {
	HealthFundMember string `json:"healthFundMember"`
	NatureOfAccident string `json:"natureOfAccident"`
	MedicalDiagnoses string `json:"medicalDiagnoses"`
}

// Form283 is the canonical structured representation of one Israeli
// National Insurance Form 283 ("Application for Medical Treatment for
// Self-Employed Work Injury") instance.
//
// The model is a passive container: every field defaults to the empty
// string, absence is always represented as "", and nothing here reformats
// or cleans values. Hebrew/English label aliasing is handled entirely by
// the schema package before a Form283 is constructed, so the struct and
// everything downstream of it only ever sees canonical field names.
type Form283 struct {
	// Personal information (Part 2)
	LastName    string    `json:"lastName"`
	FirstName   string    `json:"firstName"`
	IDNumber    string    `json:"idNumber"`
	Gender      string    `json:"gender"`
	DateOfBirth DateValue `json:"dateOfBirth"`

	// Contact information
	Address       AddressValue `json:"address"`
	LandlinePhone string       `json:"landlinePhone"`
	MobilePhone   string       `json:"mobilePhone"`

	// Injury details (Part 3)
	JobType             string    `json:"jobType"`
	DateOfInjury        DateValue `json:"dateOfInjury"`
	TimeOfInjury        string    `json:"timeOfInjury"`
	AccidentLocation    string    `json:"accidentLocation"`
	AccidentAddress     string    `json:"accidentAddress"`
	AccidentDescription string    `json:"accidentDescription"`
	InjuredBodyPart     string    `json:"injuredBodyPart"`

	// Declaration (Part 4)
	Signature string `json:"signature"`

	// Form metadata
	FormFillingDate         DateValue `json:"formFillingDate"`
	FormReceiptDateAtClinic DateValue `json:"formReceiptDateAtClinic"`

	// Medical institution fields (Part 5)
	MedicalInstitutionFields MedicalBlock `json:"medicalInstitutionFields"`
}
