package schema

// Alias tables mapping canonical field identifiers to the external labels
// a field may appear under in raw extraction output. The first variant is
// the Hebrew form label, which is also the label used when encoding for
// output files. Keeping the table here, consumed once at the data-model
// boundary, keeps the validation core free of localization concerns.

// scalarAliases covers the top-level scalar fields of Form 283.
var scalarAliases = map[string][]string{
	"lastName":            {"שם משפחה", "lastName", "Last Name", "last name"},
	"firstName":           {"שם פרטי", "firstName", "First Name", "first name"},
	"idNumber":            {"מספר זהות", "idNumber", "ID Number", "id number", "ת.ז."},
	"gender":              {"מין", "gender", "Gender"},
	"landlinePhone":       {"טלפון קווי", "landlinePhone", "Landline Phone", "landline phone"},
	"mobilePhone":         {"טלפון נייד", "mobilePhone", "Mobile Phone", "mobile phone"},
	"jobType":             {"סוג העבודה", "jobType", "Job Type", "job type"},
	"timeOfInjury":        {"שעת הפגיעה", "timeOfInjury", "Time of Injury", "time of injury"},
	"accidentLocation":    {"מקום התאונה", "accidentLocation", "Accident Location", "accident location"},
	"accidentAddress":     {"כתובת מקום התאונה", "accidentAddress", "Accident Address", "accident address"},
	"accidentDescription": {"תיאור התאונה", "accidentDescription", "Accident Description", "accident description"},
	"injuredBodyPart":     {"האיבר שנפגע", "injuredBodyPart", "Injured Body Part", "injured body part"},
	"signature":           {"חתימה", "signature", "Signature"},
}

// compositeAliases covers the nested objects: the four dates, the address
// and the medical institution block.
var compositeAliases = map[string][]string{
	"dateOfBirth":              {"תאריך לידה", "dateOfBirth", "Date of Birth", "date of birth"},
	"dateOfInjury":             {"תאריך הפגיעה", "dateOfInjury", "Date of Injury", "date of injury"},
	"formFillingDate":          {"תאריך מילוי הטופס", "formFillingDate", "Form Filling Date", "form filling date"},
	"formReceiptDateAtClinic":  {"תאריך קבלת הטופס בקופה", "formReceiptDateAtClinic", "Form Receipt Date", "form receipt date"},
	"address":                  {"כתובת", "address", "Address"},
	"medicalInstitutionFields": {`למילוי ע"י המוסד הרפואי`, "medicalInstitutionFields", "Medical Institution Fields"},
}

// dateSubAliases covers the components of every date composite.
var dateSubAliases = map[string][]string{
	"day":   {"יום", "day", "Day"},
	"month": {"חודש", "month", "Month"},
	"year":  {"שנה", "year", "Year"},
}

// addressSubAliases covers the components of the address composite.
var addressSubAliases = map[string][]string{
	"street":      {"רחוב", "street", "Street"},
	"houseNumber": {"מספר בית", "houseNumber", "House Number", "house number"},
	"entrance":    {"כניסה", "entrance", "Entrance"},
	"apartment":   {"דירה", "apartment", "Apartment"},
	"city":        {"ישוב", "city", "City", "עיר"},
	"postalCode":  {"מיקוד", "postalCode", "Postal Code", "postal code", "zip"},
	"poBox":       {"תא דואר", "poBox", "PO Box", "po box"},
}

// medicalSubAliases covers the components of the medical institution block.
var medicalSubAliases = map[string][]string{
	"healthFundMember": {"חבר בקופת חולים", "healthFundMember", "Health Fund", "health fund"},
	"natureOfAccident": {"מהות התאונה", "natureOfAccident", "Nature of Accident", "nature of accident"},
	"medicalDiagnoses": {"אבחנות רפואיות", "medicalDiagnoses", "Medical Diagnoses", "medical diagnoses"},
}

// hebrewLabel returns the Hebrew form label for a canonical identifier,
// falling back to the identifier itself.
func hebrewLabel(table map[string][]string, canonical string) string {
	if variants, ok := table[canonical]; ok && len(variants) > 0 {
		return variants[0]
	}
	return canonical
}

// Label translates a canonical dotted field path into its Hebrew form
// label, e.g. "dateOfBirth.day" -> "תאריך לידה.יום". Unknown paths come
// back unchanged.
func Label(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] != '.' {
			continue
		}
		parent, sub := path[:i], path[i+1:]
		var subTable map[string][]string
		switch parent {
		case "address":
			subTable = addressSubAliases
		case "medicalInstitutionFields":
			subTable = medicalSubAliases
		default:
			subTable = dateSubAliases
		}
		return hebrewLabel(compositeAliases, parent) + "." + hebrewLabel(subTable, sub)
	}
	if _, ok := scalarAliases[path]; ok {
		return hebrewLabel(scalarAliases, path)
	}
	return hebrewLabel(compositeAliases, path)
}
