package validation

import (
	"fmt"
	"strconv"
	"strings"

	"form283/pkg/models"
)

// Checkbox tokens the layout OCR renders for ticked and unticked boxes.
// When a read goes wrong they leak into neighboring text fields; a last
// name containing one is a failed read, not a name.
var ocrCheckboxMarkers = []string{":selected:", ":unselected:"}

// addIssue appends one finding to the issue list being built.
type addIssue func(path, value, reason string)

// checkQuality runs the full rule catalogue over the record and returns
// the issues found, in fixed evaluation order.
//
// Rules fire only for non-empty fields: empty fields are a completeness
// concern and must never be double-penalized here. Within one field the
// checks are chained format -> length -> range and stop at the first
// failure, since a malformed value makes the later checks meaningless.
// Checks on different fields are fully independent.
func (v *Validator) checkQuality(rec *models.Form283) []models.QualityIssue {
	issues := []models.QualityIssue{}
	add := func(path, value, reason string) {
		issues = append(issues, models.QualityIssue{Field: path, Value: value, Reason: reason})
	}

	checkIDNumber(rec.IDNumber, add)
	checkLastName(rec.LastName, add)
	checkMobilePhone(rec.MobilePhone, add)
	checkLandlinePhone(rec.LandlinePhone, add)
	v.checkDate("dateOfBirth", rec.DateOfBirth, add)
	v.checkDate("dateOfInjury", rec.DateOfInjury, add)
	v.checkDate("formFillingDate", rec.FormFillingDate, add)
	v.checkDate("formReceiptDateAtClinic", rec.FormReceiptDateAtClinic, add)
	checkPostalCode(rec.Address.PostalCode, add)

	return issues
}

// checkIDNumber verifies the Israeli ID: digits only, exactly 9 of them.
// Spaces and hyphens are common OCR separators and are ignored.
func checkIDNumber(value string, add addIssue) {
	if value == "" {
		return
	}
	digits := stripSeparators(value, " -")
	if !allDigits(digits) {
		add("idNumber", value, "ID number contains non-numeric characters")
		return
	}
	if len(digits) != 9 {
		add("idNumber", value, fmt.Sprintf("ID number should be 9 digits, got %d", len(digits)))
	}
}

// checkLastName flags a last name that is actually a leaked checkbox
// artifact from the layout OCR.
func checkLastName(value string, add addIssue) {
	if value == "" {
		return
	}
	for _, marker := range ocrCheckboxMarkers {
		if strings.Contains(value, marker) {
			add("lastName", value, "OCR failed to read last name: detected checkbox marker instead of actual name")
			return
		}
	}
}

// checkMobilePhone verifies an Israeli mobile number: digits only, leading
// zero, and 10 digits when it carries the 05 mobile prefix.
func checkMobilePhone(value string, add addIssue) {
	if value == "" {
		return
	}
	digits := stripSeparators(value, " -()")
	if !allDigits(digits) {
		add("mobilePhone", value, "Phone number contains non-numeric characters")
		return
	}
	if !strings.HasPrefix(digits, "0") {
		add("mobilePhone", value, "Israeli phone numbers should start with 0")
		return
	}
	if strings.HasPrefix(digits, "05") && len(digits) != 10 {
		add("mobilePhone", value, fmt.Sprintf("Mobile phone should be 10 digits, got %d", len(digits)))
	}
}

// checkLandlinePhone verifies an Israeli landline: digits only, leading
// zero, and 9 digits for any non-mobile prefix.
func checkLandlinePhone(value string, add addIssue) {
	if value == "" {
		return
	}
	digits := stripSeparators(value, " -()")
	if !allDigits(digits) {
		add("landlinePhone", value, "Phone number contains non-numeric characters")
		return
	}
	if !strings.HasPrefix(digits, "0") {
		add("landlinePhone", value, "Israeli phone numbers should start with 0")
		return
	}
	if !strings.HasPrefix(digits, "05") && len(digits) != 9 {
		add("landlinePhone", value, fmt.Sprintf("Landline phone should be 9 digits, got %d", len(digits)))
	}
}

// checkDate verifies each non-empty date component independently: numeric
// first, then in range. Day and month have fixed bounds; the year bound
// tracks the validator's current year plus one, so a form dated slightly
// ahead (receipt stamps around new year) still passes.
func (v *Validator) checkDate(path string, d models.DateValue, add addIssue) {
	if d.Day != "" {
		if !allDigits(d.Day) {
			add(path+".day", d.Day, "Day must be numeric")
		} else if n, _ := strconv.Atoi(d.Day); n < 1 || n > 31 {
			add(path+".day", d.Day, fmt.Sprintf("Day must be 1-31, got %s", d.Day))
		}
	}
	if d.Month != "" {
		if !allDigits(d.Month) {
			add(path+".month", d.Month, "Month must be numeric")
		} else if n, _ := strconv.Atoi(d.Month); n < 1 || n > 12 {
			add(path+".month", d.Month, fmt.Sprintf("Month must be 1-12, got %s", d.Month))
		}
	}
	if d.Year != "" {
		maxYear := v.currentYear + 1
		if !allDigits(d.Year) {
			add(path+".year", d.Year, "Year must be numeric")
		} else if n, _ := strconv.Atoi(d.Year); n < 1900 || n > maxYear {
			add(path+".year", d.Year, fmt.Sprintf("Year should be 1900-%d, got %s", maxYear, d.Year))
		}
	}
}

// checkPostalCode verifies the Israeli postal code: digits only, 5 to 7 of
// them (the 2013 reform moved 5-digit codes to 7 digits; both circulate).
func checkPostalCode(value string, add addIssue) {
	if value == "" {
		return
	}
	digits := stripSeparators(value, " -")
	if !allDigits(digits) {
		add("address.postalCode", value, "Postal code must be numeric")
		return
	}
	if len(digits) < 5 || len(digits) > 7 {
		add("address.postalCode", value, fmt.Sprintf("Postal code should be 5-7 digits, got %d", len(digits)))
	}
}

// stripSeparators removes the given separator characters, leaving the
// rest of the value untouched.
func stripSeparators(s, cutset string) string {
	var b strings.Builder
	for _, r := range s {
		if !strings.ContainsRune(cutset, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// allDigits reports whether s is non-empty and consists solely of ASCII
// digits. A value that is nothing but separators strips down to "" and
// counts as non-numeric.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
