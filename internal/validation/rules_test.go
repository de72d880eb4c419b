package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form283/pkg/models"
)

// collect runs a rule and returns the issues it reported.
func collect(run func(add addIssue)) []models.QualityIssue {
	issues := []models.QualityIssue{}
	run(func(path, value, reason string) {
		issues = append(issues, models.QualityIssue{Field: path, Value: value, Reason: reason})
	})
	return issues
}

func TestCheckIDNumber(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantIssues int
		wantReason string
	}{
		{name: "valid 9 digits", value: "123456789", wantIssues: 0},
		{name: "valid with separators", value: "123 456-789", wantIssues: 0},
		{name: "empty skipped", value: "", wantIssues: 0},
		{name: "8 digits", value: "12345678", wantIssues: 1, wantReason: "ID number should be 9 digits, got 8"},
		{name: "10 digits", value: "1234567890", wantIssues: 1, wantReason: "ID number should be 9 digits, got 10"},
		{name: "non-numeric", value: "12345678X", wantIssues: 1, wantReason: "ID number contains non-numeric characters"},
		{name: "hebrew letters", value: "אבגדהוזחט", wantIssues: 1, wantReason: "ID number contains non-numeric characters"},
		{name: "only separators", value: " - ", wantIssues: 1, wantReason: "ID number contains non-numeric characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := collect(func(add addIssue) { checkIDNumber(tt.value, add) })
			require.Len(t, issues, tt.wantIssues)
			if tt.wantIssues > 0 {
				assert.Equal(t, "idNumber", issues[0].Field)
				assert.Equal(t, tt.value, issues[0].Value)
				assert.Equal(t, tt.wantReason, issues[0].Reason)
			}
		})
	}
}

func TestCheckIDNumberShortCircuits(t *testing.T) {
	// Non-numeric and wrong length at once: only the format issue fires.
	issues := collect(func(add addIssue) { checkIDNumber("12X", add) })
	require.Len(t, issues, 1)
	assert.Equal(t, "ID number contains non-numeric characters", issues[0].Reason)
}

func TestCheckLastName(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantIssues int
	}{
		{name: "plain hebrew name", value: "כהן", wantIssues: 0},
		{name: "empty skipped", value: "", wantIssues: 0},
		{name: "selected marker", value: ":selected:", wantIssues: 1},
		{name: "unselected marker", value: ":unselected:", wantIssues: 1},
		{name: "marker embedded in text", value: "כהן :selected:", wantIssues: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := collect(func(add addIssue) { checkLastName(tt.value, add) })
			require.Len(t, issues, tt.wantIssues)
			if tt.wantIssues > 0 {
				assert.Equal(t, "lastName", issues[0].Field)
				assert.Equal(t, "OCR failed to read last name: detected checkbox marker instead of actual name", issues[0].Reason)
			}
		})
	}
}

func TestCheckMobilePhone(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantIssues int
		wantReason string
	}{
		{name: "valid mobile", value: "0502474947", wantIssues: 0},
		{name: "valid with separators", value: "050-247 49 47", wantIssues: 0},
		{name: "valid with parentheses", value: "(050) 2474947", wantIssues: 0},
		{name: "empty skipped", value: "", wantIssues: 0},
		{name: "non-numeric", value: "050-CALL-ME", wantIssues: 1, wantReason: "Phone number contains non-numeric characters"},
		{name: "missing leading zero", value: "6502474947", wantIssues: 1, wantReason: "Israeli phone numbers should start with 0"},
		{name: "mobile prefix short", value: "050247494", wantIssues: 1, wantReason: "Mobile phone should be 10 digits, got 9"},
		{name: "mobile prefix long", value: "05024749471", wantIssues: 1, wantReason: "Mobile phone should be 10 digits, got 11"},
		// A non-05 number in the mobile slot gets no length judgment.
		{name: "non-mobile prefix passes", value: "039876543", wantIssues: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := collect(func(add addIssue) { checkMobilePhone(tt.value, add) })
			require.Len(t, issues, tt.wantIssues)
			if tt.wantIssues > 0 {
				assert.Equal(t, "mobilePhone", issues[0].Field)
				assert.Equal(t, tt.wantReason, issues[0].Reason)
			}
		})
	}
}

func TestCheckMobilePhoneShortCircuits(t *testing.T) {
	// "6" fails the leading-zero check; the length check must not also fire.
	issues := collect(func(add addIssue) { checkMobilePhone("6502474947", add) })
	require.Len(t, issues, 1)
	assert.Equal(t, "Israeli phone numbers should start with 0", issues[0].Reason)
}

func TestCheckLandlinePhone(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantIssues int
		wantReason string
	}{
		{name: "valid landline", value: "039876543", wantIssues: 0},
		{name: "valid with separators", value: "03-987-6543", wantIssues: 0},
		{name: "empty skipped", value: "", wantIssues: 0},
		{name: "non-numeric", value: "03abc6543", wantIssues: 1, wantReason: "Phone number contains non-numeric characters"},
		{name: "missing leading zero", value: "39876543", wantIssues: 1, wantReason: "Israeli phone numbers should start with 0"},
		{name: "landline short", value: "0398765", wantIssues: 1, wantReason: "Landline phone should be 9 digits, got 7"},
		{name: "landline long", value: "0398765432", wantIssues: 1, wantReason: "Landline phone should be 9 digits, got 10"},
		// A mobile number in the landline slot gets no length judgment.
		{name: "mobile prefix passes", value: "0502474947", wantIssues: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := collect(func(add addIssue) { checkLandlinePhone(tt.value, add) })
			require.Len(t, issues, tt.wantIssues)
			if tt.wantIssues > 0 {
				assert.Equal(t, "landlinePhone", issues[0].Field)
				assert.Equal(t, tt.wantReason, issues[0].Reason)
			}
		})
	}
}

func TestCheckDate(t *testing.T) {
	v := NewValidatorWithYear(2024)

	tests := []struct {
		name        string
		date        models.DateValue
		wantFields  []string
		wantReasons []string
	}{
		{
			name: "valid date",
			date: models.DateValue{Day: "15", Month: "06", Year: "1985"},
		},
		{
			name: "empty components skipped",
			date: models.DateValue{},
		},
		{
			name:        "day out of range",
			date:        models.DateValue{Day: "32", Month: "01", Year: "2023"},
			wantFields:  []string{"dateOfBirth.day"},
			wantReasons: []string{"Day must be 1-31, got 32"},
		},
		{
			name:        "day zero",
			date:        models.DateValue{Day: "0", Month: "01", Year: "2023"},
			wantFields:  []string{"dateOfBirth.day"},
			wantReasons: []string{"Day must be 1-31, got 0"},
		},
		{
			name:        "month out of range",
			date:        models.DateValue{Day: "01", Month: "13", Year: "2023"},
			wantFields:  []string{"dateOfBirth.month"},
			wantReasons: []string{"Month must be 1-12, got 13"},
		},
		{
			name:        "non-numeric day",
			date:        models.DateValue{Day: "ab", Month: "01", Year: "2023"},
			wantFields:  []string{"dateOfBirth.day"},
			wantReasons: []string{"Day must be numeric"},
		},
		{
			name:        "year too old",
			date:        models.DateValue{Day: "01", Month: "01", Year: "1899"},
			wantFields:  []string{"dateOfBirth.year"},
			wantReasons: []string{"Year should be 1900-2025, got 1899"},
		},
		{
			name: "year at next-year bound passes",
			date: models.DateValue{Day: "01", Month: "01", Year: "2025"},
		},
		{
			name:        "year beyond bound",
			date:        models.DateValue{Day: "01", Month: "01", Year: "2026"},
			wantFields:  []string{"dateOfBirth.year"},
			wantReasons: []string{"Year should be 1900-2025, got 2026"},
		},
		{
			name:        "non-numeric year",
			date:        models.DateValue{Day: "01", Month: "01", Year: "20x3"},
			wantFields:  []string{"dateOfBirth.year"},
			wantReasons: []string{"Year must be numeric"},
		},
		{
			// Components are checked independently, one issue each.
			name:        "all components bad",
			date:        models.DateValue{Day: "40", Month: "00", Year: "3000"},
			wantFields:  []string{"dateOfBirth.day", "dateOfBirth.month", "dateOfBirth.year"},
			wantReasons: []string{"Day must be 1-31, got 40", "Month must be 1-12, got 00", "Year should be 1900-2025, got 3000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := collect(func(add addIssue) { v.checkDate("dateOfBirth", tt.date, add) })
			require.Len(t, issues, len(tt.wantFields))
			for i := range tt.wantFields {
				assert.Equal(t, tt.wantFields[i], issues[i].Field)
				assert.Equal(t, tt.wantReasons[i], issues[i].Reason)
			}
		})
	}
}

func TestCheckPostalCode(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantIssues int
		wantReason string
	}{
		{name: "5 digits", value: "12345", wantIssues: 0},
		{name: "7 digits", value: "1234567", wantIssues: 0},
		{name: "7 digits with separator", value: "12345-67", wantIssues: 0},
		{name: "empty skipped", value: "", wantIssues: 0},
		{name: "too short", value: "123", wantIssues: 1, wantReason: "Postal code should be 5-7 digits, got 3"},
		{name: "too long", value: "12345678", wantIssues: 1, wantReason: "Postal code should be 5-7 digits, got 8"},
		{name: "non-numeric", value: "12a45", wantIssues: 1, wantReason: "Postal code must be numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := collect(func(add addIssue) { checkPostalCode(tt.value, add) })
			require.Len(t, issues, tt.wantIssues)
			if tt.wantIssues > 0 {
				assert.Equal(t, "address.postalCode", issues[0].Field)
				assert.Equal(t, tt.wantReason, issues[0].Reason)
			}
		})
	}
}

func TestStripSeparators(t *testing.T) {
	assert.Equal(t, "123456789", stripSeparators("123 456-789", " -"))
	assert.Equal(t, "0502474947", stripSeparators("(050) 247-4947", " -()"))
	assert.Equal(t, "", stripSeparators(" - ", " -"))
}

func TestAllDigits(t *testing.T) {
	assert.True(t, allDigits("0123456789"))
	assert.False(t, allDigits(""))
	assert.False(t, allDigits("12a"))
	// Non-ASCII digits do not count.
	assert.False(t, allDigits("١٢٣"))
}
