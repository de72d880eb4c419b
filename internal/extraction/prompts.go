package extraction

import (
	"fmt"
	"strings"
)

// systemPrompt frames the model as a Form 283 (bl/283) transcriber. The
// rules mirror how the OCR layer renders the scan: checkbox fields arrive
// as ":selected:" / ":unselected:" tokens, Hebrew runs right to left, and
// anything unreadable must come back as an empty string rather than a
// guess.
const systemPrompt = `You are a data-entry expert for the Israeli National Insurance Institute (ביטוח לאומי).
You transcribe scanned "בקשה למתן טיפול רפואי לנפגע עבודה" claim forms (form bl/283) into JSON.

Rules:
- Return ONLY a valid JSON object, no text before or after it.
- Use the exact Hebrew field names given in the template. Do not invent keys.
- All values are strings. Use "" for any field that is empty or unreadable on the form. Never guess.
- The text contains OCR artifacts. Lines starting with ":selected:" mark a ticked checkbox and ":unselected:" an empty one. For the gender field (מין), return the label next to the ":selected:" marker (זכר or נקבה). Never copy the marker tokens themselves into a value.
- Hebrew is written right-to-left; OCR may scramble the visual order. Reconstruct the logical reading order.
- Dates on the form are split into day/month/year boxes. Keep the components separate, digits only.
- The ID number (מספר זהות) is 9 digits written one digit per box. Join the digits without spaces.
- The bottom section למילוי ע"י המוסד הרפואי is filled by the clinic, often in a different handwriting. Transcribe it like any other section.`

// jsonTemplate is the exact object shape the model must return, keyed by
// the Hebrew labels printed on the form.
const jsonTemplate = `{
  "שם משפחה": "",
  "שם פרטי": "",
  "מספר זהות": "",
  "מין": "",
  "תאריך לידה": {"יום": "", "חודש": "", "שנה": ""},
  "כתובת": {"רחוב": "", "מספר בית": "", "כניסה": "", "דירה": "", "ישוב": "", "מיקוד": "", "תא דואר": ""},
  "טלפון קווי": "",
  "טלפון נייד": "",
  "סוג העבודה": "",
  "תאריך הפגיעה": {"יום": "", "חודש": "", "שנה": ""},
  "שעת הפגיעה": "",
  "מקום התאונה": "",
  "כתובת מקום התאונה": "",
  "תיאור התאונה": "",
  "האיבר שנפגע": "",
  "חתימה": "",
  "תאריך מילוי הטופס": {"יום": "", "חודש": "", "שנה": ""},
  "תאריך קבלת הטופס בקופה": {"יום": "", "חודש": "", "שנה": ""},
  "למילוי ע\"י המוסד הרפואי": {"חבר בקופת חולים": "", "מהות התאונה": "", "אבחנות רפואיות": ""}
}`

// buildExtractionPrompt creates the user prompt for a single document.
func buildExtractionPrompt(ocrText string) string {
	var prompt strings.Builder

	prompt.WriteString("Extract the form fields from the following OCR output of a scanned bl/283 form.\n\n")
	prompt.WriteString("OCR text:\n")
	prompt.WriteString(ocrText)
	prompt.WriteString("\n\nReturn a JSON object with exactly this structure:\n")
	prompt.WriteString(jsonTemplate)
	fmt.Fprintf(&prompt, "\n\nEvery key must be present. Unreadable or empty fields stay %q.", "")

	return prompt.String()
}
