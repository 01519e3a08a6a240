package documents

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var prescriptionKeywords = []string{
	"처방전", "Rx", "의사", "병원", "진료과", "처방일", "교부번호",
}

var bagKeywords = []string{
	"약품명", "복약안내", "복용법", "정씩", "약품사진", "주의사항",
	"식후", "식전", "아침", "점심", "저녁", "취침전", "일분", "회분",
}

// NormalizeText deja el texto OCR en NFC. Algunos motores devuelven jamo
// descompuesto y entonces "처방전" no matchea byte a byte.
func NormalizeText(text string) string {
	return norm.NFC.String(text)
}

// Classify decide el tipo de documento por presencia de keywords.
// Empate con score > 0 => prescription.
func Classify(text string) DocumentType {
	text = NormalizeText(text)

	rx := countPresent(text, prescriptionKeywords)
	bag := countPresent(text, bagKeywords)

	switch {
	case rx > 0 && rx >= bag:
		return TypePrescription
	case bag > 0:
		return TypeMedicineBag
	default:
		return TypeUnknown
	}
}

func countPresent(text string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}
