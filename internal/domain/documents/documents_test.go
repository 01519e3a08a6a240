package documents

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestClassify_TotalAndDeterministic(t *testing.T) {
	inputs := []string{"", "   ", "hello", "처방전", "약품명 타이레놀", "\x00\xff", "처방전 식후 아침"}
	for _, in := range inputs {
		got := Classify(in)
		switch got {
		case TypePrescription, TypeMedicineBag, TypeUnknown:
		default:
			t.Fatalf("Classify(%q) returned unexpected %q", in, got)
		}
		if again := Classify(in); again != got {
			t.Fatalf("Classify(%q) not deterministic: %q vs %q", in, got, again)
		}
	}
}

func TestClassify_PrescriptionKeywordOnly(t *testing.T) {
	if got := Classify("서울병원 진료과 내과"); got != TypePrescription {
		t.Fatalf("expected prescription, got %s", got)
	}
}

func TestClassify_TieFavoursPrescription(t *testing.T) {
	// 1 keyword de cada lado
	if got := Classify("처방전\n식후"); got != TypePrescription {
		t.Fatalf("expected prescription on tie, got %s", got)
	}
}

func TestClassify_BagWins(t *testing.T) {
	if got := Classify("약품명 타이레놀\n복용법 식후 30분\n아침 저녁"); got != TypeMedicineBag {
		t.Fatalf("expected medicine_bag, got %s", got)
	}
	if got := Classify("no keywords here"); got != TypeUnknown {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func TestClassify_DecomposedHangul(t *testing.T) {
	decomposed := norm.NFD.String("처방전")
	if decomposed == "처방전" {
		t.Fatalf("test setup: expected NFD form to differ")
	}
	if got := Classify(decomposed); got != TypePrescription {
		t.Fatalf("expected prescription for NFD input, got %s", got)
	}
}

func TestParsePrescription_HeaderAndLines(t *testing.T) {
	text := "울산 대학교병원 처방전\n" +
		"교부일 2025년 3월 7일\n" +
		"의사 김철수\n" +
		"타이레놀정 500mg 1정 아침 식후\n" +
		"아스피린정 BID\n" +
		"진료비 영수증\n" +
		"비타민 1정\n"

	p := ParsePrescription(text)

	if p.Hospital == nil || *p.Hospital != "울산 대학교병원" {
		t.Fatalf("unexpected hospital: %v", p.Hospital)
	}
	if p.Date == nil || *p.Date != "2025년 3월 7일" {
		t.Fatalf("unexpected date: %v", p.Date)
	}
	if p.IssuedOn == nil || p.IssuedOn.Day() != 7 || p.IssuedOn.Month() != 3 {
		t.Fatalf("unexpected issued on: %v", p.IssuedOn)
	}
	if p.Doctor == nil || *p.Doctor != "김철수" {
		t.Fatalf("unexpected doctor: %v", p.Doctor)
	}

	if len(p.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %#v", len(p.Entries), p.Entries)
	}
	if p.Entries[0].Name != "타이레놀 정" || p.Entries[0].Timing != "식후 30분" || p.Entries[0].Dose != "1정" {
		t.Fatalf("unexpected first entry: %#v", p.Entries[0])
	}
	if p.Entries[1].Name != "아스피린 정" || p.Entries[1].Timing != "" {
		t.Fatalf("unexpected second entry: %#v", p.Entries[1])
	}
}

func TestParsePrescription_UnknownHospital(t *testing.T) {
	p := ParsePrescription("서울병원 처방전")
	if p.Hospital != nil {
		t.Fatalf("expected no hospital, got %s", *p.Hospital)
	}

	custom := NewPrescriptionParser("서울병원").Parse("서울병원 처방전")
	if custom.Hospital == nil || *custom.Hospital != "서울병원" {
		t.Fatalf("expected custom institution match, got %v", custom.Hospital)
	}
}

func TestParseLabel_FullLine(t *testing.T) {
	l := ParseLabel("타이레놀정 500mg 1정씩 3회 3일분")
	if len(l.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %#v", l.Entries)
	}
	e := l.Entries[0]
	if e.Name != "타이레놀정" {
		t.Fatalf("unexpected name %q", e.Name)
	}
	if e.Dose != "1정" {
		t.Fatalf("unexpected dose %q", e.Dose)
	}
	if e.Timing != "하루 3회" {
		t.Fatalf("unexpected timing %q", e.Timing)
	}
	if e.Days != 3 {
		t.Fatalf("unexpected days %d", e.Days)
	}
	if e.MealRelation != "" {
		t.Fatalf("expected empty meal relation, got %q", e.MealRelation)
	}
}

func TestParseLabel_MarkerAndDefaults(t *testing.T) {
	l := ParseLabel("약품명: 게보린 외 1건\n")
	if len(l.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %#v", l.Entries)
	}
	e := l.Entries[0]
	if e.Name != "게보린" || e.Dose != "1정" || e.Timing != "식후 30분" || e.MealRelation != "식후" {
		t.Fatalf("unexpected marker entry %#v", e)
	}
}

func TestParseLabel_SlotsMealAndDays(t *testing.T) {
	l := ParseLabel("아목시실린캡슐 2캡슐씩 2회 아침 저녁 식전 5일분")
	if len(l.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %#v", l.Entries)
	}
	e := l.Entries[0]
	if e.Name != "아목시실린캡슐" || e.Dose != "2정" {
		t.Fatalf("unexpected entry %#v", e)
	}
	if e.Timing != "하루 2회 아침 저녁" {
		t.Fatalf("unexpected timing %q", e.Timing)
	}
	if e.MealRelation != "식전" || e.Days != 5 {
		t.Fatalf("unexpected meal/days %#v", e)
	}
}

func TestParseLabel_DedupeAndShortNames(t *testing.T) {
	text := "타이레놀정 1정씩\n타이레놀정 2정씩\n1정씩 3회\n정\n"
	l := ParseLabel(text)
	if len(l.Entries) != 1 {
		t.Fatalf("expected 1 entry after dedupe, got %#v", l.Entries)
	}
	if l.Entries[0].Dose != "1정" {
		t.Fatalf("expected first occurrence to win, got %#v", l.Entries[0])
	}
}
