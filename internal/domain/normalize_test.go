package domain

import (
	"sort"
	"testing"
)

func TestCompareMemberNumbers_NumericThenLexical(t *testing.T) {
	t.Parallel()

	got := []string{"10", "B7", "2", "A1", "100", "9"}
	sort.SliceStable(got, func(i, j int) bool { return CompareMemberNumbers(got[i], got[j]) < 0 })

	want := []string{"2", "9", "10", "100", "A1", "B7"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order=%v, want %v", got, want)
		}
	}
}

func TestTrimToNil(t *testing.T) {
	t.Parallel()

	if TrimToNil("   ") != nil {
		t.Fatalf("TrimToNil(blank) != nil")
	}
	if v := TrimToNil("  a@b.c "); v == nil || *v != "a@b.c" {
		t.Fatalf("TrimToNil()=%v, want a@b.c", v)
	}
}

func TestNormalizeNameList_DropsEmpty(t *testing.T) {
	t.Parallel()

	got := NormalizeNameList([]string{" Ann ", "", "  ", "Bob   Jones"})
	if len(got) != 2 || got[0] != "Ann" || got[1] != "Bob Jones" {
		t.Fatalf("NormalizeNameList()=%q", got)
	}
}

func TestMember_EmailsSkipAbsent(t *testing.T) {
	t.Parallel()

	e := "x@example.com"
	m := Member{Email2: &e}
	if got := m.Emails(); len(got) != 1 || got[0] != e {
		t.Fatalf("Emails()=%v", got)
	}
}

func TestNormalizeText_FoldsLineBreaks(t *testing.T) {
	t.Parallel()

	in := "  line1\r\nline2\rline3\n "
	got := NormalizeText(&in)
	if got == nil || *got != "line1\nline2\nline3" {
		t.Fatalf("NormalizeText()=%q, want %q", deref(got), "line1\nline2\nline3")
	}
	blank := "\r\n"
	if NormalizeText(&blank) != nil {
		t.Fatalf("NormalizeText(line break only) != nil")
	}
	if NormalizeText(nil) != nil {
		t.Fatalf("NormalizeText(nil) != nil")
	}
}

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
