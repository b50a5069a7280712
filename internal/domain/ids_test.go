package domain

import "testing"

func TestFormatID(t *testing.T) {
	cases := []struct {
		prefix IDPrefix
		seq    int64
		want   string
	}{
		{PrefixStudent, 1, "ST_001"},
		{PrefixCourse, 42, "CO_042"},
		{PrefixSubmission, 999, "SU_999"},
		{PrefixStudent, 1000, "ST_1000"},
	}
	for _, tc := range cases {
		if got := FormatID(tc.prefix, tc.seq); got != tc.want {
			t.Fatalf("FormatID(%s, %d) = %q, want %q", tc.prefix, tc.seq, got, tc.want)
		}
	}
}

func TestParseID(t *testing.T) {
	p, n, ok := ParseID("EN_017")
	if !ok || p != PrefixEnrollment || n != 17 {
		t.Fatalf("ParseID(EN_017) = %q %d %v", p, n, ok)
	}
	for _, bad := range []string{"", "EN", "EN_", "_12", "EN_x1"} {
		if _, _, ok := ParseID(bad); ok {
			t.Fatalf("ParseID(%q) should fail", bad)
		}
	}
}

func TestMaxSequence(t *testing.T) {
	ids := []string{"ST_001", "IN_009", "ST_1002", "ST_bad", "ST_010"}
	if got := MaxSequence(PrefixStudent, ids); got != 1002 {
		t.Fatalf("MaxSequence(ST) = %d, want 1002", got)
	}
	if got := MaxSequence(PrefixInstructor, ids); got != 9 {
		t.Fatalf("MaxSequence(IN) = %d, want 9", got)
	}
	if got := MaxSequence(PrefixCourse, ids); got != 0 {
		t.Fatalf("MaxSequence(CO) = %d, want 0", got)
	}
}

func TestPrefixForRole(t *testing.T) {
	if PrefixForRole(RoleInstructor) != PrefixInstructor {
		t.Fatalf("instructor prefix")
	}
	if PrefixForRole(RoleStudent) != PrefixStudent {
		t.Fatalf("student prefix")
	}
}
