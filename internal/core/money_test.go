package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"1234567", 1234567},
		{"1.234.567", 1234567},
		{"Rp 2.500", 2500},
		{"  10,000 ", 10000},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-500", 500}, // sign stripped, never negative
		{"99999999999999999999999", 0}, // overflow treated as malformed
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.out {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{100000000, "100.000.000"},
		{-4500, "-4.500"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.out {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	if got := FormatRupiah(1234567); got != "Rp 1.234.567" {
		t.Fatalf("FormatRupiah(1234567) = %q", got)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	values := []int64{0, 1, 42, 999, 1000, 12345, 999999, 1000000, 1234567890}
	for _, v := range values {
		if got := ParseAmount(FormatAmount(v)); got != v {
			t.Fatalf("round trip %d -> %q -> %d", v, FormatAmount(v), got)
		}
	}
}
