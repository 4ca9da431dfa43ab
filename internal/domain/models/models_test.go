package models

import "testing"

func TestParseGranularity(t *testing.T) {
	cases := []struct {
		in   string
		want Granularity
		ok   bool
	}{
		{"daily", Daily, true},
		{" Weekly ", Weekly, true},
		{"INTRADAY", Intraday, true},
		{"", "", false},
		{"monthly", "", false},
	}
	for _, c := range cases {
		got, ok := ParseGranularity(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseGranularity(%q)=(%q,%v), want (%q,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
