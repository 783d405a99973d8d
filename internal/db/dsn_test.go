package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://u:p@h:5432/mentorat?sslmode=disable", "postgres://u:p@h:5432/mentorat?sslmode=disable"},
		{"  'host=localhost user=u dbname=mentorat'  ", "host=localhost user=u dbname=mentorat sslmode=disable"},
		{"host=localhost  user=u   dbname=m sslmode=require", "host=localhost user=u dbname=m sslmode=require"},
		{"not a dsn at all", "not a dsn at all"},
	}
	for _, c := range cases {
		if got := NormalizeDSN(c.in); got != c.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskDSN(t *testing.T) {
	if got := MaskDSN("host=h user=u password=topsecret dbname=m"); got != "host=h user=u password=*** dbname=m" {
		t.Errorf("kv mask failed: %q", got)
	}
	if got := MaskDSN("postgres://user:topsecret@h:5432/m"); got != "postgres://user:***@h:5432/m" {
		t.Errorf("url mask failed: %q", got)
	}
}
