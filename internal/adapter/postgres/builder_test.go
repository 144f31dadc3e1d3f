package postgres

import "testing"

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"kuõll", "kuõll"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
	}
	for _, tt := range tests {
		if got := EscapeLike(tt.in); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuilder_UsesDollarPlaceholders(t *testing.T) {
	t.Parallel()

	sql, args, err := Builder().Select("id").From("lexemes").Where("language = ?", "sms").ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if sql != "SELECT id FROM lexemes WHERE language = $1" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 || args[0] != "sms" {
		t.Errorf("args = %v", args)
	}
}
