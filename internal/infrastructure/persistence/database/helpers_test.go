package database

import "testing"

func TestConnString(t *testing.T) {
	// WHAT: the auth token only attaches to remote libsql DSNs; local
	// sqlite paths must never grow query parameters.
	cases := []struct {
		driver, path, token, want string
	}{
		{"sqlite3", "stackforge.db", "", "stackforge.db"},
		{"sqlite3", "stackforge.db", "tok", "stackforge.db"},
		{"libsql", "libsql://db.example.io", "", "libsql://db.example.io"},
		{"libsql", "libsql://db.example.io", "tok", "libsql://db.example.io?authToken=tok"},
	}
	for _, c := range cases {
		got := ConnString(c.driver, c.path, c.token)
		if got != c.want {
			t.Errorf("ConnString(%q, %q, %q) = %q, want %q", c.driver, c.path, c.token, got, c.want)
		}
	}
}
