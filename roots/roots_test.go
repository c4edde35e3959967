package roots

import "testing"

func TestAllowed_NoRootsMeansUnrestricted(t *testing.T) {
	m := New(nil)
	if !m.Allowed("file:///etc/passwd") {
		t.Error("expected no configured roots to allow everything")
	}
}

func TestAllowed_Prefix(t *testing.T) {
	m := New([]string{"/srv/data"})
	if !m.Allowed("/srv/data/report.csv") {
		t.Error("expected a path under the root to be allowed")
	}
	if m.Allowed("/srv/other/report.csv") {
		t.Error("expected a path outside the root to be denied")
	}
	if !m.Allowed("/srv/data") {
		t.Error("expected the root itself to be allowed")
	}
}
