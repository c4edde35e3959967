package filtering

import "testing"

func TestAllows_IncludeOnly(t *testing.T) {
	r := Rule{Include: []string{"read_*"}}
	if !Allows(r, "read_file") {
		t.Error("expected read_file to be allowed by read_* include")
	}
	if Allows(r, "write_file") {
		t.Error("expected write_file to be excluded when include doesn't match")
	}
}

func TestAllows_ExcludeWins(t *testing.T) {
	r := Rule{Include: []string{"*"}, Exclude: []string{"dangerous_tool"}}
	if Allows(r, "dangerous_tool") {
		t.Error("expected exclude to override a matching include")
	}
	if !Allows(r, "safe_tool") {
		t.Error("expected safe_tool to pass")
	}
}

func TestExpose_Rename(t *testing.T) {
	r := Rule{Rename: map[string]string{"search": "fs_search"}}
	if got := Expose(r, "search"); got != "fs_search" {
		t.Errorf("expected renamed exposure, got %q", got)
	}
	if got := Expose(r, "other"); got != "other" {
		t.Errorf("expected unrenamed name unchanged, got %q", got)
	}
}
