package fdisms

import "testing"

func TestParseEnvironment(t *testing.T) {
	cases := []struct {
		in      string
		want    Environment
		wantErr bool
	}{
		{"sandbox", Sandbox, false},
		{"", Sandbox, false},
		{"test", Sandbox, false},
		{"  Production ", Production, false},
		{"prod", Production, false},
		{"live", Production, false},
		{"staging", "", true},
	}
	for _, tc := range cases {
		got, err := ParseEnvironment(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseEnvironment(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEnvironment(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseEnvironment(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestEnvironmentBaseURL(t *testing.T) {
	if got := Sandbox.BaseURL(); got != sandboxBaseURL {
		t.Errorf("sandbox base url = %s", got)
	}
	if got := Production.BaseURL(); got != productionBaseURL {
		t.Errorf("production base url = %s", got)
	}
	if got := Environment("bogus").BaseURL(); got != sandboxBaseURL {
		t.Errorf("expected unknown environment to fall back to sandbox, got %s", got)
	}
}
