package types

import "testing"

func TestParseIdentifier(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw      string
		scheme   string
		specific string
	}{
		{"/tmp/app.war", "", "/tmp/app.war"},
		{"app.war", "", "app.war"},
		{"./target/app.war", "", "./target/app.war"},
		{`C:\deployments\app.war`, "", `C:\deployments\app.war`},
		{"file:///tmp/app.war", "file", "///tmp/app.war"},
		{"urn:mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war", "urn", "mvn:org.jolokia:jolokia-war-unsecured:1.7.1:war"},
		{"URN:mvn:g:a:v:t", "urn", "mvn:g:a:v:t"},
		{"https://example.test/app.war", "https", "//example.test/app.war"},
		{"ftp://example.test/app.war", "ftp", "//example.test/app.war"},
		{"svn+ssh://host/app.war", "svn+ssh", "//host/app.war"},
		{"1http://host/app.war", "", "1http://host/app.war"},
		{"dir with:colon/app.war", "", "dir with:colon/app.war"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			id := ParseIdentifier(tt.raw)
			if id.Scheme != tt.scheme {
				t.Errorf("Scheme = %q, want %q", id.Scheme, tt.scheme)
			}
			if id.Specific != tt.specific {
				t.Errorf("Specific = %q, want %q", id.Specific, tt.specific)
			}
			if id.String() != tt.raw {
				t.Errorf("String() = %q, want %q", id.String(), tt.raw)
			}
		})
	}
}

func TestLastSegment(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"//example.test/app.war", "app.war"},
		{"//example.test/", "example.test"},
		{"app.war", "app.war"},
		{"/a/b/c/", "c"},
	}

	for _, tt := range tests {
		if got := lastSegment(tt.input); got != tt.expected {
			t.Errorf("lastSegment(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
