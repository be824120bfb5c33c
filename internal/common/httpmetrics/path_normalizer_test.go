package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", "/"},
		{"root", "/", "/"},
		{"static", "/api/blogs", "/api/blogs"},
		{"uuid", "/api/blogs/6b837f3e-3c3b-4f8f-9b6e-2f4d6a1c0c01", "/api/blogs/{id}"},
		{"numeric", "/api/blogs/42", "/api/blogs/{param}"},
		{"mixed", "/api/users/7/blogs/6b837f3e-3c3b-4f8f-9b6e-2f4d6a1c0c01", "/api/users/{param}/blogs/{id}"},
		{"stats", "/api/blogs/stats", "/api/blogs/stats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
