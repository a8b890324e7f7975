// internal/pkg/slugify/slugify_test.go
package slugify

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Smoke Detectors", "smoke-detectors"},
		{"punctuation collapsed", "Fire & Safety, Ltd.", "fire-safety-ltd"},
		{"leading trailing trimmed", "  --Access Control--  ", "access-control"},
		{"digits kept", "Camera 4K (new)", "camera-4k-new"},
		{"cyrillic", "Датчики дыма", "datchiki-dyma"},
		{"cyrillic adjective", "Адресные", "adresnye"},
		{"mixed scripts", "IP-камеры Hikvision", "ip-kamery-hikvision"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.in); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
