package render

import "testing"

func TestTidy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only blank lines", "\n\n \n", ""},
		{"leading blank lines", "\n\n# T\n", "# T\n"},
		{"adds trailing newline", "text", "text\n"},
		{"collapses blank runs", "a\n\n\n\nb\n\n\n", "a\n\nb\n"},
		{"normalizes CRLF", "a\r\n\r\n\r\nb\r", "a\n\nb\n"},
		{"fenced code keeps blank lines", "```py\ndef f():\n\n\n    pass\n```\n\n\ntext", "```py\ndef f():\n\n\n    pass\n```\n\ntext\n"},
		{"hard line break kept", "line one  \nline two", "line one  \nline two\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Tidy(tt.input); got != tt.want {
				t.Errorf("Tidy(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
