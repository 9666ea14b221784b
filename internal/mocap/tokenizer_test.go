package mocap

import (
	"slices"
	"testing"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"empty line", "", nil},
		{"line terminator only", "\r\n", nil},
		{"whitespace only", "  \t", nil},
		{"plain fields", "a,b,c", []string{"a", "b", "c"}},
		{"trailing terminator stripped", "0,0.008333\r", []string{"0", "0.008333"}},
		{"quotes stripped", `,,"1","1.1"`, []string{"", "", "1", "1.1"}},
		{"empty fields preserved", "0,,3", []string{"0", "", "3"}},
		{"single field", "Format Version", []string{"Format Version"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitFields(tc.line)
			if !slices.Equal(got, tc.want) {
				t.Errorf("splitFields(%q) = %q, want %q", tc.line, got, tc.want)
			}
		})
	}
}

func TestAt(t *testing.T) {
	fields := []string{"a", "b"}

	if got := at(fields, 1); got != "b" {
		t.Errorf("at(fields, 1) = %q, want %q", got, "b")
	}
	if got := at(fields, 5); got != "" {
		t.Errorf("at(fields, 5) = %q, want empty string", got)
	}
	if got := at(fields, -1); got != "" {
		t.Errorf("at(fields, -1) = %q, want empty string", got)
	}
}
