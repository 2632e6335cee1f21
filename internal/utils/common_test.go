package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		sep   string
		want  []string
	}{
		{"simple split", "a,b,c", ",", []string{"a", "b", "c"}},
		{"trims whitespace", " a , b , c ", ",", []string{"a", "b", "c"}},
		{"omits empty parts", "a,,c", ",", []string{"a", "c"}},
		{"omits whitespace-only parts", "a, ,c", ",", []string{"a", "c"}},
		{"empty input", "", ",", []string{}},
		{"single value", "backend", ",", []string{"backend"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAndTrim(tt.input, tt.sep)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitAndTrim(%q, %q) = %v, want %v", tt.input, tt.sep, got, tt.want)
			}
		})
	}
}
