package settings

import (
	"testing"
)

func TestNewCliParams(t *testing.T) {
	tests := []struct {
		name string
		want *Run
	}{
		{
			name: "default CLI params",
			want: &Run{
				MinLogLevel: 0,
				Output:      OutputTree,
				IsQuiet:     false,
				NoColor:     false,
				ExitOnError: true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCliParams()
			if *got != *tt.want {
				t.Errorf("NewCliParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsValidOutput(t *testing.T) {
	for _, f := range OutputFormats {
		if !IsValidOutput(f) {
			t.Errorf("IsValidOutput(%q) = false", f)
		}
	}
	if IsValidOutput("csv") {
		t.Error("IsValidOutput(csv) = true, want false")
	}
}
