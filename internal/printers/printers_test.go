package printers

import (
	"testing"

	"github.com/lunapos/print-bridge/internal/model"
)

func TestParseLpstat(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			name: "twoPrinters",
			out:  "POS58 accepting requests since Mon Jan  6 10:00:00 2026\nKitchen accepting requests since Mon Jan  6 10:00:00 2026\n",
			want: []string{"POS58", "Kitchen"},
		},
		{
			name: "emptyOutput",
			out:  "",
			want: nil,
		},
		{
			name: "blankLinesSkipped",
			out:  "\nPOS58 accepting requests\n\n",
			want: []string{"POS58"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLpstat(tt.out)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseLpstat() = %v, want names %v", got, tt.want)
			}
			for i, p := range got {
				if p.Name != tt.want[i] {
					t.Errorf("printer %d name = %q, want %q", i, p.Name, tt.want[i])
				}
				if p.Type != model.PrinterTypeLocal {
					t.Errorf("printer %d type = %q, want local", i, p.Type)
				}
			}
		})
	}
}
