package model

import (
	"os"
	"path/filepath"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestDefaultPrinterConfig(t *testing.T) {
	cfg := DefaultPrinterConfig()
	if cfg.Type != PrinterTypeLocal {
		t.Errorf("default type = %q, want %q", cfg.Type, PrinterTypeLocal)
	}
	if cfg.NetworkPort != 9100 {
		t.Errorf("default port = %d, want 9100", cfg.NetworkPort)
	}
	if cfg.PaperWidth != 80 {
		t.Errorf("default paper width = %d, want 80", cfg.PaperWidth)
	}
	if cfg.PrinterName != "" {
		t.Errorf("default printer name = %q, want empty", cfg.PrinterName)
	}
}

func TestConfigStoreApply(t *testing.T) {
	tests := []struct {
		name    string
		updates []ConfigUpdate
		want    PrinterConfig
	}{
		{
			name:    "switchToNetwork",
			updates: []ConfigUpdate{{Type: strPtr(PrinterTypeNetwork), NetworkIP: strPtr("10.0.0.5")}},
			want:    PrinterConfig{Type: PrinterTypeNetwork, NetworkIP: "10.0.0.5", NetworkPort: 9100, PaperWidth: 80},
		},
		{
			name: "partialUpdateKeepsEarlierFields",
			updates: []ConfigUpdate{
				{Type: strPtr(PrinterTypeNetwork), NetworkIP: strPtr("10.0.0.5")},
				{PaperWidth: intPtr(58)},
			},
			want: PrinterConfig{Type: PrinterTypeNetwork, NetworkIP: "10.0.0.5", NetworkPort: 9100, PaperWidth: 58},
		},
		{
			name:    "invalidPaperWidthFallsBack",
			updates: []ConfigUpdate{{PaperWidth: intPtr(72)}},
			want:    PrinterConfig{Type: PrinterTypeLocal, NetworkPort: 9100, PaperWidth: 80},
		},
		{
			name:    "zeroPortBackfilled",
			updates: []ConfigUpdate{{NetworkPort: intPtr(0)}},
			want:    PrinterConfig{Type: PrinterTypeLocal, NetworkPort: 9100, PaperWidth: 80},
		},
		{
			name:    "localPrinterName",
			updates: []ConfigUpdate{{PrinterName: strPtr("POS58")}},
			want:    PrinterConfig{Type: PrinterTypeLocal, PrinterName: "POS58", NetworkPort: 9100, PaperWidth: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore("")
			var got PrinterConfig
			for _, u := range tt.updates {
				got = store.Apply(u)
			}
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
			if store.Get() != tt.want {
				t.Errorf("Get() = %+v, want %+v", store.Get(), tt.want)
			}
		})
	}
}

func TestConfigStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge", "printer.json")

	store := NewConfigStore(path)
	want := store.Apply(ConfigUpdate{
		Type:      strPtr(PrinterTypeNetwork),
		NetworkIP: strPtr("192.168.1.20"),
	})

	reloaded := NewConfigStore(path)
	if got := reloaded.Get(); got != want {
		t.Errorf("reloaded config = %+v, want %+v", got, want)
	}
}

func TestConfigStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "printer.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewConfigStore(path)
	if got := store.Get(); got != DefaultPrinterConfig() {
		t.Errorf("corrupt file should fall back to defaults, got %+v", got)
	}
}

func TestColumnsMapping(t *testing.T) {
	if got := (PrinterConfig{PaperWidth: 58}).Columns(); got != 32 {
		t.Errorf("58mm columns = %d, want 32", got)
	}
	if got := (PrinterConfig{PaperWidth: 80}).Columns(); got != 48 {
		t.Errorf("80mm columns = %d, want 48", got)
	}
}

func TestReceiptValidate(t *testing.T) {
	tests := []struct {
		name    string
		receipt Receipt
		wantErr bool
	}{
		{"empty", Receipt{}, false},
		{"validItems", Receipt{Items: []LineItem{{Name: "Coffee", Quantity: 1, Total: 2}}}, false},
		{"zeroQuantity", Receipt{Items: []LineItem{{Name: "Coffee", Quantity: 0}}}, true},
		{"negativeSubtotal", Receipt{Subtotal: -1}, true},
		{"negativePayment", Receipt{Payments: []Payment{{Type: "cash", Amount: -5}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.receipt.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReceiptShouldCut(t *testing.T) {
	yes, no := true, false
	if !(&Receipt{}).ShouldCut() {
		t.Error("absent cutPaper should cut")
	}
	if !(&Receipt{CutPaper: &yes}).ShouldCut() {
		t.Error("cutPaper=true should cut")
	}
	if (&Receipt{CutPaper: &no}).ShouldCut() {
		t.Error("cutPaper=false should not cut")
	}
}
