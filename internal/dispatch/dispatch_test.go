package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lunapos/print-bridge/internal/escpos"
	"github.com/lunapos/print-bridge/internal/model"
)

// printerListener fakes a raw TCP printer: it accepts one connection and
// reports everything written to it.
func printerListener(t *testing.T) (model.PrinterConfig, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return model.PrinterConfig{
		Type:        model.PrinterTypeNetwork,
		NetworkIP:   addr.IP.String(),
		NetworkPort: addr.Port,
		PaperWidth:  80,
	}, received
}

func TestDispatchNotConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.PrinterConfig
	}{
		{"networkWithoutIP", model.PrinterConfig{Type: model.PrinterTypeNetwork, NetworkPort: 9100}},
		{"localWithoutName", model.PrinterConfig{Type: model.PrinterTypeLocal}},
		{"unknownType", model.PrinterConfig{Type: "cloud"}},
		{"emptyConfig", model.PrinterConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Dispatch(context.Background(), []byte("x"), tt.cfg)
			if !errors.Is(err, ErrNotConfigured) {
				t.Errorf("Dispatch() error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestNetworkSinkDeliversPayload(t *testing.T) {
	cfg, received := printerListener(t)

	payload := []byte{0x1B, 0x40, 'h', 'e', 'l', 'l', 'o', '\n'}
	if err := Dispatch(context.Background(), payload, cfg); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, payload) {
			t.Errorf("printer received %v, want %v", got, payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("printer never received the payload")
	}
}

func TestDrawerOnlyPayload(t *testing.T) {
	cfg, received := printerListener(t)

	if err := Dispatch(context.Background(), escpos.DrawerKick, cfg); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	select {
	case got := <-received:
		if len(got) != 4 {
			t.Errorf("drawer payload is %d bytes, want exactly 4", len(got))
		}
		if !bytes.Equal(got, escpos.DrawerKick) {
			t.Errorf("printer received %v, want kick sequence %v", got, escpos.DrawerKick)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("printer never received the kick")
	}
}

func TestNetworkSinkConnectionRefused(t *testing.T) {
	// Grab a free port and close the listener so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	cfg := model.PrinterConfig{
		Type:        model.PrinterTypeNetwork,
		NetworkIP:   addr.IP.String(),
		NetworkPort: addr.Port,
	}

	err = Dispatch(context.Background(), []byte("x"), cfg)
	var netErr *NetworkDeliveryError
	if !errors.As(err, &netErr) {
		t.Fatalf("Dispatch() error = %v, want *NetworkDeliveryError", err)
	}
	if netErr.Addr == "" || netErr.Unwrap() == nil {
		t.Errorf("NetworkDeliveryError missing context: %+v", netErr)
	}
}

func TestSpoolCommandsShape(t *testing.T) {
	primary, fallback := spoolCommands("POS58", "/tmp/job.bin")
	if len(primary) == 0 || len(fallback) == 0 {
		t.Fatal("spool commands must not be empty")
	}
	for _, argv := range [][]string{primary, fallback} {
		found := false
		for _, arg := range argv {
			if arg == "/tmp/job.bin" || arg == `\\localhost\POS58` {
				found = true
			}
		}
		if !found {
			t.Errorf("command %v does not reference the job file", argv)
		}
	}
}

func TestLocalSpoolFailureIsTyped(t *testing.T) {
	// No printer named like this exists; both commands must fail and the
	// temp file must be gone afterwards.
	before := spoolTempFiles(t)

	err := Dispatch(context.Background(), []byte("x"), model.PrinterConfig{
		Type:        model.PrinterTypeLocal,
		PrinterName: "definitely-not-a-real-printer-9638",
	})
	var spoolErr *LocalSpoolError
	if !errors.As(err, &spoolErr) {
		t.Fatalf("Dispatch() error = %v, want *LocalSpoolError", err)
	}
	if spoolErr.Printer != "definitely-not-a-real-printer-9638" {
		t.Errorf("error names printer %q", spoolErr.Printer)
	}

	if after := spoolTempFiles(t); len(after) > len(before) {
		t.Errorf("spool left temp files behind: %v", after)
	}
}

func spoolTempFiles(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(os.TempDir(), "printjob-*.bin"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return files
}
