package dispatch

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// spoolTimeout bounds each spool sub-process so a wedged print queue cannot
// hang a request forever.
const spoolTimeout = 10 * time.Second

// sendToSpool writes the payload to a temp file and hands it to the OS
// print spool for the named printer. The temp file is removed regardless of
// outcome. If the primary raw-copy command fails, a secondary print command
// is attempted before reporting failure.
func sendToSpool(ctx context.Context, payload []byte, printerName string) error {
	tmp, err := os.CreateTemp("", "printjob-*.bin")
	if err != nil {
		return &LocalSpoolError{Printer: printerName, Err: err}
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return &LocalSpoolError{Printer: printerName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &LocalSpoolError{Printer: printerName, Err: err}
	}

	primary, fallback := spoolCommands(printerName, path)
	primaryErr := runSpool(ctx, primary)
	if primaryErr == nil {
		return nil
	}
	log.Printf("Primary spool command failed: %v. Trying fallback...", primaryErr)

	if fallbackErr := runSpool(ctx, fallback); fallbackErr != nil {
		return &LocalSpoolError{
			Printer: printerName,
			Err:     fmt.Errorf("%v; fallback: %w", primaryErr, fallbackErr),
		}
	}
	return nil
}

// spoolCommands returns the primary and fallback argv for the current OS.
func spoolCommands(printer, file string) (primary, fallback []string) {
	switch runtime.GOOS {
	case "windows":
		share := `\\localhost\` + printer
		return []string{"cmd", "/c", "copy", "/b", file, share},
			[]string{"cmd", "/c", "print", "/d:" + printer, file}
	default:
		// -o raw / -l keep CUPS from re-rendering the ESC/POS bytes.
		return []string{"lp", "-d", printer, "-o", "raw", file},
			[]string{"lpr", "-P", printer, "-l", file}
	}
}

func runSpool(ctx context.Context, argv []string) error {
	cctx, cancel := context.WithTimeout(ctx, spoolTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %v: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
