// Package printers enumerates OS-registered printers and scans the local
// subnet for raw TCP printers.
package printers

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/lunapos/print-bridge/internal/model"
	"github.com/lunapos/print-bridge/internal/utils"
)

type Printer struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ListLocal enumerates printers registered with the OS spooler.
func ListLocal(ctx context.Context) ([]Printer, error) {
	var out []byte
	var err error
	switch runtime.GOOS {
	case "windows":
		out, err = exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command",
			"Get-Printer | Select-Object -ExpandProperty Name").Output()
		if err != nil {
			return nil, fmt.Errorf("printer enumeration failed: %w", err)
		}
		return parseNames(out), nil
	default:
		out, err = exec.CommandContext(ctx, "lpstat", "-a").Output()
		if err != nil {
			return nil, fmt.Errorf("printer enumeration failed: %w", err)
		}
		return ParseLpstat(string(out)), nil
	}
}

// ParseLpstat extracts printer names from `lpstat -a` output, one printer
// per line, name first.
func ParseLpstat(out string) []Printer {
	var result []Printer
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		result = append(result, Printer{Type: model.PrinterTypeLocal, Name: fields[0]})
	}
	return result
}

func parseNames(out []byte) []Printer {
	var result []Printer
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		result = append(result, Printer{Type: model.PrinterTypeLocal, Name: name})
	}
	return result
}

// ScanNetwork probes the local /24 subnet for devices answering on the raw
// printing port and returns them as network printers named by address.
func ScanNetwork(ctx context.Context, port int) []Printer {
	localIP, err := utils.DetectLocalIP()
	if err != nil {
		log.Println("Error detecting IP:", err)
		return nil
	}
	parts := strings.Split(localIP, ".")
	subnet := strings.Join(parts[:3], ".")
	log.Printf("Scanning subnet: %s.0/24", subnet)

	ipChan := make(chan string, 256)
	foundChan := make(chan string, 256)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range ipChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if utils.Probe(ip, port) {
					foundChan <- ip
				}
			}
		}()
	}

	for i := 1; i <= 254; i++ {
		ipChan <- fmt.Sprintf("%s.%d", subnet, i)
	}
	close(ipChan)

	go func() {
		wg.Wait()
		close(foundChan)
	}()

	var found []Printer
	for ip := range foundChan {
		found = append(found, Printer{Type: model.PrinterTypeNetwork, Name: ip})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found
}
