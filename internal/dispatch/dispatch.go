// Package dispatch delivers compiled printer payloads to a raw TCP network
// printer or to the OS print spool.
package dispatch

import (
	"context"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/lunapos/print-bridge/internal/model"
)

// networkTimeout bounds the whole network delivery, from connection attempt
// to write completion.
const networkTimeout = 5 * time.Second

// Dispatch sends payload to the printer selected by cfg. The configuration
// is a snapshot taken by the caller; a concurrent /config change does not
// affect an in-flight job.
func Dispatch(ctx context.Context, payload []byte, cfg model.PrinterConfig) error {
	switch cfg.Type {
	case model.PrinterTypeNetwork:
		if cfg.NetworkIP == "" {
			return ErrNotConfigured
		}
		return sendToNetwork(ctx, payload, cfg)
	case model.PrinterTypeLocal:
		if cfg.PrinterName == "" {
			return ErrNotConfigured
		}
		return sendToSpool(ctx, payload, cfg.PrinterName)
	default:
		return ErrNotConfigured
	}
}

func sendToNetwork(ctx context.Context, payload []byte, cfg model.PrinterConfig) error {
	port := cfg.NetworkPort
	if port == 0 {
		port = model.DefaultNetworkPort
	}
	addr := net.JoinHostPort(cfg.NetworkIP, strconv.Itoa(port))

	deadline := time.Now().Add(networkTimeout)
	dialer := net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &NetworkDeliveryError{Addr: addr, Err: err}
	}
	defer conn.Close()

	log.Printf("Sending %d bytes to %s", len(payload), addr)

	if err := conn.SetWriteDeadline(deadline); err != nil {
		return &NetworkDeliveryError{Addr: addr, Err: err}
	}
	if _, err := conn.Write(payload); err != nil {
		return &NetworkDeliveryError{Addr: addr, Err: err}
	}
	// Signal end of job so the printer does not wait for more data.
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.CloseWrite()
	}
	return nil
}
