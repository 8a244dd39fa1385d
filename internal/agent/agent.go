// Package agent keeps a websocket session to the POS cloud so print jobs
// can be pushed to the bridge without the browser talking to it directly.
// The session drives the same compile+dispatch pipeline as the HTTP surface.
package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lunapos/print-bridge/internal/dispatch"
	"github.com/lunapos/print-bridge/internal/escpos"
	"github.com/lunapos/print-bridge/internal/model"
)

const reconnectDelay = 5 * time.Second

type Agent struct {
	url   string
	key   string
	store *model.ConfigStore
}

func New(url, key string, store *model.ConfigStore) *Agent {
	return &Agent{url: url, key: key, store: store}
}

// Run dials the cloud endpoint and reconnects forever until ctx is done.
func (a *Agent) Run(ctx context.Context) {
	header := http.Header{}
	header.Add("X-Agent-Key", a.key)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		log.Printf("[agent] Connecting to %s...", a.url)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.url, header)
		if err != nil {
			log.Printf("[agent] Connection failed: %v. Retrying in %s...", err, reconnectDelay)
			sleep(ctx, reconnectDelay)
			continue
		}

		log.Printf("[agent] Connected.")
		a.handleConnection(ctx, conn)

		conn.Close()
		log.Printf("[agent] Disconnected. Reconnecting in %s...", reconnectDelay)
		sleep(ctx, reconnectDelay)
	}
}

func (a *Agent) handleConnection(ctx context.Context, conn *websocket.Conn) {
	regMsg := model.WSMessage{Type: model.MessageTypeRegister, AgentKey: a.key}
	if err := conn.WriteJSON(regMsg); err != nil {
		log.Printf("[agent] Failed to send register: %v", err)
		return
	}

	// An accepted job runs to completion even if the connection's context is
	// torn down mid-print; the sink timeouts bound it.
	jobCtx := context.WithoutCancel(ctx)

	for {
		var msg model.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("[agent] Read error: %v", err)
			return
		}

		switch msg.Type {
		case model.MessageTypeRegistered:
			log.Printf("[agent] Successfully registered with server.")

		case model.MessageTypePing:
			conn.WriteJSON(model.WSMessage{Type: model.MessageTypePong, AgentKey: a.key})

		case model.MessageTypePrintJob:
			a.report(conn, msg.JobID, a.printReceipt(jobCtx, msg.Receipt))

		case model.MessageTypePrintRaw:
			a.report(conn, msg.JobID, a.printRaw(jobCtx, msg.Data))

		case model.MessageTypeOpenDrawer:
			a.report(conn, msg.JobID, a.deliver(jobCtx, escpos.DrawerKick))

		case model.MessageTypeUnregister:
			log.Printf("[agent] Server requested unregister.")
			return

		default:
			log.Printf("[agent] Unknown message type: %s", msg.Type)
		}
	}
}

func (a *Agent) printReceipt(ctx context.Context, raw json.RawMessage) error {
	var receipt model.Receipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return model.ErrInvalidReceipt
	}

	cfg := a.store.Get()

	var logo []byte
	if receipt.LogoURL != "" {
		var err error
		logo, err = escpos.FetchLogo(ctx, receipt.LogoURL, cfg.PaperWidth, receipt.LogoWidth)
		if err != nil {
			log.Printf("[agent] Skipping logo: %v", err)
			logo = nil
		}
	}

	payload, err := escpos.Compile(&receipt, cfg.Columns(), logo)
	if err != nil {
		return err
	}
	return dispatch.Dispatch(ctx, payload, cfg)
}

func (a *Agent) printRaw(ctx context.Context, data string) error {
	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return model.ErrInvalidReceipt
	}
	return a.deliver(ctx, payload)
}

func (a *Agent) deliver(ctx context.Context, payload []byte) error {
	return dispatch.Dispatch(ctx, payload, a.store.Get())
}

func (a *Agent) report(conn *websocket.Conn, jobID string, err error) {
	msg := model.WSMessage{Type: model.MessageTypePrinted, AgentKey: a.key, JobID: jobID}
	if err != nil {
		log.Printf("[agent] Print failed: %v", err)
		msg.Type = model.MessageTypePrintFailed
		msg.Error = err.Error()
	}
	if werr := conn.WriteJSON(msg); werr != nil {
		log.Printf("[agent] Failed to send job status: %v", werr)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
