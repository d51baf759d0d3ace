// Package messaging provides the websocket bridge between the server-side
// content engine and the browser editing surface.
package messaging

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// frame is the wire format shared by calls, results and events.
type frame struct {
	ID     uint64          `json:"id,omitempty"`
	Kind   string          `json:"kind"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const (
	kindCall   = "call"
	kindResult = "result"
	kindEvent  = "event"
)

// SurfaceBridge proxies the editing surface living in the browser over one
// websocket connection. Export and import operations run as request/response
// calls; readiness and content-change notifications arrive as events.
//
// The bridge is safe for concurrent use. It reports not-ready until the
// client announces readiness, and again after the connection drops.
type SurfaceBridge struct {
	conn   *websocket.Conn
	logger *logging.ChanneledLogger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[uint64]chan frame
	nextID    atomic.Uint64

	ready      atomic.Bool
	structural atomic.Bool

	listenersMu sync.Mutex
	onChange    []func(pageID string)
	onReady     []func()
	onEvent     []func(method string, params json.RawMessage)

	closed    chan struct{}
	closeOnce sync.Once
}

func NewSurfaceBridge(conn *websocket.Conn, logger *logging.ChanneledLogger) *SurfaceBridge {
	return &SurfaceBridge{
		conn:    conn,
		logger:  logger,
		pending: make(map[uint64]chan frame),
		closed:  make(chan struct{}),
	}
}

// OnChange registers a callback invoked whenever the client reports a
// content change on the surface.
func (b *SurfaceBridge) OnChange(fn func(pageID string)) {
	b.listenersMu.Lock()
	b.onChange = append(b.onChange, fn)
	b.listenersMu.Unlock()
}

// OnReady registers a callback invoked each time the client announces
// surface readiness. Readiness may be announced more than once.
func (b *SurfaceBridge) OnReady(fn func()) {
	b.listenersMu.Lock()
	b.onReady = append(b.onReady, fn)
	b.listenersMu.Unlock()
}

// OnEvent registers a callback for every client event the bridge does not
// consume itself (openPage, save, catalog and asset events).
func (b *SurfaceBridge) OnEvent(fn func(method string, params json.RawMessage)) {
	b.listenersMu.Lock()
	b.onEvent = append(b.onEvent, fn)
	b.listenersMu.Unlock()
}

// Run reads frames until the connection drops. It blocks and is meant to be
// called from the websocket handler goroutine.
func (b *SurfaceBridge) Run() {
	defer b.Close()

	b.conn.SetPongHandler(func(string) error {
		return b.conn.SetReadDeadline(time.Now().Add(config.SurfacePingInterval * 2))
	})
	_ = b.conn.SetReadDeadline(time.Now().Add(config.SurfacePingInterval * 2))

	go b.pingLoop()

	for {
		var f frame
		if err := b.conn.ReadJSON(&f); err != nil {
			b.logger.Surface().Debug("Surface connection closed", "error", err)
			return
		}

		switch f.Kind {
		case kindResult:
			b.dispatchResult(f)
		case kindEvent:
			b.dispatchEvent(f)
		default:
			b.logger.Surface().Warn("Unexpected surface frame kind", "kind", f.Kind)
		}
	}
}

// Close tears down the connection and fails all in-flight calls.
func (b *SurfaceBridge) Close() {
	b.closeOnce.Do(func() {
		b.ready.Store(false)
		close(b.closed)
		_ = b.conn.Close()

		b.pendingMu.Lock()
		for id, ch := range b.pending {
			close(ch)
			delete(b.pending, id)
		}
		b.pendingMu.Unlock()
	})
}

// Closed reports when the underlying connection has gone away.
func (b *SurfaceBridge) Closed() <-chan struct{} {
	return b.closed
}

func (b *SurfaceBridge) pingLoop() {
	ticker := time.NewTicker(config.SurfacePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.closed:
			return
		case <-ticker.C:
			b.writeMu.Lock()
			err := b.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(config.SurfaceWriteTimeout))
			b.writeMu.Unlock()
			if err != nil {
				b.Close()
				return
			}
		}
	}
}

func (b *SurfaceBridge) dispatchResult(f frame) {
	b.pendingMu.Lock()
	ch, ok := b.pending[f.ID]
	if ok {
		delete(b.pending, f.ID)
	}
	b.pendingMu.Unlock()

	if !ok {
		b.logger.Surface().Debug("Dropping result for unknown call", "id", f.ID)
		return
	}
	ch <- f
}

func (b *SurfaceBridge) dispatchEvent(f frame) {
	switch f.Method {
	case "ready":
		var params struct {
			StructuralExport bool `json:"structuralExport"`
		}
		if len(f.Params) > 0 {
			if err := json.Unmarshal(f.Params, &params); err != nil {
				b.logger.Surface().Warn("Malformed ready event", "error", err)
			}
		}
		b.structural.Store(params.StructuralExport)
		b.ready.Store(true)
		b.logger.Surface().Info("Editing surface ready", "structuralExport", params.StructuralExport)

		b.listenersMu.Lock()
		ready := make([]func(), len(b.onReady))
		copy(ready, b.onReady)
		b.listenersMu.Unlock()
		for _, fn := range ready {
			fn()
		}

	case "change":
		var params struct {
			PageID string `json:"pageId"`
		}
		if len(f.Params) > 0 {
			_ = json.Unmarshal(f.Params, &params)
		}
		b.listenersMu.Lock()
		listeners := make([]func(string), len(b.onChange))
		copy(listeners, b.onChange)
		b.listenersMu.Unlock()
		for _, fn := range listeners {
			fn(params.PageID)
		}

	default:
		b.listenersMu.Lock()
		listeners := make([]func(string, json.RawMessage), len(b.onEvent))
		copy(listeners, b.onEvent)
		b.listenersMu.Unlock()
		if len(listeners) == 0 {
			b.logger.Surface().Debug("Ignoring surface event", "method", f.Method)
			return
		}
		for _, fn := range listeners {
			fn(f.Method, f.Params)
		}
	}
}

// call performs one request/response round trip. result may be nil for
// calls with no payload of interest.
func (b *SurfaceBridge) call(method string, params, result any) error {
	select {
	case <-b.closed:
		return fmt.Errorf("surface connection closed")
	default:
	}

	var rawParams json.RawMessage
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to encode %s params: %w", method, err)
		}
		rawParams = encoded
	}

	id := b.nextID.Add(1)
	ch := make(chan frame, 1)

	b.pendingMu.Lock()
	b.pending[id] = ch
	b.pendingMu.Unlock()

	if err := b.writeFrame(frame{ID: id, Kind: kindCall, Method: method, Params: rawParams}); err != nil {
		b.pendingMu.Lock()
		delete(b.pending, id)
		b.pendingMu.Unlock()
		return err
	}

	timer := time.NewTimer(config.SurfaceCallTimeout)
	defer timer.Stop()

	select {
	case f, ok := <-ch:
		if !ok {
			return fmt.Errorf("surface connection closed during %s", method)
		}
		if f.Error != "" {
			return fmt.Errorf("surface %s failed: %s", method, f.Error)
		}
		if result != nil && len(f.Result) > 0 {
			if err := json.Unmarshal(f.Result, result); err != nil {
				return fmt.Errorf("failed to decode %s result: %w", method, err)
			}
		}
		return nil
	case <-timer.C:
		b.pendingMu.Lock()
		delete(b.pending, id)
		b.pendingMu.Unlock()
		return fmt.Errorf("surface %s timed out after %s", method, config.SurfaceCallTimeout)
	case <-b.closed:
		return fmt.Errorf("surface connection closed during %s", method)
	}
}

func (b *SurfaceBridge) writeFrame(f frame) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if err := b.conn.SetWriteDeadline(time.Now().Add(config.SurfaceWriteTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := b.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("failed to write surface frame: %w", err)
	}
	return nil
}

// sendEvent pushes a fire-and-forget event to the client.
func (b *SurfaceBridge) sendEvent(method string, params any) {
	select {
	case <-b.closed:
		return
	default:
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return
	}
	if err := b.writeFrame(frame{Kind: kindEvent, Method: method, Params: rawParams}); err != nil {
		b.logger.Surface().Debug("Failed to push surface event", "method", method, "error", err)
	}
}

// EditingSurface implementation

func (b *SurfaceBridge) Ready() bool {
	return b.ready.Load()
}

func (b *SurfaceBridge) ExportMarkup() (string, error) {
	var result struct {
		Markup string `json:"markup"`
	}
	if err := b.call("exportMarkup", nil, &result); err != nil {
		return "", err
	}
	return result.Markup, nil
}

func (b *SurfaceBridge) ExportStylesheet() (string, error) {
	var result struct {
		Stylesheet string `json:"stylesheet"`
	}
	if err := b.call("exportStylesheet", nil, &result); err != nil {
		return "", err
	}
	return result.Stylesheet, nil
}

func (b *SurfaceBridge) ExportStructure() (*composer.Tree, []*composer.StyleRule, error) {
	if !b.structural.Load() {
		return nil, nil, nil
	}

	var result struct {
		Tree  *composer.Tree        `json:"tree"`
		Rules []*composer.StyleRule `json:"rules"`
	}
	if err := b.call("exportStructure", nil, &result); err != nil {
		return nil, nil, err
	}
	return result.Tree, result.Rules, nil
}

func (b *SurfaceBridge) ImportMarkup(markup, stylesheet string) error {
	params := map[string]string{
		"markup":     markup,
		"stylesheet": stylesheet,
	}
	return b.call("importMarkup", params, nil)
}

func (b *SurfaceBridge) ImportStructure(tree *composer.Tree, rules []*composer.StyleRule) error {
	params := map[string]any{
		"tree":  tree,
		"rules": rules,
	}
	return b.call("importStructure", params, nil)
}

func (b *SurfaceBridge) Assets() []composer.AssetRef {
	var result struct {
		Assets []composer.AssetRef `json:"assets"`
	}
	if err := b.call("listAssets", nil, &result); err != nil {
		b.logger.Surface().Warn("Failed to list surface assets", "error", err)
		return nil
	}
	return result.Assets
}

func (b *SurfaceBridge) SetAssets(assets []composer.AssetRef) {
	params := map[string]any{"assets": assets}
	if err := b.call("setAssets", params, nil); err != nil {
		b.logger.Surface().Warn("Failed to set surface assets", "error", err)
	}
}

func (b *SurfaceBridge) RemoveAsset(url string) {
	params := map[string]string{"url": url}
	if err := b.call("removeAsset", params, nil); err != nil {
		b.logger.Surface().Warn("Failed to remove surface asset", "url", url, "error", err)
	}
}

// Notifier implementation

func (b *SurfaceBridge) Warn(message string) {
	b.sendEvent("notify", map[string]string{"level": "warning", "message": message})
}

func (b *SurfaceBridge) Error(message string) {
	b.sendEvent("notify", map[string]string{"level": "error", "message": message})
}
