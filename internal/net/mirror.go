package net

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"

	"LocalBoard/internal/render"
)

// Mirror is a render.Surface that forwards every frame to an inner surface
// and streams it, PNG encoded, to read-only websocket viewers. Viewers can
// only watch.
//
// Present only copies the frame; encoding and sending happen on the mirror's
// own goroutine, which always works on the newest frame and skips the ones
// that arrived while it was busy.
type Mirror struct {
	inner render.Surface
	peers *PeerManager
	log   *slog.Logger

	mu      sync.Mutex
	pending *image.RGBA // newest presented frame
	dirty   bool        // pending holds a frame not yet encoded
	spare   *image.RGBA
	encoded []byte // last encoded frame
	closed  bool

	frames chan struct{}
	done   chan struct{}

	upgrader websocket.Upgrader
	server   *http.Server
	mdns     *mdns.Server
}

var _ render.Surface = (*Mirror)(nil)

var ErrMirrorClosed = errors.New("mirror: closed")

// NewMirror wraps inner and starts the encoder goroutine.
func NewMirror(inner render.Surface, log *slog.Logger) *Mirror {
	if log == nil {
		log = slog.Default()
	}
	m := &Mirror{
		inner:  inner,
		peers:  NewPeerManager(log),
		log:    log,
		frames: make(chan struct{}, 1),
		done:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// viewers are read-only, any origin may watch
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	go m.encodeLoop()
	return m
}

func (m *Mirror) Acquire() draw.Image {
	return m.inner.Acquire()
}

func (m *Mirror) Size() (int, int) {
	return m.inner.Size()
}

// Present captures frame for the viewers, then hands it to the inner surface.
func (m *Mirror) Present(frame draw.Image) {
	m.capture(frame)
	m.inner.Present(frame)
}

func (m *Mirror) capture(frame draw.Image) {
	b := frame.Bounds()
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.pending == nil || m.pending.Rect.Size() != b.Size() {
		m.pending = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(m.pending, m.pending.Rect, frame, b.Min, draw.Src)
	m.dirty = true

	select {
	case m.frames <- struct{}{}:
	default:
	}
	m.mu.Unlock()
}

func (m *Mirror) encodeLoop() {
	defer close(m.done)
	var buf bytes.Buffer
	for range m.frames {
		m.mu.Lock()
		if !m.dirty {
			m.mu.Unlock()
			continue
		}
		frame := m.pending
		m.pending, m.spare = m.spare, nil
		m.dirty = false
		m.mu.Unlock()

		buf.Reset()
		if err := png.Encode(&buf, frame); err != nil {
			m.log.Warn("mirror encode failed", "err", err)
			continue
		}
		data := bytes.Clone(buf.Bytes())

		m.mu.Lock()
		m.encoded = data
		if m.spare == nil {
			m.spare = frame
		}
		m.mu.Unlock()

		m.peers.Broadcast(data)
	}
}

// Latest returns the last encoded frame, or nil before the first one.
func (m *Mirror) Latest() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encoded
}

// Viewers returns the number of connected viewers.
func (m *Mirror) Viewers() int {
	return m.peers.Len()
}

// Handler serves the websocket stream on /frames and the newest frame on
// /frame.png.
func (m *Mirror) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(framesPath, m.serveFrames)
	mux.HandleFunc("/frame.png", m.serveFrame)
	return mux
}

func (m *Mirror) serveFrame(w http.ResponseWriter, _ *http.Request) {
	data := m.Latest()
	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (m *Mirror) serveFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn("mirror upgrade failed", "err", err)
		return
	}
	peer := &Peer{Conn: conn}
	m.peers.Add(peer)
	defer m.peers.Remove(peer)

	if data := m.Latest(); data != nil {
		if err := peer.Send(data); err != nil {
			return
		}
	}
	// viewers send nothing; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Start listens on port, serves the mirror and, when advertise is set,
// announces it over mDNS. It returns the address actually bound.
func (m *Mirror) Start(port int, advertise bool) (string, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return "", ErrMirrorClosed
	}

	l, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("mirror listen on %d: %w", port, err)
	}
	srv := &http.Server{Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error("mirror server stopped", "err", err)
		}
	}()

	var zone *mdns.Server
	if advertise {
		bound := l.Addr().(*net.TCPAddr).Port
		if zone, err = Advertise(bound); err != nil {
			m.log.Warn("mirror not advertised", "err", err)
		}
	}

	m.mu.Lock()
	m.server = srv
	m.mdns = zone
	m.mu.Unlock()

	m.log.Info("mirror serving", "addr", l.Addr().String(), "advertised", zone != nil)
	return l.Addr().String(), nil
}

// Close stops the server, the mDNS announcement, the encoder and every
// viewer connection.
func (m *Mirror) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.frames)
	srv, zone := m.server, m.mdns
	m.mu.Unlock()

	var errs []error
	if zone != nil {
		if err := zone.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("mdns shutdown: %w", err))
		}
	}
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mirror shutdown: %w", err))
		}
	}
	m.peers.CloseAll()

	<-m.done
	return errors.Join(errs...)
}
