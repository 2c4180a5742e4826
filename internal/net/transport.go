package net

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// Peer is a connected mirror viewer.
type Peer struct {
	Conn *websocket.Conn
	mu   sync.Mutex // serializes writes, gorilla allows one writer at a time
}

// Send writes one binary frame to the peer.
func (p *Peer) Send(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.Conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return p.Conn.WriteMessage(websocket.BinaryMessage, data)
}

// PeerManager tracks the viewers connected to the mirror.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
	log   *slog.Logger
}

// NewPeerManager creates a new manager.
func NewPeerManager(log *slog.Logger) *PeerManager {
	if log == nil {
		log = slog.Default()
	}
	return &PeerManager{
		peers: make(map[string]*Peer),
		log:   log,
	}
}

// Add registers a viewer that just connected.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	addr := peer.Conn.RemoteAddr().String()
	pm.peers[addr] = peer
	pm.log.Info("mirror viewer connected", "addr", addr)
}

// Remove forgets a viewer and closes its connection.
func (pm *PeerManager) Remove(peer *Peer) {
	addr := peer.Conn.RemoteAddr().String()
	pm.mu.Lock()
	_, ok := pm.peers[addr]
	delete(pm.peers, addr)
	pm.mu.Unlock()
	if ok {
		_ = peer.Conn.Close()
		pm.log.Info("mirror viewer disconnected", "addr", addr)
	}
}

// Len returns the number of connected viewers.
func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Broadcast sends data to every viewer. Viewers that fail to keep up are
// dropped.
func (pm *PeerManager) Broadcast(data []byte) {
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		peers = append(peers, p)
	}
	pm.mu.RUnlock()

	for _, p := range peers {
		if err := p.Send(data); err != nil {
			pm.log.Warn("mirror write failed", "addr", p.Conn.RemoteAddr().String(), "err", err)
			pm.Remove(p)
		}
	}
}

// CloseAll disconnects every viewer.
func (pm *PeerManager) CloseAll() {
	pm.mu.Lock()
	peers := pm.peers
	pm.peers = make(map[string]*Peer)
	pm.mu.Unlock()
	for _, p := range peers {
		_ = p.Conn.Close()
	}
}
