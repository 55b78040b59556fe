package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/l1/comm"
)

// DefaultPath is where the Server accepts connections.
const DefaultPath = "/ws"

// Server accepts websocket peers, typically browser renderers, and
// serves each as a comm.Registrar: events are broadcast to all peers,
// commands from any peer are posted to the loop.
type Server struct {
	Addr string
	Path string

	ctx      context.Context
	listener net.Listener
	peers    map[*comm.Registrar]struct{}
	lock     sync.RWMutex
	ready    chan struct{}
}

// NewServer creates a Server listening on addr.
func NewServer(addr string) *Server {
	return &Server{Addr: addr, Path: DefaultPath, ready: make(chan struct{})}
}

// ListenAddr blocks until the server is listening and returns the address.
func (s *Server) ListenAddr() net.Addr {
	<-s.ready
	return s.listener.Addr()
}

// Peers returns the number of connected peers.
func (s *Server) Peers() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.peers)
}

// SendEvent implements l1.Registrar.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	s.lock.RLock()
	peers := make([]*comm.Registrar, 0, len(s.peers))
	for peer := range s.peers {
		peers = append(peers, peer)
	}
	s.lock.RUnlock()
	for _, peer := range peers {
		if err := peer.SendEvent(ctx, msg); err != nil {
			glog.V(2).Infof("websocket peer dropped: %v", err)
			peer.Close()
			s.remove(peer)
		}
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(s)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ctx, s.listener = ctx, ln
	s.lock.Lock()
	s.peers = make(map[*comm.Registrar]struct{})
	s.lock.Unlock()
	close(s.ready)

	mux := http.NewServeMux()
	mux.Handle(s.Path, websocket.Handler(s.serve))
	server := &http.Server{Handler: mux}
	glog.Infof("websocket listening on %s%s", ln.Addr(), s.Path)
	return fx.RunWithContextCancel(ctx, func() {
		server.Close()
	}, func() error {
		if err := server.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func (s *Server) serve(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	peer := comm.NewRegistrar(New(conn))
	s.lock.Lock()
	s.peers[peer] = struct{}{}
	s.lock.Unlock()
	defer s.remove(peer)
	glog.Infof("websocket peer connected: %s", conn.Request().RemoteAddr)
	if err := peer.Run(s.ctx); err != nil && err != context.Canceled {
		glog.V(2).Infof("websocket peer %s: %v", conn.Request().RemoteAddr, err)
	}
}

func (s *Server) remove(peer *comm.Registrar) {
	s.lock.Lock()
	delete(s.peers, peer)
	s.lock.Unlock()
}
