package stream

import (
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dmorales/ws-remote-screen/internal/encoders"
	"github.com/dmorales/ws-remote-screen/internal/rdisplay"
)

// Config is the fixed streaming configuration, set once at startup
type Config struct {
	Port    int
	Size    image.Point
	Format  encoders.PixelFormat
	FPS     int
	Display int
}

// Server accepts device connections and runs one stream session per
// connection. Sessions share nothing; the server keeps accepting after a
// session ends, however it ended.
type Server struct {
	cfg      Config
	display  rdisplay.Service
	encoding encoders.Service
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewServer creates a streaming server for the given display and encoder
// services
func NewServer(cfg Config, display rdisplay.Service, encoding encoders.Service, log zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		display:  display,
		encoding: encoding,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The peer is device firmware, not a browser; it sends no
			// Origin header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.With().Str("component", "stream").Logger(),
	}
}

// Router exposes the websocket stream endpoint and a health probe
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

// ListenAndServe binds the configured port and serves until the process
// exits. A bind failure surfaces here and is fatal to the caller.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.log.Info().Str("addr", addr).Msg("listening for device connections")
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.With().
		Str("session", uuid.New().String()).
		Str("peer", conn.RemoteAddr().String()).
		Logger()
	log.Info().Msg("client connected")

	session, err := s.newSession(conn)
	if err != nil {
		log.Error().Err(err).Msg("session setup failed")
		return
	}

	err = session.run()
	if errors.Is(err, ErrPeerDisconnected) {
		log.Info().Msg("client disconnected")
		return
	}
	log.Error().Err(err).Msg("session aborted")
}

// newSession builds a streamer bound to this connection: its own grabber,
// its own encoder, nothing shared with other sessions.
func (s *Server) newSession(conn *websocket.Conn) (*streamer, error) {
	screens, err := s.display.Screens()
	if err != nil {
		return nil, err
	}
	screenIx := s.cfg.Display
	if screenIx < 0 || screenIx >= len(screens) {
		screenIx = 0
	}
	grabber, err := s.display.CreateFrameGrabber(screens[screenIx])
	if err != nil {
		return nil, err
	}
	encoder, err := s.encoding.NewEncoder(s.cfg.Format, s.cfg.Size)
	if err != nil {
		grabber.Close()
		return nil, err
	}
	interval := time.Second / time.Duration(s.cfg.FPS)
	return newStreamer(wsFrameWriter{conn}, grabber, encoder, interval), nil
}

// wsFrameWriter sends each packed frame buffer as one binary message, no
// length prefix or header; the device relies on the pre-agreed length.
type wsFrameWriter struct {
	conn *websocket.Conn
}

func (w wsFrameWriter) WriteFrame(payload []byte) error {
	return w.conn.WriteMessage(websocket.BinaryMessage, payload)
}
