package ws

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codecollabgo/internal/services/execution"
	"codecollabgo/internal/services/review"
	"codecollabgo/internal/services/rooms"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second // must be < pongWait

	maxMessageSize = 1 << 20 // code buffers ride inside frames
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
}

// session is a connection's relay-side state: the room and name it currently
// claims, both empty before the first join.
type session struct {
	roomID   string
	userName string
}

func (s *session) joined() bool { return s.roomID != "" }

type WsServer struct {
	hub       *Hub
	roomSvc   rooms.IRoomService
	execSvc   execution.IExecutionService
	reviewSvc review.IReviewService
}

func NewWsServer(h *Hub, roomSvc rooms.IRoomService, execSvc execution.IExecutionService, reviewSvc review.IReviewService) *WsServer {
	return &WsServer{
		hub:       h,
		roomSvc:   roomSvc,
		execSvc:   execSvc,
		reviewSvc: reviewSvc,
	}
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxMessageSize)

	conn := &clientConn{rawConn: rawConn}
	go s.reader(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Reader loop
// ---------------------------------------------------------------------------

func (s *WsServer) reader(conn *clientConn) {
	sess := &session{}
	defer func() {
		s.handleDisconnect(sess, conn)
		_ = conn.rawConn.Close()
	}()

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}
		if err := s.dispatch(context.Background(), sess, conn, env); err != nil {
			_ = conn.writeEvent(EventError, ErrorBody{Error: err.Error()})
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			return
		}
	}
}

// ---------------------------------------------------------------------------
//  Session handlers
// ---------------------------------------------------------------------------

// handleJoin moves the connection into a room. Any non-empty strings are
// accepted as identifiers; a join while already in a room (the same one
// included) first runs the implicit-leave path.
func (s *WsServer) handleJoin(sess *session, conn *clientConn, req JoinRequest) {
	if sess.joined() {
		members, known := s.roomSvc.Leave(sess.roomID, sess.userName)
		s.hub.Leave(sess.roomID, conn)
		if known {
			s.broadcastMembers(sess.roomID, members)
		}
	}

	sess.roomID = req.RoomID
	sess.userName = req.UserName

	s.hub.Join(req.RoomID, conn)
	members := s.roomSvc.Join(req.RoomID, req.UserName)
	s.broadcastMembers(req.RoomID, members)

	// Sync the joiner with the room's last-known state; fields the room has
	// never seen stay silent.
	if snap, ok := s.roomSvc.Snapshot(req.RoomID); ok {
		if snap.Code != nil {
			_ = conn.writeEvent(EventCodeUpdate, *snap.Code)
		}
		if snap.Language != nil {
			_ = conn.writeEvent(EventLanguageUpdate, *snap.Language)
		}
		if snap.Theme != nil {
			_ = conn.writeEvent(EventThemeUpdate, *snap.Theme)
		}
	}
}

func (s *WsServer) handleLeaveRoom(sess *session, conn *clientConn) {
	if !sess.joined() {
		return
	}
	members, known := s.roomSvc.Leave(sess.roomID, sess.userName)
	if known {
		// The leaver is still in the fan-out set here, so it receives the
		// final membership list it is no longer part of.
		s.broadcastMembers(sess.roomID, members)
	}
	s.hub.Leave(sess.roomID, conn)
	sess.roomID, sess.userName = "", ""
}

// handleDisconnect runs the leaveRoom removal for a transport-level close.
// The session is discarded with the reader, so its fields stay as-is.
func (s *WsServer) handleDisconnect(sess *session, conn *clientConn) {
	if !sess.joined() {
		return
	}
	s.hub.Leave(sess.roomID, conn)
	if members, known := s.roomSvc.Leave(sess.roomID, sess.userName); known {
		s.broadcastMembers(sess.roomID, members)
	}
}

func (s *WsServer) handleTyping(conn *clientConn, req TypingRequest) {
	if msg, err := encodeEnvelope(EventUserTyping, req.UserName); err == nil {
		s.hub.BroadcastExcept(req.RoomID, conn, msg)
	}
}

// ---------------------------------------------------------------------------
//  Broadcast relay
// ---------------------------------------------------------------------------

func (s *WsServer) broadcastMembers(roomID string, members []string) {
	if msg, err := encodeEnvelope(EventUserJoined, members); err == nil {
		s.hub.Broadcast(roomID, msg)
	}
}

// handleCodeChange records the new buffer and fans it out to everyone but the
// sender. Echoing the buffer back would fight the originating editor's cursor
// and undo state.
func (s *WsServer) handleCodeChange(conn *clientConn, req CodeChangeRequest) {
	s.roomSvc.SetCode(req.RoomID, req.Code)
	if msg, err := encodeEnvelope(EventCodeUpdate, req.Code); err == nil {
		s.hub.BroadcastExcept(req.RoomID, conn, msg)
	}
}

// Language and theme switches are discrete selections; the self-echo is
// harmless and keeps every client on the broadcast path.
func (s *WsServer) handleLanguageChange(req LanguageChangeRequest) {
	s.roomSvc.SetLanguage(req.RoomID, req.Language)
	if msg, err := encodeEnvelope(EventLanguageUpdate, req.Language); err == nil {
		s.hub.Broadcast(req.RoomID, msg)
	}
}

func (s *WsServer) handleThemeChange(req ThemeChangeRequest) {
	s.roomSvc.SetTheme(req.RoomID, req.Theme)
	if msg, err := encodeEnvelope(EventThemeUpdate, req.Theme); err == nil {
		s.hub.Broadcast(req.RoomID, msg)
	}
}

// ---------------------------------------------------------------------------
//  External-service proxies
// ---------------------------------------------------------------------------

// handleCompile proxies the buffer to the execution service and unicasts the
// raw result to the requester. Every failure rides the codeResponse channel
// as a synthetic envelope, unknown rooms included.
func (s *WsServer) handleCompile(ctx context.Context, conn *clientConn, req CompileRequest) {
	if _, ok := s.roomSvc.Members(req.RoomID); !ok {
		_ = conn.writeEvent(EventCodeResponse,
			execution.SyntheticFailure(fmt.Errorf("unknown room '%s'", req.RoomID)))
		return
	}

	payload, err := s.execSvc.Execute(ctx, execution.ExecRequest{
		Language: req.Language,
		Version:  req.Version,
		Code:     req.Code,
		Stdin:    req.Stdin,
	})
	if err != nil {
		payload = execution.SyntheticFailure(err)
	}
	_ = conn.writeEvent(EventCodeResponse, payload)
}

// handleReview multicasts the review to the whole room, requester included;
// on failure the fixed fallback text goes out on the same channel.
func (s *WsServer) handleReview(ctx context.Context, req ReviewRequest) {
	text, err := s.reviewSvc.Review(ctx, req.Code)
	if err != nil {
		zap.L().Warn("review.failed", zap.Error(err))
		text = review.FallbackMessage
	}
	if msg, err := encodeEnvelope(EventAIReview, text); err == nil {
		s.hub.Broadcast(req.RoomID, msg)
	}
}
