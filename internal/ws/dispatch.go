package ws

import (
	"context"
	"encoding/json"
	"fmt"
)

// decode unmarshals an envelope body into a typed request. An absent body
// yields the zero value.
func decode[Req any](body json.RawMessage) (Req, error) {
	var req Req
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return req, err
		}
	}
	return req, nil
}

// dispatch routes one inbound envelope to its handler. The switch covers the
// closed set of inbound events; anything else is answered with an error
// envelope by the reader loop.
func (s *WsServer) dispatch(ctx context.Context, sess *session, conn *clientConn, env Envelope) error {
	switch env.Event {
	case EventJoin:
		req, err := decode[JoinRequest](env.Body)
		if err != nil {
			return err
		}
		s.handleJoin(sess, conn, req)

	case EventCodeChange:
		req, err := decode[CodeChangeRequest](env.Body)
		if err != nil {
			return err
		}
		s.handleCodeChange(conn, req)

	case EventLeaveRoom:
		s.handleLeaveRoom(sess, conn)

	case EventTyping:
		req, err := decode[TypingRequest](env.Body)
		if err != nil {
			return err
		}
		s.handleTyping(conn, req)

	case EventLanguageChange:
		req, err := decode[LanguageChangeRequest](env.Body)
		if err != nil {
			return err
		}
		s.handleLanguageChange(req)

	case EventThemeChange:
		req, err := decode[ThemeChangeRequest](env.Body)
		if err != nil {
			return err
		}
		s.handleThemeChange(req)

	case EventCompileCode:
		req, err := decode[CompileRequest](env.Body)
		if err != nil {
			return err
		}
		s.handleCompile(ctx, conn, req)

	case EventGetAIReview:
		req, err := decode[ReviewRequest](env.Body)
		if err != nil {
			return err
		}
		s.handleReview(ctx, req)

	default:
		return fmt.Errorf("unknown event %q", env.Event)
	}
	return nil
}
