package server

import (
	"github.com/labstack/echo/v4"
)

func (s *Server) handleHealth(c echo.Context) error {
	office := map[string]bool{}
	for kind, alive := range s.registry.Active() {
		office[string(kind)] = alive
	}

	browserInfo := map[string]any{"running": false}
	if sess, ok := s.browsers.Current(); ok {
		browserInfo = map[string]any{
			"running":  true,
			"kind":     string(sess.Kind()),
			"headless": sess.Headless(),
		}
	}

	return respondOK(c, "winbridge is running", map[string]any{
		"service": "winbridge",
		"office":  office,
		"browser": browserInfo,
	})
}

func (s *Server) handleShutdown(c echo.Context) error {
	// Answer first, then let main tear the process down
	err := respondOK(c, "shutting down", nil)
	select {
	case s.shutdownReq <- struct{}{}:
	default:
	}
	return err
}
