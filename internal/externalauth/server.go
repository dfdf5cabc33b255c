package externalauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/garrettladley/rrdash/internal/xhttp"
	"github.com/garrettladley/rrdash/internal/xslog"
)

const (
	widgetPath   = "/"
	callbackPath = "/callback"
	shutdownTime = 5 * time.Second
)

// Server hosts the login widget on loopback and forwards the first valid
// callback through an Adapter. Later callbacks are refused.
type Server struct {
	adapter *Adapter
	bot     string
	logger  *slog.Logger

	srv      *http.Server
	listener net.Listener
	once     sync.Once
}

func Start(adapter *Adapter, bot string, logger *slog.Logger) (*Server, error) {
	if bot == "" {
		return nil, errors.New("telegram bot name is not configured")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", "0"))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener: %w", err)
	}

	s := &Server{adapter: adapter, bot: bot, logger: logger, listener: listener}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+widgetPath+"{$}", s.handleWidget)
	mux.HandleFunc("GET "+callbackPath, s.handleCallback)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("login widget server stopped", xslog.Error(err))
		}
	}()

	return s, nil
}

func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String() + widgetPath
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

var widgetPage = template.Must(template.New("widget").Parse(`<!DOCTYPE html>
<html>
<head><title>rrdash sign-in</title></head>
<body>
<h1>Sign in with Telegram</h1>
<script async src="https://telegram.org/js/telegram-widget.js?22"
  data-telegram-login="{{.Bot}}" data-size="large"
  data-auth-url="{{.Callback}}" data-request-access="write"></script>
</body>
</html>`))

func (s *Server) handleWidget(w http.ResponseWriter, _ *http.Request) {
	xhttp.SetHeaderContentTypeTextHTML(w)
	_ = widgetPage.Execute(w, struct{ Bot, Callback string }{s.bot, callbackPath})
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePayload(r.URL.Query())
	if err != nil {
		s.logger.WarnContext(r.Context(), "rejected login callback", xslog.Error(err))
		http.Error(w, "Invalid login callback", http.StatusBadRequest)
		return
	}

	delivered := false
	s.once.Do(func() { delivered = s.adapter.Deliver(p) })
	if !delivered {
		http.Error(w, "This sign-in link has already been used", http.StatusGone)
		return
	}

	xhttp.SetHeaderContentTypeTextHTML(w)
	_, _ = fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Signed in</title></head>
<body>
<h1>Signed in</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
}

// Await serves the widget, opens it with open, and blocks until a payload
// arrives or ctx ends. The registration is released before returning.
func Await(ctx context.Context, bot string, logger *slog.Logger, open func(url string) error) (Payload, error) {
	adapter := NewAdapter()
	results := make(chan Payload, 1)
	unregister := adapter.Register(func(p Payload) {
		select {
		case results <- p:
		default:
		}
	})
	defer unregister()

	s, err := Start(adapter, bot, logger)
	if err != nil {
		return Payload{}, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTime)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shut down login widget server", xslog.Error(err))
		}
	}()

	if open != nil {
		if err := open(s.URL()); err != nil {
			logger.Warn("failed to open browser", xslog.Error(err))
		}
	}

	select {
	case p := <-results:
		return p, nil
	case <-ctx.Done():
		return Payload{}, ctx.Err()
	}
}

func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
