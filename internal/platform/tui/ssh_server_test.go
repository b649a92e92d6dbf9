package tui

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/vovakirdan/tui-tappy/internal/config"
)

// fakeSession stands in for a connection. Methods the handler does not
// call are left to the nil embedded interface.
type fakeSession struct {
	ssh.Session
	pty    bool
	stderr bytes.Buffer
	exit   int
	closed bool
}

func (s *fakeSession) User() string { return "tester" }

func (s *fakeSession) Pty() (ssh.Pty, <-chan ssh.Window, bool) {
	return ssh.Pty{Window: ssh.Window{Width: 80, Height: 24}}, nil, s.pty
}

func (s *fakeSession) Stderr() io.ReadWriter { return &s.stderr }

func (s *fakeSession) Exit(code int) error {
	s.exit = code
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func newTestSSHServer(game config.TappyConfig) *SSHServer {
	return &SSHServer{
		config: SSHServerConfig{TickRate: 60, Game: game},
		logger: log.New(io.Discard),
	}
}

func TestTeaHandlerReportsStartFailure(t *testing.T) {
	cfg := config.DefaultTappyConfig()
	cfg.Assets.Atlas = "nope.json"
	srv := newTestSSHServer(cfg)
	sess := &fakeSession{pty: true}

	model, _ := srv.teaHandler(sess)
	if model != nil {
		t.Fatal("a session that cannot start should get no model")
	}
	if !strings.Contains(sess.stderr.String(), "cannot start session") {
		t.Errorf("stderr = %q, want the start failure", sess.stderr.String())
	}
	if sess.exit != 1 || !sess.closed {
		t.Errorf("exit=%d closed=%v, want exit 1 and closed", sess.exit, sess.closed)
	}
}

func TestTeaHandlerReportsMissingPty(t *testing.T) {
	srv := newTestSSHServer(config.DefaultTappyConfig())
	sess := &fakeSession{}

	if model, _ := srv.teaHandler(sess); model != nil {
		t.Fatal("a session without a terminal should get no model")
	}
	if !strings.Contains(sess.stderr.String(), "interactive terminal") {
		t.Errorf("stderr = %q, want a terminal hint", sess.stderr.String())
	}
}

func TestTeaHandlerStartsSession(t *testing.T) {
	srv := newTestSSHServer(config.DefaultTappyConfig())
	sess := &fakeSession{pty: true}

	model, opts := srv.teaHandler(sess)
	if model == nil {
		t.Fatalf("expected a model, stderr = %q", sess.stderr.String())
	}
	if len(opts) == 0 {
		t.Error("expected program options")
	}
	if sess.stderr.Len() != 0 {
		t.Errorf("unexpected stderr output %q", sess.stderr.String())
	}
}
