package server

import (
	"net/http"
	"testing"

	"go.uber.org/zap"
)

func TestNew_Defaults(t *testing.T) {
	srv := New(":0", http.NotFoundHandler(), nil)
	if srv.ReadHeaderTimeout != ReadHeaderTimeout || srv.WriteTimeout != WriteTimeout {
		t.Fatalf("timeouts not applied: %+v", srv)
	}
	if srv.ErrorLog != nil {
		t.Fatalf("ErrorLog set without a logger")
	}

	srv = New(":0", http.NotFoundHandler(), zap.NewNop())
	if srv.ErrorLog == nil {
		t.Fatalf("ErrorLog not wired to zap")
	}
}
