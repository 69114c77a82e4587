package sms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPGatewaySend(t *testing.T) {
	var gotMobile, gotMsg, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotMobile = r.PostFormValue("mobile")
		gotMsg = r.PostFormValue("msg")
		gotKey = r.Header.Get("apikey")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g, err := NewHTTPGateway(HTTPGatewayConfig{BaseURL: srv.URL, APIKey: "k1", SenderID: "OTPGATE"})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	if err := g.Send(context.Background(), "+15550100", "Your passcode: 123456"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotMobile != "+15550100" || gotMsg != "Your passcode: 123456" || gotKey != "k1" {
		t.Fatalf("unexpected request: mobile=%q msg=%q apikey=%q", gotMobile, gotMsg, gotKey)
	}
}

func TestHTTPGatewaySendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	g, err := NewHTTPGateway(HTTPGatewayConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	if err := g.Send(context.Background(), "+15550100", "x"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestUnconfiguredSenderFails(t *testing.T) {
	s := NewUnconfigured()

	err := s.Send(context.Background(), "+15550100", "x")

	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
