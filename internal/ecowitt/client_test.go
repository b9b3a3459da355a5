package ecowitt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRealTimeRequestConstruction(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), testCreds, srv.URL)
	if _, err := client.RealTime(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for param, want := range map[string]string{
		"application_key": testCreds.ApplicationKey,
		"api_key":         testCreds.APIKey,
		"mac":             testCreds.MAC,
		"call_back":       "all",
	} {
		if len(gotQuery[param]) != 1 || gotQuery[param][0] != want {
			t.Fatalf("query param %s: got %v, want %q", param, gotQuery[param], want)
		}
	}
}

func TestRealTimeNetworkErrorOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), testCreds, srv.URL)
	_, err := client.RealTime(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

// Transport failures must not carry the request URL: its query string
// holds the credentials.
func TestRealTimeTransportErrorOmitsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	httpClient := srv.Client()
	srv.Close() // force a connection failure

	client := NewClient(httpClient, testCreds, srv.URL)
	_, err := client.RealTime(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	msg := err.Error()
	for _, secret := range []string{testCreds.ApplicationKey, testCreds.APIKey, testCreds.MAC} {
		if strings.Contains(msg, secret) {
			t.Fatalf("transport error leaks credential %q: %s", secret, msg)
		}
	}
}

// An unparseable base URL fails at request construction; that error path
// must be as credential-free as the transport one.
func TestRealTimeBuildErrorOmitsURL(t *testing.T) {
	client := NewClient(&http.Client{}, testCreds, "ht tp://bad host")
	_, err := client.RealTime(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	msg := err.Error()
	for _, secret := range []string{testCreds.ApplicationKey, testCreds.APIKey, testCreds.MAC} {
		if strings.Contains(msg, secret) {
			t.Fatalf("request build error leaks credential %q: %s", secret, msg)
		}
	}
}

func TestRealTimeDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), testCreds, srv.URL)
	_, err := client.RealTime(context.Background())
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}
