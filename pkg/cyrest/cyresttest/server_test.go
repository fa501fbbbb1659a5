package cyresttest

import (
	"net/http"
	"strings"
	"testing"
)

func TestServerRecordsAndFails(t *testing.T) {
	srv := New()
	defer srv.Close()

	resp, err := http.Post(srv.BaseURL()+"networks", "application/json", strings.NewReader(`{"elements":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST networks status = %d", resp.StatusCode)
	}
	if _, ok := srv.Network(52); !ok {
		t.Error("network 52 not stored")
	}

	srv.Fail(RouteDeleteStyles, http.StatusInternalServerError)
	req, _ := http.NewRequest(http.MethodDelete, srv.BaseURL()+"styles", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("DELETE styles status = %d, want 500", resp.StatusCode)
	}

	routes := srv.Routes()
	if len(routes) != 2 || routes[0] != RouteCreateNetwork || routes[1] != RouteDeleteStyles {
		t.Errorf("Routes() = %v", routes)
	}
}

func TestServerRejectsInvalidNetwork(t *testing.T) {
	srv := New()
	defer srv.Close()

	resp, err := http.Post(srv.BaseURL()+"networks", "application/json", strings.NewReader(`{`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
