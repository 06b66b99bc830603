// Copyright (c) 2025 Berik Ashimov

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return buildRouter(defaultConfig())
}

func doJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", w.Code, w.Body.String())
	}
}

func TestSmokeVLSM(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, "/api/vlsm", `{
		"base": "10.0.0.0/20",
		"requirements": [
			{"name": "sales", "hosts_required": 500},
			{"name": "eng", "hosts_required": 120},
			{"name": "voip", "hosts_required": 50},
			{"name": "mgmt", "hosts_required": 10},
			{"name": "p2p", "hosts_required": 5}
		]
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("vlsm: %d %s", w.Code, w.Body.String())
	}

	var plan VLSMPlan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !plan.Success {
		t.Fatalf("plan failed: %s", plan.ErrorMessage)
	}
	if len(plan.Allocations) != 5 {
		t.Fatalf("allocations: %d", len(plan.Allocations))
	}
	// ids are assigned from input positions before sorting
	if plan.Allocations[0].ID != "req-1" || plan.Allocations[0].CIDR != "10.0.0.0/23" {
		t.Fatalf("first allocation: %+v", plan.Allocations[0])
	}
	if plan.Allocations[4].CIDR != "10.0.2.208/29" {
		t.Fatalf("last allocation: %+v", plan.Allocations[4])
	}
	if plan.AllocatedHosts < plan.TotalHosts {
		t.Fatalf("allocated %d < requested %d", plan.AllocatedHosts, plan.TotalHosts)
	}
}

func TestSmokeIPv4Subnet(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, "/api/ipv4/subnet", `{"cidr": "192.168.1.1/24"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("subnet: %d %s", w.Code, w.Body.String())
	}
	var res IPv4SubnetResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Network != "192.168.1.0" || res.HostCount != 254 {
		t.Fatalf("result: %+v", res)
	}

	w = doJSON(t, r, "/api/ipv4/subnet", `{"address": "10.0.0.5", "prefix": 20}`)
	if w.Code != http.StatusOK {
		t.Fatalf("subnet by address: %d %s", w.Code, w.Body.String())
	}
}

func TestSmokeIPv6Endpoints(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, "/api/ipv6/subnet", `{"cidr": "2001:db8::1/64"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("ipv6 subnet: %d %s", w.Code, w.Body.String())
	}
	var sub IPv6SubnetResult
	if err := json.Unmarshal(w.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.Network != "2001:db8::" || sub.HostBits != 64 {
		t.Fatalf("result: %+v", sub)
	}

	w = doJSON(t, r, "/api/ipv6/canonical", `{"address": "2001:0DB8::0001"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("canonical: %d %s", w.Code, w.Body.String())
	}
	var can IPv6CanonicalResult
	if err := json.Unmarshal(w.Body.Bytes(), &can); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if can.Compressed != "2001:db8::1" {
		t.Fatalf("compressed: %q", can.Compressed)
	}

	w = doJSON(t, r, "/api/eui64", `{"mac": "00:11:22:33:44:55"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("eui64: %d %s", w.Code, w.Body.String())
	}
	var eui EUI64Result
	if err := json.Unmarshal(w.Body.Bytes(), &eui); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eui.Address != "fe80::211:22ff:fe33:4455" {
		t.Fatalf("address: %q", eui.Address)
	}
}

func TestSmokeConvertFormats(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, "/api/ipv4/convert", `{"text": "192.168.1.1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("convert: %d %s", w.Code, w.Body.String())
	}
	var res IPv4ConvertResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Decimal != 3232235777 || res.Hex != "0xc0a80101" {
		t.Fatalf("result: %+v", res)
	}

	w = doJSON(t, r, "/api/ipv4/convert?format=csv", `{"text": "192.168.1.1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("csv: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type: %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "Property,Value") {
		t.Fatalf("csv body: %q", w.Body.String())
	}

	w = doJSON(t, r, "/api/ipv4/convert?format=yaml", `{"text": "192.168.1.1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("yaml: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "dotted: 192.168.1.1") {
		t.Fatalf("yaml body: %q", w.Body.String())
	}

	w = doJSON(t, r, "/api/ipv4/convert?format=xlsx", `{"text": "192.168.1.1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx: %d", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("empty xlsx body")
	}
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter()
	cases := []struct{ path, body string }{
		{"/api/ipv4/convert", `{}`},
		{"/api/ipv4/convert", `{"text": "999.1.1.1"}`},
		{"/api/ipv4/subnet", `{"cidr": "10.0.0.0/33"}`},
		{"/api/ipv4/subnet", `{"address": "10.0.0.1"}`},
		{"/api/ipv6/subnet", `{"cidr": "2001:db8::1"}`},
		{"/api/ipv6/canonical", `{"address": "fe80::1%eth0"}`},
		{"/api/eui64", `{"mac": "00:11:22:33:44"}`},
		{"/api/vlsm", `{"base": "10.0.0.0/24"}`},
		{"/api/vlsm", `{"base": "10.0.0.0/24", "requirements": [{"name": "a", "hosts_required": 0}]}`},
	}
	for _, tc := range cases {
		w := doJSON(t, r, tc.path, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: got %d, want 400", tc.path, tc.body, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode error body: %v", tc.path, err)
		}
		if _, ok := body["error"]; !ok {
			t.Fatalf("%s: missing error field: %s", tc.path, w.Body.String())
		}
	}
}

func TestVLSMOverflowIsNotABadRequest(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, "/api/vlsm", `{
		"base": "192.168.1.0/28",
		"requirements": [{"name": "big", "hosts_required": 100}]
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("overflow: %d %s", w.Code, w.Body.String())
	}
	var plan VLSMPlan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if plan.Success || plan.ErrorMessage == "" {
		t.Fatalf("plan: %+v", plan)
	}
}
