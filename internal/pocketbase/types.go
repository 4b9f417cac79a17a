package pocketbase

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SystemRecord is a row of the Beszel hub "systems" collection.
type SystemRecord struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Status  string      `json:"status"`
	Port    LooseString `json:"port"`
	Created string      `json:"created"`
	Updated string      `json:"updated"`
	Info    SystemInfo  `json:"info"`
}

// SystemInfo is the loosely-typed "info" payload the Beszel agent reports.
// Every field is optional; the JSON keys are Beszel's abbreviated names.
type SystemInfo struct {
	Hostname     LooseString  `json:"h"`
	Kernel       LooseString  `json:"k"`
	CPUModel     LooseString  `json:"m"`
	AgentVersion LooseString  `json:"v"`
	CPU          LooseNumber  `json:"cpu"`
	Cores        LooseNumber  `json:"c"`
	Threads      LooseNumber  `json:"t"`
	Load1        LooseNumber  `json:"l1"`
	Load5        LooseNumber  `json:"l5"`
	Load15       LooseNumber  `json:"l15"`
	LoadAvg      LooseNumbers `json:"la"`
	MemPercent   LooseNumber  `json:"mp"`
	DiskPercent  LooseNumber  `json:"dp"`
	DiskTemp     LooseNumber  `json:"dt"`
	Bandwidth    LooseNumber  `json:"bb"`
	Bytes        LooseNumber  `json:"b"`
	Uptime       LooseNumber  `json:"u"`
	OS           LooseNumber  `json:"os"`
	Containers   LooseNumber  `json:"ct"`
}

// UnmarshalJSON treats anything that isn't a JSON object as an empty info.
func (s *SystemInfo) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*s = SystemInfo{}
		return nil
	}
	type plain SystemInfo
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*s = SystemInfo{}
		return nil
	}
	*s = SystemInfo(p)
	return nil
}

// LooseString is an optional string that also accepts JSON numbers.
// Values of any other type are recorded as absent.
type LooseString struct {
	Value string
	Valid bool
}

func (l *LooseString) UnmarshalJSON(data []byte) error {
	*l = LooseString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*l = LooseString{Value: s, Valid: true}
		}
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*l = LooseString{Value: string(data), Valid: true}
	}
	return nil
}

// Present reports whether the value is set and non-empty.
func (l LooseString) Present() bool {
	return l.Valid && l.Value != ""
}

// Or returns the value when present, otherwise fallback.
func (l LooseString) Or(fallback string) string {
	if l.Present() {
		return l.Value
	}
	return fallback
}

// LooseNumber is an optional finite number that also accepts numeric strings.
// Values of any other type are recorded as absent.
type LooseNumber struct {
	Value float64
	Valid bool
}

func (l *LooseNumber) UnmarshalJSON(data []byte) error {
	*l = LooseNumber{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*l = LooseNumber{Value: f, Valid: true}
	return nil
}

// Or returns the value when present and non-zero, otherwise fallback.
func (l LooseNumber) Or(fallback float64) float64 {
	if l.Valid && l.Value != 0 {
		return l.Value
	}
	return fallback
}

// LooseNumbers is an optional list of numbers. A non-array is absent;
// non-numeric elements decode as 0.
type LooseNumbers []float64

func (l *LooseNumbers) UnmarshalJSON(data []byte) error {
	*l = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	var items []LooseNumber
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	out := make(LooseNumbers, len(items))
	for i, item := range items {
		out[i] = item.Or(0)
	}
	*l = out
	return nil
}

// listResponse is the PocketBase paginated list envelope.
type listResponse struct {
	Page       int            `json:"page"`
	PerPage    int            `json:"perPage"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
	Items      []SystemRecord `json:"items"`
}

// authRequest is the body of auth-with-password.
type authRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// authResponse is the part of the auth-with-password response we keep.
type authResponse struct {
	Token string `json:"token"`
}

// errorResponse is the PocketBase error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
