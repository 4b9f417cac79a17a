package pocketbase

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// safeBuffer is a bytes.Buffer usable as concurrent log output.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func TestLooseNumber_Decode(t *testing.T) {
	tests := []struct {
		in   string
		want LooseNumber
	}{
		{`12.5`, LooseNumber{Value: 12.5, Valid: true}},
		{`0`, LooseNumber{Value: 0, Valid: true}},
		{`-3`, LooseNumber{Value: -3, Valid: true}},
		{`"42"`, LooseNumber{Value: 42, Valid: true}},
		{`" 7.5 "`, LooseNumber{Value: 7.5, Valid: true}},
		{`"NaN"`, LooseNumber{}},
		{`"abc"`, LooseNumber{}},
		{`null`, LooseNumber{}},
		{`true`, LooseNumber{}},
		{`{"x":1}`, LooseNumber{}},
		{`[1,2]`, LooseNumber{}},
	}
	for _, tt := range tests {
		var got LooseNumber
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("%s: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestLooseString_Decode(t *testing.T) {
	tests := []struct {
		in   string
		want LooseString
	}{
		{`"nas"`, LooseString{Value: "nas", Valid: true}},
		{`""`, LooseString{Value: "", Valid: true}},
		{`45876`, LooseString{Value: "45876", Valid: true}},
		{`null`, LooseString{}},
		{`false`, LooseString{}},
		{`["a"]`, LooseString{}},
	}
	for _, tt := range tests {
		var got LooseString
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("%s: unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if (LooseString{Value: "", Valid: true}).Or("Unknown") != "Unknown" {
		t.Error("empty string must fall back")
	}
}

func TestLooseNumbers_Decode(t *testing.T) {
	tests := []struct {
		in   string
		want LooseNumbers
	}{
		{`[1.5, "2", null, "x"]`, LooseNumbers{1.5, 2, 0, 0}},
		{`[]`, LooseNumbers{}},
		{`"1 2 3"`, nil},
		{`null`, nil},
		{`{"a":1}`, nil},
	}
	for _, tt := range tests {
		var got LooseNumbers
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("%s: unexpected error %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestSystemRecord_ToleratesOddInfo(t *testing.T) {
	inputs := []string{
		`{"id":"a","info":null}`,
		`{"id":"a","info":"not-an-object"}`,
		`{"id":"a","info":[1,2,3]}`,
		`{"id":"a"}`,
	}
	for _, in := range inputs {
		var rec SystemRecord
		if err := json.Unmarshal([]byte(in), &rec); err != nil {
			t.Errorf("%s: unexpected error %v", in, err)
			continue
		}
		if diff := cmp.Diff(SystemInfo{}, rec.Info); diff != "" {
			t.Errorf("%s: expected empty info (-want +got):\n%s", in, diff)
		}
	}
}

func TestSystemRecord_WrongTypedInfoFields(t *testing.T) {
	in := `{"id":"a","info":{"h":42,"cpu":"high","c":"8","la":"busy","u":true}}`

	var rec SystemRecord
	if err := json.Unmarshal([]byte(in), &rec); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if rec.Info.Hostname.Or("Unknown") != "42" {
		t.Errorf("numeric hostname should be kept as text, got %+v", rec.Info.Hostname)
	}
	if rec.Info.CPU.Valid {
		t.Errorf("non-numeric cpu should be absent, got %+v", rec.Info.CPU)
	}
	if rec.Info.Cores.Or(0) != 8 {
		t.Errorf("numeric string cores should decode, got %+v", rec.Info.Cores)
	}
	if rec.Info.LoadAvg != nil {
		t.Errorf("non-array la should be absent, got %v", rec.Info.LoadAvg)
	}
	if rec.Info.Uptime.Valid {
		t.Errorf("boolean uptime should be absent, got %+v", rec.Info.Uptime)
	}
}
