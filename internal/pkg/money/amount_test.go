package money

import (
	"encoding/json"
	"testing"
)

func TestAmountEqual_DifferentScale(t *testing.T) {
	a, _ := ParseAmount("100.10")
	b, _ := ParseAmount("100.100000")
	if !a.Equal(b) {
		t.Fatal("amounts should be numerically equal")
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "1,50"} {
		if _, err := ParseAmount(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := map[string]string{
		"0.005":   "0.01",
		"0.004":   "0.00",
		"-0.005":  "-0.01",
		"37.5":    "37.50",
		"11.245":  "11.25",
		"4.16666": "4.17",
	}
	for in, want := range cases {
		if got := MustParse(in).String(); got != want {
			t.Fatalf("%s: expected %s, got %s", in, want, got)
		}
	}
}

func TestQuoIntKeepsExactValue(t *testing.T) {
	hourly := FromInt(100).QuoInt(24)
	if !hourly.MulInt(24).Equal(FromInt(100)) {
		t.Fatalf("expected exact division, got %s", hourly.MulInt(24))
	}
	if !FromInt(5).QuoInt(0).IsZero() {
		t.Fatal("division by zero should yield zero")
	}
}

func TestAmountJSON(t *testing.T) {
	var payload struct {
		Number Amount  `json:"number"`
		Text   Amount  `json:"text"`
		Null   *Amount `json:"null"`
	}
	if err := json.Unmarshal([]byte(`{"number":150,"text":"6.25","null":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Number.Equal(FromInt(150)) {
		t.Fatalf("number: got %s", payload.Number)
	}
	if !payload.Text.Equal(MustParse("6.25")) {
		t.Fatalf("text: got %s", payload.Text)
	}
	if payload.Null != nil {
		t.Fatal("null should leave the pointer nil")
	}

	out, err := json.Marshal(map[string]Amount{"total": MustParse("37.5")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"total":37.50}` {
		t.Fatalf("unexpected json %s", out)
	}
}
