package media

import (
	"strings"
	"testing"
	"time"

	"github.com/sebastianschieke/interviewline/internal/convo"
)

func testConfig() Config {
	return Config{
		AccountSID:      "AC123",
		AuthToken:       "token",
		CallbackBaseURL: "https://calls.example.com",
		VoiceName:       "Polly.Vicki",
		Language:        "en-US",
	}
}

func TestListenTwiML(t *testing.T) {
	timeouts := convo.SilenceTimeouts{Initial: 10 * time.Second, End: 2 * time.Second}
	doc, err := listenTwiML(testConfig(), "ctx-42", []string{"Do you consent?"}, timeouts)
	if err != nil {
		t.Fatalf("listenTwiML: %v", err)
	}
	wants := []string{
		`input="speech"`,
		"https://calls.example.com/twilio/gather/ctx-42",
		`timeout="10"`,
		`speechTimeout="2"`,
		"Do you consent?",
		"Polly.Vicki",
		"en-US",
		"<Redirect",
		"?timeout=1",
	}
	for _, want := range wants {
		if !strings.Contains(doc, want) {
			t.Fatalf("twiml missing %q:\n%s", want, doc)
		}
	}
}

func TestListenTwiML_MultipleLinesInOrder(t *testing.T) {
	timeouts := convo.SilenceTimeouts{Initial: 10 * time.Second, End: time.Second}
	doc, err := listenTwiML(testConfig(), "ctx-1", []string{"Sure, I can help.", "Thanks!"}, timeouts)
	if err != nil {
		t.Fatalf("listenTwiML: %v", err)
	}
	first := strings.Index(doc, "Sure, I can help.")
	second := strings.Index(doc, "Thanks!")
	gatherEnd := strings.Index(doc, "</Gather>")
	if first < 0 || second < 0 || gatherEnd < 0 {
		t.Fatalf("lines or gather missing:\n%s", doc)
	}
	if first > second {
		t.Fatalf("lines out of order:\n%s", doc)
	}
	if second > gatherEnd {
		t.Fatalf("lines must play inside the gather:\n%s", doc)
	}
	if strings.Count(doc, "<Say") != 2 {
		t.Fatalf("expected one Say per line:\n%s", doc)
	}
}

func TestListenTwiML_NoLines(t *testing.T) {
	timeouts := convo.SilenceTimeouts{Initial: 10 * time.Second, End: time.Second}
	doc, err := listenTwiML(testConfig(), "ctx-1", nil, timeouts)
	if err != nil {
		t.Fatalf("listenTwiML: %v", err)
	}
	if strings.Contains(doc, "<Say") {
		t.Fatalf("silent listen must not speak:\n%s", doc)
	}
}

func TestHangupTwiML(t *testing.T) {
	doc, err := hangupTwiML(testConfig(), "Goodbye and thank you!")
	if err != nil {
		t.Fatalf("hangupTwiML: %v", err)
	}
	sayIdx := strings.Index(doc, "Goodbye and thank you!")
	hangIdx := strings.Index(doc, "<Hangup")
	if sayIdx < 0 || hangIdx < 0 {
		t.Fatalf("twiml missing say or hangup:\n%s", doc)
	}
	if sayIdx > hangIdx {
		t.Fatalf("farewell must play before the hangup:\n%s", doc)
	}
}

func TestSeconds(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{10 * time.Second, "10"},
		{2 * time.Second, "2"},
		{time.Second, "1"},
		{500 * time.Millisecond, "1"},
		{0, "1"},
	}
	for _, tc := range cases {
		if got := seconds(tc.in); got != tc.want {
			t.Fatalf("seconds(%v): got %s, want %s", tc.in, got, tc.want)
		}
	}
}
