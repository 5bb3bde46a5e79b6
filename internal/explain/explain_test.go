package explain

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	want := []string{"jitter", "reallocation", "saturation", "sync"}
	got := Topics()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("topics = %v", got)
	}
	for _, name := range got {
		text, err := Topic(name)
		if err != nil || text == "" {
			t.Fatalf("topic %s: %q %v", name, text, err)
		}
	}
}

func TestUnknownTopic(t *testing.T) {
	_, err := Topic("weather")
	if err == nil || !strings.Contains(err.Error(), "saturation") {
		t.Fatalf("expected error listing topics, got %v", err)
	}
}
