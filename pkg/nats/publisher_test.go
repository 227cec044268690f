package nats

import "testing"

func TestSubjectFor(t *testing.T) {
	cases := []struct {
		eventType string
		want      string
	}{
		{"EVALUATION_COMPLETED", "evaluation.completed"},
		{"EVALUATION_SESSION_EXPIRED", "evaluation.session.expired"},
		{"COMPLETED", "evaluation.completed"},
	}
	for _, tc := range cases {
		if got := SubjectFor(tc.eventType); got != tc.want {
			t.Errorf("SubjectFor(%q) = %q, want %q", tc.eventType, got, tc.want)
		}
	}
}
