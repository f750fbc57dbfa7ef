package output

import (
	"bytes"
	"testing"
	"time"

	"todo/internal/service"
)

func TestFormatTask(t *testing.T) {
	cases := []struct {
		task service.Task
		want string
	}{
		{service.Task{ID: 1, Title: "Buy milk"}, "   1  [ ] Buy milk\n"},
		{service.Task{ID: 254, Title: "Walk", Completed: true}, " 254  [x] Walk\n"},
		{service.Task{ID: 3, Title: "two\nlines"}, "   3  [ ] two lines\n"},
		{service.Task{ID: 4, Title: "  "}, "   4  [ ] (untitled)\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		FormatTask(&buf, tc.task)
		if buf.String() != tc.want {
			t.Errorf("expected %q, got %q", tc.want, buf.String())
		}
	}
}

func TestFormatTaskDetail_NoDescription(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskDetail(&buf, service.Task{
		ID: 1, OwnerID: 5, Title: "Buy milk", Completed: true,
		CreatedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
	})

	want := "id:          1\ntitle:       Buy milk\ncompleted:   yes\nowner:       5\ncreated:     2024-05-01 06:00 UTC\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatStatus(t *testing.T) {
	var buf bytes.Buffer
	FormatStatus(&buf, service.Status{Seeded: false, NextID: 1, Count: 0})

	want := "seeded:  no\nnext id: 1\ntasks:   0\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
