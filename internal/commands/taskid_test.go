package commands

import (
	"errors"
	"testing"
)

func TestParseTaskID(t *testing.T) {
	cases := []struct {
		args    []string
		want    int32
		wantErr string
	}{
		{args: []string{"5"}, want: 5},
		{args: []string{"#12"}, want: 12},
		{args: []string{"2147483647"}, want: 2147483647},
		{args: []string{"0"}, wantErr: "invalid task id: 0"},
		{args: []string{"2147483648"}, wantErr: "invalid task id: 2147483648"},
		{args: []string{"a1"}, wantErr: "invalid task id: a1"},
		{args: []string{"1", "2"}, wantErr: "unexpected argument: 2"},
	}
	for _, tc := range cases {
		got, err := ParseTaskID(tc.args)
		if tc.wantErr != "" {
			if err == nil || err.Error() != tc.wantErr {
				t.Errorf("ParseTaskID(%q): expected error %q, got %v", tc.args, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTaskID(%q): unexpected error: %v", tc.args, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTaskID(%q): expected %d, got %d", tc.args, tc.want, got)
		}
	}
}

func TestParseTaskID_Required(t *testing.T) {
	if _, err := ParseTaskID(nil); !errors.Is(err, ErrTaskIDRequired) {
		t.Errorf("expected ErrTaskIDRequired, got %v", err)
	}
}
