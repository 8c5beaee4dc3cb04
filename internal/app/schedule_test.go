package app

import (
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/shortrun/internal/schtasks"
)

// setTriggerFlags sets the schedule flag variables for one test case and
// restores them afterwards.
func setTriggerFlags(t *testing.T, at, day, date string, every, idle int) {
	t.Helper()
	oldAt, oldDay, oldDate := scheduleAt, scheduleDay, scheduleDate
	oldEvery, oldIdle := scheduleEvery, scheduleIdle
	scheduleAt, scheduleDay, scheduleDate = at, day, date
	scheduleEvery, scheduleIdle = every, idle
	t.Cleanup(func() {
		scheduleAt, scheduleDay, scheduleDate = oldAt, oldDay, oldDate
		scheduleEvery, scheduleIdle = oldEvery, oldIdle
	})
}

func TestBuildTrigger(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		at    string
		day   string
		date  string
		every int
		idle  int
		want  schtasks.Trigger
	}{
		{
			name: "logon",
			kind: "logon",
			want: schtasks.Trigger{Kind: schtasks.KindLogon},
		},
		{
			name: "daily with time",
			kind: "daily",
			at:   "09:00",
			want: schtasks.Trigger{Kind: schtasks.KindDaily, At: schtasks.TimeOfDay{Hour: 9}},
		},
		{
			name: "daily defaults to midnight",
			kind: "DAILY",
			want: schtasks.Trigger{Kind: schtasks.KindDaily},
		},
		{
			name:  "minute interval",
			kind:  "minute",
			every: 15,
			want:  schtasks.Trigger{Kind: schtasks.KindEveryMinute, EveryMinutes: 15},
		},
		{
			name:  "hourly interval",
			kind:  "hourly",
			every: 6,
			want:  schtasks.Trigger{Kind: schtasks.KindHourly, EveryHours: 6},
		},
		{
			name: "weekly monday",
			kind: "weekly",
			day:  "mon",
			at:   "08:30",
			want: schtasks.Trigger{Kind: schtasks.KindWeekly, Weekday: time.Monday, At: schtasks.TimeOfDay{Hour: 8, Minute: 30}},
		},
		{
			name: "monthly first",
			kind: "monthly",
			day:  "1",
			at:   "09:00",
			want: schtasks.Trigger{Kind: schtasks.KindMonthly, MonthDay: 1, At: schtasks.TimeOfDay{Hour: 9}},
		},
		{
			name: "once",
			kind: "once",
			date: "2030-09-01 09:30",
			want: schtasks.Trigger{Kind: schtasks.KindOnce, DateTime: time.Date(2030, 9, 1, 9, 30, 0, 0, time.Local)},
		},
		{
			name: "onidle",
			kind: "onidle",
			idle: 10,
			want: schtasks.Trigger{Kind: schtasks.KindOnIdle, IdleMinutes: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTriggerFlags(t, tt.at, tt.day, tt.date, tt.every, tt.idle)

			got, err := buildTrigger(tt.kind)
			if err != nil {
				t.Fatalf("buildTrigger(%q) failed: %v", tt.kind, err)
			}
			if got != tt.want {
				t.Errorf("buildTrigger(%q) = %+v, want %+v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestBuildTriggerErrors(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		at      string
		day     string
		date    string
		wantMsg string
	}{
		{name: "unknown kind", kind: "fortnightly", wantMsg: "unknown trigger"},
		{name: "bad time", kind: "daily", at: "25:00", wantMsg: ""},
		{name: "bad weekday", kind: "weekly", day: "moonday", wantMsg: "SUN..SAT"},
		{name: "bad month day", kind: "monthly", day: "first", wantMsg: "--day 1-31"},
		{name: "bad once date", kind: "once", date: "tomorrow", wantMsg: "--date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTriggerFlags(t, tt.at, tt.day, tt.date, 0, 0)

			_, err := buildTrigger(tt.kind)
			if err == nil {
				t.Fatalf("buildTrigger(%q) should fail", tt.kind)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	for i, code := range []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"} {
		wd, err := parseWeekday(code)
		if err != nil {
			t.Errorf("parseWeekday(%q) failed: %v", code, err)
		}
		if int(wd) != i {
			t.Errorf("parseWeekday(%q) = %v, want weekday %d", code, wd, i)
		}
	}
}
