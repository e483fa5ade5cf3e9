package formatter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	Now = func() time.Time { return now }
	t.Cleanup(func() { Now = time.Now })

	tests := []struct {
		ago  time.Duration
		at   time.Time
		want string
	}{
		{ago: 30 * time.Second, want: "just now"},
		{ago: -time.Hour, want: "just now"},
		{ago: time.Minute, want: "1 minute ago"},
		{ago: 59 * time.Minute, want: "59 minutes ago"},
		{ago: time.Hour, want: "1 hour ago"},
		{ago: 23 * time.Hour, want: "23 hours ago"},
		{ago: 25 * time.Hour, want: "yesterday"},
		{ago: 3 * 24 * time.Hour, want: "3 days ago"},
		{ago: 7 * 24 * time.Hour, want: "1 week ago"},
		{ago: 34 * 24 * time.Hour, want: "4 weeks ago"},
		{at: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), want: "2 months ago"},
		{at: time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC), want: "10 months ago"},
		{at: time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC), want: "1 year ago"},
		{at: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), want: "4 years ago"},
	}

	for _, tt := range tests {
		at := tt.at
		if at.IsZero() {
			at = now.Add(-tt.ago)
		}
		assert.Equal(t, tt.want, TimeAgo(at), at.String())
	}
}

func TestTimeAgoString(t *testing.T) {
	assert.Equal(t, "", TimeAgoString("not a date"))
	assert.Equal(t, "just now", TimeAgoString(time.Now().UTC().Format(time.RFC3339)))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.50", Money(decimal.RequireFromString("12.5")))
	assert.Equal(t, "$0.00", Money(decimal.Zero))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a long ...", Truncate("a long\ncaption here", 10))
	assert.Equal(t, "héllo", Truncate("héllo", 5))
}

func TestCountAndOrDash(t *testing.T) {
	assert.Equal(t, "1 unit", Count(1, "unit"))
	assert.Equal(t, "3 units", Count(3, "unit"))
	assert.Equal(t, "-", OrDash("  "))
	assert.Equal(t, "x", OrDash("x"))
}
