package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClockTime(t *testing.T) {
	t.Parallel()

	require.Equal(t, "15:00", ClockTime("15:00:00"))
	require.Equal(t, "11:30", ClockTime(" 11:30 "))
	require.Equal(t, "noon", ClockTime("noon"))
}

func TestLabelledAndUnits(t *testing.T) {
	t.Parallel()

	require.Equal(t, "대표 : 홍길동", Labelled("대표", "홍길동"))
	require.Equal(t, "100%", Percent(100))
	require.Equal(t, "12.5%", Percent(12.5))
	require.Equal(t, "4명", Count(4, "명"))
	require.Equal(t, "0s", Seconds(0))
	require.Equal(t, "0.3s", Seconds(float64(3)/10))
}
