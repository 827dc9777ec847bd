package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utc(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveCivilDateTimeAcrossDST(t *testing.T) {
	loc := Default().Location()

	tests := []struct {
		name     string
		date     string
		clock    string
		expected string
	}{
		{"winter is GMT", "2024-01-15", "10:00", "2024-01-15T10:00:00Z"},
		{"summer is BST", "2024-06-01", "10:00", "2024-06-01T09:00:00Z"},
		{"spring forward before change", "2024-03-31", "00:30", "2024-03-31T00:30:00Z"},
		{"spring forward after change", "2024-03-31", "10:00", "2024-03-31T09:00:00Z"},
		{"spring forward gap shifts forward", "2024-03-31", "01:30", "2024-03-31T01:30:00Z"},
		{"fall back before change", "2024-10-27", "00:30", "2024-10-26T23:30:00Z"},
		{"fall back after change", "2024-10-27", "10:00", "2024-10-27T10:00:00Z"},
		{"end of day", "2024-03-10", "23:59", "2024-03-10T23:59:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseCivilDate(tt.date)
			require.NoError(t, err)
			clock, err := ParseCivilTime(tt.clock)
			require.NoError(t, err)

			got, err := ResolveCivilDateTime(date, clock, loc)
			require.NoError(t, err)
			assert.True(t, utc(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestResolveCivilDateTimeRejectsRolloverDate(t *testing.T) {
	_, err := ResolveCivilDateTime(CivilDate{Year: 2024, Month: time.February, Day: 30}, CivilTime{Hour: 9}, Default().Location())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSchedule))
}

func TestParseCivilTimeValidation(t *testing.T) {
	valid := []string{"00:00", "09:05", "23:59", " 12:30 "}
	for _, v := range valid {
		_, err := ParseCivilTime(v)
		assert.NoError(t, err, v)
	}

	invalid := []string{"", "9:00", "24:00", "10:60", "10:00:00", "noon", "1000"}
	for _, v := range invalid {
		_, err := ParseCivilTime(v)
		require.Error(t, err, v)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve), v)
		assert.Equal(t, "time", ve.Field)
		assert.True(t, errors.Is(err, ErrInvalidSchedule))
	}
}

func TestParseCivilDateValidation(t *testing.T) {
	d, err := ParseCivilDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, CivilDate{Year: 2024, Month: time.February, Day: 29}, d)
	assert.Equal(t, "2024-02-29", d.String())

	for _, v := range []string{"", "2023-02-29", "2024-13-01", "01/06/2024", "2024-6-1"} {
		_, err := ParseCivilDate(v)
		assert.Error(t, err, v)
	}
}

func TestResolveEndPrecedence(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		schedule CompetitionSchedule
		expected string
	}{
		{
			name:     "end date and end time",
			schedule: CompetitionSchedule{Date: "2024-06-01", Time: "08:00", EndDate: "2024-06-02", EndTime: "16:00"},
			expected: "2024-06-02T15:00:00Z",
		},
		{
			name:     "end date only",
			schedule: CompetitionSchedule{Date: "2024-06-01", Time: "08:00", EndDate: "2024-06-02"},
			expected: "2024-06-02T22:59:00Z",
		},
		{
			name:     "end time only",
			schedule: CompetitionSchedule{Date: "2024-06-01", Time: "08:00", EndTime: "14:00"},
			expected: "2024-06-01T13:00:00Z",
		},
		{
			name:     "neither",
			schedule: CompetitionSchedule{Date: "2024-03-10", Time: "09:00"},
			expected: "2024-03-10T23:59:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, err := r.ResolveEnd(tt.schedule)
			require.NoError(t, err)
			assert.True(t, utc(tt.expected).Equal(end), "expected %s, got %s", tt.expected, end)
		})
	}
}

func TestStartTimeDefaultsToMidnight(t *testing.T) {
	s := NewSchedule("2024-01-20", "", "", "")
	assert.Equal(t, DefaultStartTime, s.Time)

	start, err := Default().ResolveStart(CompetitionSchedule{Date: "2024-01-20"})
	require.NoError(t, err)
	assert.True(t, utc("2024-01-20T00:00:00Z").Equal(start))
}

func TestStatusBoundaries(t *testing.T) {
	s := CompetitionSchedule{Date: "2024-06-01", Time: "10:00", EndTime: "14:00"}
	start := utc("2024-06-01T09:00:00Z")
	end := utc("2024-06-01T13:00:00Z")

	tests := []struct {
		name     string
		now      time.Time
		expected Status
	}{
		{"one second before start", utc("2024-06-01T08:59:59Z"), StatusUpcoming},
		{"exactly at start", start, StatusLive},
		{"mid competition", utc("2024-06-01T11:30:00Z"), StatusLive},
		{"exactly at end", end, StatusLive},
		{"one second after end", end.Add(time.Second), StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetStatus(s, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStatusMultiDay(t *testing.T) {
	s := CompetitionSchedule{Date: "2024-07-06", Time: "07:00", EndDate: "2024-07-07"}

	got, err := GetStatus(s, utc("2024-07-07T12:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, StatusLive, got)

	got, err = GetStatus(s, utc("2024-07-07T23:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got)
}

func TestStatusInvalidSchedule(t *testing.T) {
	r := Default()
	now := utc("2024-06-01T12:00:00Z")

	_, err := r.Status(CompetitionSchedule{Date: "2024-06-01", Time: "25:00"}, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSchedule))

	_, err = r.Status(CompetitionSchedule{Date: "2024-06-01", EndTime: "late"}, now)
	require.Error(t, err)

	assert.Equal(t, StatusUnknown, r.SafeStatus(CompetitionSchedule{Date: "June 1st"}, now))
	assert.Equal(t, StatusLive, r.SafeStatus(CompetitionSchedule{Date: "2024-06-01"}, now))
}

func TestStatusErrorNamesScheduleField(t *testing.T) {
	r := Default()
	now := utc("2024-06-01T12:00:00Z")

	tests := []struct {
		name  string
		s     CompetitionSchedule
		field string
	}{
		{"bad start date", CompetitionSchedule{Date: "June 1st"}, "date"},
		{"bad start time", CompetitionSchedule{Date: "2024-06-01", Time: "25:00"}, "time"},
		{"bad end time", CompetitionSchedule{Date: "2024-06-01", EndTime: "late"}, "endTime"},
		{"bad end date", CompetitionSchedule{Date: "2024-06-01", EndDate: "2024-13-01"}, "endDate"},
		{"bad end time on end date", CompetitionSchedule{Date: "2024-06-01", EndDate: "2024-06-02", EndTime: "9pm"}, "endTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Status(tt.s, now)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.field, InvalidField(err))
			assert.True(t, errors.Is(err, ErrInvalidSchedule))
		})
	}

	assert.Equal(t, "unknown", InvalidField(errors.New("boom")))
}

func TestClassifyAllLeavesReportingToCaller(t *testing.T) {
	log, hook := test.NewNullLogger()
	r, err := NewResolver(DefaultZone, log)
	require.NoError(t, err)

	results := r.ClassifyAll([]CompetitionSchedule{{Date: "bad"}, {Date: "2024-06-01", EndTime: "late"}}, utc("2024-06-01T12:00:00Z"))
	require.Len(t, results, 2)
	assert.Equal(t, "endTime", InvalidField(results[1].Err))
	assert.Empty(t, hook.AllEntries())

	assert.Equal(t, StatusUnknown, r.SafeStatus(CompetitionSchedule{Date: "bad"}, utc("2024-06-01T12:00:00Z")))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "date", hook.LastEntry().Data["field"])
}

func TestClassifyAllUsesOneInstant(t *testing.T) {
	now := utc("2024-06-01T12:00:00Z")
	results := Default().ClassifyAll([]CompetitionSchedule{
		{Date: "2024-05-01"},
		{Date: "2024-06-01", Time: "08:00"},
		{Date: "2024-07-01"},
		{Date: "bad"},
	}, now)

	require.Len(t, results, 4)
	assert.Equal(t, StatusCompleted, results[0].Status)
	assert.Equal(t, StatusLive, results[1].Status)
	assert.Equal(t, StatusUpcoming, results[2].Status)
	assert.Equal(t, StatusUnknown, results[3].Status)
	assert.Error(t, results[3].Err)
}

func TestNewResolverUnknownZone(t *testing.T) {
	_, err := NewResolver("Atlantis/Lost_City", nil)
	assert.Error(t, err)

	r, err := NewResolver("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultZone, r.Location().String())
}

func TestStatusRankAndParse(t *testing.T) {
	assert.Less(t, StatusLive.Rank(), StatusUpcoming.Rank())
	assert.Less(t, StatusUpcoming.Rank(), StatusCompleted.Rank())
	assert.Less(t, StatusCompleted.Rank(), StatusUnknown.Rank())

	s, ok := ParseStatus("live")
	assert.True(t, ok)
	assert.Equal(t, StatusLive, s)

	_, ok = ParseStatus("finished")
	assert.False(t, ok)
}
