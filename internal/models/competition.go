package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/tightlines/internal/schedule"
)

// Competition represents a fishing match or festival
type Competition struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Title       string          `db:"title" json:"title" validate:"required,min=1,max=255"`
	Venue       string          `db:"venue" json:"venue" validate:"required"`
	Description string          `db:"description" json:"description"`
	Date        string          `db:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Time        string          `db:"time" json:"time" validate:"omitempty,datetime=15:04"`
	EndDate     string          `db:"end_date" json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndTime     string          `db:"end_time" json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	EntryFee    decimal.Decimal `db:"entry_fee" json:"entryFee"`
	MaxAnglers  int             `db:"max_anglers" json:"maxAnglers" validate:"gte=0"`
	Published   bool            `db:"published" json:"published"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// Schedule projects the fields the status resolver reads
func (c *Competition) Schedule() schedule.CompetitionSchedule {
	return schedule.NewSchedule(c.Date, c.Time, c.EndDate, c.EndTime)
}

// CompetitionView is a competition with its status derived at one instant
type CompetitionView struct {
	*Competition
	Status schedule.Status `json:"status"`
	// StartsAt and EndsAt are nil when the schedule failed validation
	StartsAt *time.Time `json:"startsAt,omitempty"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
	// ScheduleError flags a record that needs admin correction
	ScheduleError string `json:"scheduleError,omitempty"`
	// InvalidField names the schedule field that failed, e.g. "endTime"
	InvalidField string `json:"invalidField,omitempty"`
}

// CompetitionFilter narrows competition listings
type CompetitionFilter struct {
	Status        schedule.Status
	Venue         string
	PublishedOnly bool
	Limit         int
	Offset        int
}
