package store

import (
	"database/sql"
	"time"
)

// ActivityRow is one library listing entry. The point series is loaded
// separately since the list view never needs it.
type ActivityRow struct {
	ID        int64
	Name      string
	Source    string
	StartTime time.Time
	Duration  time.Duration
	Distance  float64 // meters
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
