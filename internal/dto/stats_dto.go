package dto

import "time"

// BasicStatsResponse holds the plain counts shown on the admin panel.
type BasicStatsResponse struct {
	Students          int64 `json:"students"`
	Lecturers         int64 `json:"lecturers"`
	Admins            int64 `json:"admins"`
	Courses           int64 `json:"courses"`
	ComplaintsOpen    int64 `json:"complaints_open"`
	ComplaintsTotal   int64 `json:"complaints_total"`
	AttendanceCount   int64 `json:"attendance_count"`
	AttendanceRecords int64 `json:"attendance_records"`
}

// FullStatsResponse extends the basic counts with the attendance rate,
// expressed as a whole percentage. The rate is 0 when no records exist.
type FullStatsResponse struct {
	TotalUsers             int64     `json:"total_users"`
	Students               int64     `json:"students"`
	Lecturers              int64     `json:"lecturers"`
	Courses                int64     `json:"courses"`
	OpenComplaints         int64     `json:"open_complaints"`
	TotalAttendanceRecords int64     `json:"total_attendance_records"`
	AttendanceRate         int       `json:"attendance_rate"`
	GeneratedAt            time.Time `json:"generated_at"`
	CacheHit               bool      `json:"cache_hit"`
}
