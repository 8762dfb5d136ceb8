package get_schedule

import "time"

// DailyRequest расписание терапевта на один день
type DailyRequest struct {
	TherapistID int64
	Date        time.Time
}

// WeeklyRequest расписание терапевта на семь дней начиная со StartDate
type WeeklyRequest struct {
	TherapistID int64
	StartDate   time.Time
}

// OverviewRequest расписание всех активных терапевтов на дату
type OverviewRequest struct {
	Date time.Time
}

// Settings параметры построения расписания
type Settings struct {
	Location           *time.Location // Часовой пояс клиники
	MaxBookingDuration time.Duration  // Потолок длительности; длиннее = испорченные данные
}
