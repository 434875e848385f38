package dto

// SimulationRequest seeds a demo class with generated data.
type SimulationRequest struct {
	ClassName   string `json:"class_name" validate:"omitempty,min=1,max=64"`
	Students    int    `json:"students" validate:"omitempty,min=2,max=40"`
	Subjects    int    `json:"subjects" validate:"omitempty,min=1,max=12"`
	HistoryDays int    `json:"history_days" validate:"omitempty,min=0,max=120"`
	Seed        *int64 `json:"seed"`
}

// SimulationResponse summarizes what the seeder generated.
type SimulationResponse struct {
	ClassID        string `json:"class_id"`
	ClassName      string `json:"class_name"`
	Students       int    `json:"students"`
	Subjects       int    `json:"subjects"`
	Teachers       int    `json:"teachers"`
	ScheduleSlots  int    `json:"schedule_slots"`
	Interrogations int    `json:"interrogations"`
}
