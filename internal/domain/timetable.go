package domain

// SolveRequest: 一次排课求解的输入，参数为零值时使用默认值
type SolveRequest struct {
	Courses        []string `json:"courses"`
	Timeslots      int32    `json:"timeslots"`
	Variant        string   `json:"variant"`
	PopulationSize int32    `json:"populationSize"`
	MaxGenerations int32    `json:"maxGenerations"`
	MutationRate   *float64 `json:"mutationRate"` // 0 是合法的变异概率，因此用指针区分未设置
	TournamentSize int32    `json:"tournamentSize"`
	Seed           *int64   `json:"seed"`
}

// TimetableEntry: 某门课程被安排的时间段（从 0 开始）
type TimetableEntry struct {
	Course    string `json:"course"`
	Timeslots []int  `json:"timeslots"`
}

type SolveResult struct {
	Variant            string           `json:"variant"`
	Chromosome         string           `json:"chromosome"`
	Fitness            int              `json:"fitness"`
	OverlapPenalty     int              `json:"overlapPenalty"`
	CourseCountPenalty int              `json:"courseCountPenalty"`
	Feasible           bool             `json:"feasible"` // 每门课程恰好一个时间段且没有时间段冲突
	Generations        int              `json:"generations"`
	Timetable          []TimetableEntry `json:"timetable"`
	DurationMS         int64            `json:"durationMs"`
}
