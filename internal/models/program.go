package models

// Workout is one entry of the program: its key and its raw content lines.
type Workout struct {
	Key     WorkoutKey `json:"key"`
	Content []string   `json:"content"`
}

// Block is a sequential program phase ("month") with its workouts in catalog order.
type Block struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Workouts []Workout `json:"workouts"`
}

// SetLog is one logged set for an exercise. Timestamp is Unix milliseconds at creation.
type SetLog struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Timestamp int64   `json:"timestamp"`
}
