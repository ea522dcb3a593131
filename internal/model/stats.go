package model

// DailyStats is one day's platform activity snapshot, maintained by the
// activity worker.
type DailyStats struct {
	Day              string `json:"day"`
	SessionsStarted  int64  `json:"sessions_started"`
	SessionsEnded    int64  `json:"sessions_ended"`
	AnswersSubmitted int64  `json:"answers_submitted"`
}
