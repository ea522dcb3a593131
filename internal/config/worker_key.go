package config

type WorkerKeyStruct struct {
	ActivityEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ActivityEventsQueue: "activity_events_queue",
}
