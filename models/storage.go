package models

// DocumentName identifies one persisted JSON document
type DocumentName string

const (
	MeetingsDocument DocumentName = "meetings"
)
