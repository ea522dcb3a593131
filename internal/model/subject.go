package model

import "time"

// Subject represents an academic subject (e.g. Physics).
type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        *string   `json:"code,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Code        *string `json:"code" binding:"omitempty,max=20"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// SubjectPatch enumerates the mutable subject fields.
type SubjectPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Code        *string `json:"code" binding:"omitempty,max=20"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// Empty reports whether the patch changes nothing.
func (p *SubjectPatch) Empty() bool {
	return p.Name == nil && p.Code == nil && p.Description == nil
}

// Topic represents a topic within a subject (e.g. Kinematics).
type Topic struct {
	ID          int64     `json:"id"`
	SubjectID   int64     `json:"subject_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateTopicRequest is the payload for creating a topic.
type CreateTopicRequest struct {
	SubjectID   int64   `json:"subject_id" binding:"required,min=1"`
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// TopicPatch enumerates the mutable topic fields.
type TopicPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// Empty reports whether the patch changes nothing.
func (p *TopicPatch) Empty() bool {
	return p.Name == nil && p.Description == nil
}
