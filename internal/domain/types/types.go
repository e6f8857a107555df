// Package types contains the response types shared by the service and its transports.
package types

// Answer is the reply to one question. Answer is never empty.
type Answer struct {
	Answer          string   `json:"answer"`
	MatchedMetric   string   `json:"matchedMetric,omitempty"`
	MatchedEntities []string `json:"matchedEntities"`
	RequestID       string   `json:"requestId"`
	// Outcome is the template key or pipeline result that produced Answer.
	Outcome string `json:"outcome,omitempty"`
}

// Question is a chat request.
type Question struct {
	Question    string `json:"question"`
	UserContext string `json:"userContext,omitempty"`
}
