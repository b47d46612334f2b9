package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CallLog is a finished call as reported by the voice platform's post-call webhook.
type CallLog struct {
	ID                  uuid.UUID  `json:"_id"`
	SessionID           string     `json:"sessionId"`
	ToPhoneNumber       *string    `json:"toPhoneNumber,omitempty"`
	FromPhoneNumber     *string    `json:"fromPhoneNumber,omitempty"`
	CallType            *string    `json:"callType,omitempty"`
	DisconnectionReason *string    `json:"disconnectionReason,omitempty"`
	Direction           *string    `json:"direction,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	EndedAt             *time.Time `json:"endedAt,omitempty"`
	Transcript          [][]string `json:"transcript"`
	Summary             *string    `json:"summary,omitempty"`
	IsSuccessful        bool       `json:"isSuccessful"`
	DynamicVariables    Value      `json:"dynamicVariables"`
}

// CallLogValidationError reports a payload that cannot be stored as a call log.
type CallLogValidationError struct {
	Field  string
	Reason string
}

func (e *CallLogValidationError) Error() string {
	return fmt.Sprintf("call log validation failed: %s: %s", e.Field, e.Reason)
}

// CallLogFromPayload maps a post-call webhook body onto a CallLog. Unknown
// fields are dropped; createdAt and endedAt are coerced to timestamps. NUL
// characters are removed from all text.
func CallLogFromPayload(body Value) (*CallLog, error) {
	body = body.StripNUL()
	cl := &CallLog{
		ID:               uuid.New(),
		Transcript:       [][]string{},
		DynamicVariables: EmptyMap(),
	}

	sessionID, ok := body.Lookup("sessionId").Text()
	if !ok || sessionID == "" {
		return nil, &CallLogValidationError{Field: "sessionId", Reason: "is required"}
	}
	cl.SessionID = sessionID

	created := body.Lookup("createdAt")
	if !created.Truthy() {
		return nil, &CallLogValidationError{Field: "createdAt", Reason: "is required"}
	}
	t, err := created.Time()
	if err != nil {
		return nil, &CallLogValidationError{Field: "createdAt", Reason: err.Error()}
	}
	cl.CreatedAt = t

	if ended := body.Lookup("endedAt"); ended.Truthy() {
		t, err := ended.Time()
		if err != nil {
			return nil, &CallLogValidationError{Field: "endedAt", Reason: err.Error()}
		}
		cl.EndedAt = &t
	}

	cl.ToPhoneNumber = optionalText(body, "toPhoneNumber")
	cl.FromPhoneNumber = optionalText(body, "fromPhoneNumber")
	cl.CallType = optionalText(body, "callType")
	cl.DisconnectionReason = optionalText(body, "disconnectionReason")
	cl.Direction = optionalText(body, "direction")
	cl.Summary = optionalText(body, "summary")

	if v, ok := body.Lookup("isSuccessful").AsBool(); ok {
		cl.IsSuccessful = v
	}

	if dv, ok := body.Get("dynamicVariables"); ok && dv.IsMap() {
		cl.DynamicVariables = dv
	}

	if tr, ok := body.Get("transcript"); ok && !tr.IsNull() {
		turns, err := transcriptTurns(tr)
		if err != nil {
			return nil, err
		}
		cl.Transcript = turns
	}

	return cl, nil
}

func transcriptTurns(v Value) ([][]string, error) {
	if !v.IsList() {
		return nil, &CallLogValidationError{Field: "transcript", Reason: "must be a list"}
	}
	turns := make([][]string, 0, v.Len())
	for i, item := range v.Items() {
		if !item.IsList() {
			return nil, &CallLogValidationError{Field: fmt.Sprintf("transcript.%d", i), Reason: "must be a list"}
		}
		turn := make([]string, 0, item.Len())
		for _, part := range item.Items() {
			s, ok := part.Text()
			if !ok {
				return nil, &CallLogValidationError{Field: fmt.Sprintf("transcript.%d", i), Reason: "entries must be text"}
			}
			turn = append(turn, s)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func optionalText(body Value, key string) *string {
	s, ok := body.Lookup(key).Text()
	if !ok {
		return nil
	}
	return &s
}
