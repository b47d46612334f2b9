package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Webhook and function bodies are parsed into models.Value rather than
// structs: callers send loosely typed JSON and the raw body is audited as-is.
// The field names below are the keys handlers read.
const (
	FieldMedicalID = "medical_id"
	FieldPatientID = "patient_id"
	FieldDoctorID  = "doctor_id"
	FieldStartDate = "start_date"
	FieldReason    = "reason"
)
