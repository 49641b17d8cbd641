package model

// CreateRequest is the intake form for a new service request.
type CreateRequest struct {
	PatientName    string `json:"patient_name"`
	PatientContact string `json:"patient_contact"`
	TestID         string `json:"test_id"`
	ScheduledFor   string `json:"scheduled_for"`
	PaymentStatus  string `json:"payment_status"`
	Priority       string `json:"priority"`
	Channel        string `json:"channel"`
	ClinicianNote  string `json:"clinician_note"`
	Notes          string `json:"notes"`
}

// TransitionRequest asks for one status move on an existing request.
type TransitionRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Note   string `json:"note"`
}

type AssignTechnician struct {
	TechnicianName string `json:"technician_name"`
	TechnicianID   string `json:"technician_id"`
	PartnerID      string `json:"partner_id"`
}

type AssignPartner struct {
	PartnerName string `json:"partner_name"`
	PartnerID   string `json:"partner_id"`
}

type CancelRequest struct {
	Actor string `json:"actor"`
}

// UpsertResult carries a reviewer's result submission for a request.
type UpsertResult struct {
	Summary        string `json:"summary"`
	FileName       string `json:"file_name"`
	Flags          string `json:"flags"`
	Abnormal       bool   `json:"abnormal"`
	Recommendation string `json:"recommendation"`
	ReviewedBy     string `json:"reviewed_by"`
}
