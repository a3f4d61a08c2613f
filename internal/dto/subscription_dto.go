package dto

type StartTrialRequest struct {
	PlanID string `json:"plan_id"`
}

type ChangeTierRequest struct {
	PlanID string `json:"plan_id"`
}

type TrialEligibilityResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}
