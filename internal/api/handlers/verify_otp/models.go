package verify_otp

// VerifyOTPRequest HTTP request model
type VerifyOTPRequest struct {
	Target string `json:"target"`
	Code   string `json:"code"`
}

// VerifyOTPResponse HTTP response model
type VerifyOTPResponse struct {
	Channel  string `json:"channel"`
	Verified bool   `json:"verified"`
}
