package models

// VerificationStatus — результат проверки отсканированного пропуска
type VerificationStatus string

const (
	StatusValid   VerificationStatus = "Valid"
	StatusExpired VerificationStatus = "Expired"
	StatusInvalid VerificationStatus = "Invalid"
)

// Platform — целевой кошелёк
type Platform string

const (
	PlatformApple  Platform = "apple"
	PlatformGoogle Platform = "google"
)
