package config

import "time"

const (
	// Auth
	AccessTokenTTL = time.Hour
	TokenIssuer    = "childguard-service"
	BcryptCost     = 10

	// HTTP
	MaxBodyBytes      = 10 << 20
	ReadTimeout       = 15 * time.Second
	WriteTimeout      = 15 * time.Second
	StorageOpTimeout  = 8 * time.Second
	DefaultReportPage = 50
	MaxReportPage     = 200

	// Redis keys and channels
	RevokedTokenPrefix = "revoked:"
	ReportFeedChannel  = "reports:new"

	// Sentinel written into anonymous identity fields
	UnknownValue = "Unknown"
)

// AbuseCategories lists the nature-of-abuse values offered by the report form.
var AbuseCategories = []string{
	"Physical Abuse",
	"Verbal Abuse",
	"Sexual Abuse",
	"Psychological Abuse",
	"Neglect",
	"Cyber Sexual Harassment",
}

var AbuserAgeRanges = []string{"Below 18", "18-25", "26-35", "36-45", "46-60", "Above 60"}

var VictimAgeRanges = []string{"0-5", "6-12", "13-17"}

var Relationships = []string{"Parent", "Relative", "Teacher", "Neighbor", "Stranger", "Unknown"}

var Genders = []string{"Male", "Female", "Unknown"}
