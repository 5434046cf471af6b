package config

// Config is the top-level YAML structure.
type Config struct {
	Listen     string         `yaml:"listen"`
	Database   DatabaseConf   `yaml:"database"`
	Auth       AuthConf       `yaml:"auth"`
	SMTP       SMTPConf       `yaml:"smtp"`
	Recipients RecipientsConf `yaml:"recipients"`
	IssueRate  IssueRateConf  `yaml:"issue_rate"`
}

// DatabaseConf locates the SQLite event log.
type DatabaseConf struct {
	Path string `yaml:"path"`
}

// AuthConf configures the token authority and the origin allow-list.
// TokenSecret may be left empty in the file and supplied via the
// TOKEN_SECRET environment variable instead.
type AuthConf struct {
	TokenSecret     string   `yaml:"token_secret"`
	TokenTTLSeconds int      `yaml:"token_ttl_seconds"`
	Issuer          string   `yaml:"issuer"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// SMTPConf configures the mail transport. Pass may come from SMTP_PASS.
type SMTPConf struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	SSL  bool   `yaml:"ssl"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

// RecipientsConf routes alert emails.
type RecipientsConf struct {
	PrimaryTo   string   `yaml:"primary_to"`
	ExtraTo     []string `yaml:"extra_to"`
	CC          []string `yaml:"cc"`
	BCC         []string `yaml:"bcc"`
	EmergencyTo []string `yaml:"emergency_to"`
}

// IssueRateConf throttles the unauthenticated token-issue endpoint.
type IssueRateConf struct {
	PerMin int `yaml:"per_min"`
	Burst  int `yaml:"burst"`
}
