package entities

// Credentials are what a credentials resolver knows about a URL. Headers, when
// present, are sent as-is and take precedence over Token.
type Credentials struct {
	Token   string
	Headers map[string]string
}
