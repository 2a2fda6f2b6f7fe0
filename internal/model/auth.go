package model

// Credentials carries either a username/password pair or a Firebase ID token.
type Credentials struct {
	Username string
	Password string
	IDToken  string
}

func (c Credentials) IsIDToken() bool {
	return c.IDToken != ""
}

type LoginResult struct {
	Token           string
	User            UserProgress
	CompletedQuests []string
}
